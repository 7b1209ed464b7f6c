package internal

import (
	"encoding/json"
	"time"
)

// Example is one sentence pair illustrating a translated word or phrase.
type Example struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Translation is a translated text with up to two usage examples.
type Translation struct {
	Text     string    `json:"translation"`
	Examples []Example `json:"examples"`
}

// UnmarshalJSON also accepts a bare string, the format older cache
// snapshots stored before examples were introduced.
func (t *Translation) UnmarshalJSON(data []byte) error {
	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		*t = Translation{Text: legacy, Examples: []Example{}}
		return nil
	}

	type plain Translation
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Examples == nil {
		p.Examples = []Example{}
	}
	*t = Translation(p)
	return nil
}

// RewriteEntry records one rewrite request and every variant it produced.
type RewriteEntry struct {
	ID            string    `json:"id"`
	OriginalText  string    `json:"originalText"`
	RewrittenText string    `json:"rewrittenText"`
	Platform      string    `json:"platform"`
	Language      string    `json:"language"`
	Timestamp     time.Time `json:"timestamp"`
	AllOptions    []string  `json:"allOptions"`
}
