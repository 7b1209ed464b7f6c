package broker

import "github.com/valpere/bettertext/internal"

// Action tags an inbound message.
type Action string

const (
	ActionTextSelected    Action = "textSelected"
	ActionTestTranslation Action = "testTranslation"
	ActionRewriteText     Action = "rewriteText"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Request is an inbound message. Which fields apply depends on Action:
// textSelected uses Text; testTranslation carries its own credentials and
// target language; rewriteText adds Platform and TargetLanguage.
type Request struct {
	Action         Action `json:"action"`
	Text           string `json:"text"`
	APIProvider    string `json:"apiProvider,omitempty"`
	APIKey         string `json:"apiKey,omitempty"`
	Model          string `json:"model,omitempty"`
	TargetLanguage string `json:"targetLanguage,omitempty"`
	Platform       string `json:"platform,omitempty"`
}

// Response is the normalized reply. testTranslation replies only carry
// Success with either Translation or Error; every other action uses Status
// and Message.
type Response struct {
	Status      string                `json:"status,omitempty"`
	Translation *internal.Translation `json:"translation,omitempty"`
	FromCache   bool                  `json:"fromCache,omitempty"`
	Rewrites    []string              `json:"rewrites,omitempty"`
	Message     string                `json:"message,omitempty"`

	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

func errorResponse(err error) Response {
	return Response{Status: StatusError, Message: err.Error()}
}

func testResponse(t *internal.Translation, err error) Response {
	ok := err == nil
	if !ok {
		return Response{Success: &ok, Error: err.Error()}
	}
	return Response{Success: &ok, Translation: t}
}
