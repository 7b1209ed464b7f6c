// Package detector guesses the language of a text selection so the
// translation prompt can name its source language.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// supported covers the target languages offered in the settings plus a few
// common sources. Restricting the set keeps model loading cheap and avoids
// wild guesses on short selections.
var supported = []lingua.Language{
	lingua.English,
	lingua.Chinese,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Japanese,
	lingua.Korean,
	lingua.Russian,
	lingua.Portuguese,
	lingua.Italian,
	lingua.Arabic,
	lingua.Hindi,
	lingua.Ukrainian,
	lingua.Dutch,
	lingua.Polish,
	lingua.Turkish,
}

type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(supported...).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectName returns the English name of the detected language, e.g.
// "German".
func (d *Detector) DetectName(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return lang.String(), true
}

func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
