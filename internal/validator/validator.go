// Package validator checks that a translation came back in the language
// that was asked for.
package validator

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
)

// minValidationLength is the minimum rune count required to attempt language detection.
// Shorter texts produce unreliable results and are accepted without validation.
const minValidationLength = 20

var ErrWrongLanguage = errors.New("translation is not in the target language")

// ISODetector returns the lowercase ISO 639-1 code of a text's language.
type ISODetector interface {
	DetectISO(text string) (string, bool)
}

// Validator shares its detector with the broker; building one is
// expensive.
type Validator struct {
	det ISODetector
}

func New(det ISODetector) *Validator {
	return &Validator{det: det}
}

// Check reports ErrWrongLanguage when text is detected as a language other
// than the base language of targetLang, a BCP 47 code such as "zh-CN".
// Short texts, ambiguous detections and unparseable codes pass.
func (v *Validator) Check(text, targetLang string) error {
	want := baseLanguage(targetLang)
	if want == "" {
		return nil
	}

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minValidationLength {
		return nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		return nil
	}

	if !strings.EqualFold(detected, want) {
		return fmt.Errorf("%w: expected %s but detected %s", ErrWrongLanguage, want, detected)
	}
	return nil
}

func baseLanguage(code string) string {
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}
