package provider

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// languageNames covers the target languages offered by the settings form.
// Region variants of Chinese need the explicit script name.
var languageNames = map[string]string{
	"zh-CN": "Chinese (Simplified)",
	"zh-TW": "Chinese (Traditional)",
	"es":    "Spanish",
	"fr":    "French",
	"de":    "German",
	"ja":    "Japanese",
	"ko":    "Korean",
	"ru":    "Russian",
	"pt":    "Portuguese",
	"it":    "Italian",
	"ar":    "Arabic",
	"hi":    "Hindi",
	"en":    "English",
}

// LanguageName returns the English name for a BCP 47 code. Unknown or
// unparseable codes are returned unchanged.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}

var translationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"translation": map[string]any{"type": "string"},
		"examples": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"source": map[string]any{"type": "string"},
					"target": map[string]any{"type": "string"},
				},
				"required":             []string{"source", "target"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"translation", "examples"},
	"additionalProperties": false,
}

var rewriteSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"rewrites": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required":             []string{"rewrites"},
	"additionalProperties": false,
}

const translationShape = `{"translation": "<translated text>", "examples": [{"source": "<sentence in the source language>", "target": "<its translation>"}, {"source": "<sentence in the source language>", "target": "<its translation>"}]}`

const rewriteShape = `{"rewrites": ["<variant 1>", "<variant 2>", "<variant 3>"]}`

// translateSystemPrompt builds the instruction for a translation. With
// inlineShape set, the JSON shape is spelled out for endpoints without
// schema enforcement.
func translateSystemPrompt(req TranslateRequest, inlineShape bool) string {
	target := LanguageName(req.TargetLang)

	var sb strings.Builder
	sb.WriteString("You are a professional translator. ")
	if req.SourceLang != "" {
		sb.WriteString(fmt.Sprintf("Translate the user's text from %s to %s.", req.SourceLang, target))
	} else {
		sb.WriteString(fmt.Sprintf("Detect the language of the user's text and translate it to %s.", target))
	}
	sb.WriteString(" Provide only the translation, no explanations.")
	sb.WriteString(fmt.Sprintf(" Also give exactly %d short example sentences that use the text or its key phrase naturally,", ExampleCount))
	sb.WriteString(fmt.Sprintf(" each written in the source language together with its translation to %s.", target))

	if inlineShape {
		sb.WriteString("\n\nRespond ONLY with a JSON object of exactly this shape and nothing else:\n")
		sb.WriteString(translationShape)
	}
	return sb.String()
}

func rewriteSystemPrompt(req RewriteRequest, inlineShape bool) string {
	target := LanguageName(req.TargetLang)

	var sb strings.Builder
	switch req.Platform {
	case Teams:
		sb.WriteString("You help people write Microsoft Teams chat messages. ")
		sb.WriteString(fmt.Sprintf("Rewrite the user's text in %s in a casual, friendly and concise tone suitable for a quick chat with colleagues.", target))
	default:
		sb.WriteString("You help people write Outlook emails. ")
		sb.WriteString(fmt.Sprintf("Rewrite the user's text in %s in a formal, polite and professional tone suitable for business email.", target))
	}
	sb.WriteString(fmt.Sprintf(" Keep the original meaning. Produce exactly %d distinct variants.", VariantCount))

	if inlineShape {
		sb.WriteString("\n\nRespond ONLY with a JSON object of exactly this shape and nothing else:\n")
		sb.WriteString(rewriteShape)
	}
	return sb.String()
}

func messages(system, user string) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}
