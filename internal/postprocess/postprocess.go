// Package postprocess tidies raw chat-completion content before it is
// parsed as JSON or shown to the user.
package postprocess

import (
	"regexp"
	"strings"
)

var (
	// Go's RE2 has no backreferences, so each tag pair is listed.
	thinkingBlockRe = regexp.MustCompile(
		`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`,
	)
	// an opened reasoning tag the model never closed
	truncatedThinkingRe = regexp.MustCompile(`(?is)(?:<thinking>|<think>|<reasoning>).*$`)

	// ```json ... ``` or ``` ... ``` wrapping the whole answer
	codeFenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n?(.*?)\\n?```$")

	echoRe = regexp.MustCompile(`(?i)^(?:(?:certainly|sure|of course)[,.]? )?(?:here(?:'s| is) )?(?:the )?(?:translation|translated text|rewritten text)\s*:`)
)

// Clean strips reasoning blocks, a wrapping code fence, a leading
// "Here's the translation:" echo and a matching pair of outer quotes.
func Clean(text string) string {
	text = StripThinking(text)
	text = unwrapCodeFence(text)
	if loc := echoRe.FindStringIndex(text); loc != nil {
		text = strings.TrimSpace(text[loc[1]:])
	}
	return unquote(text)
}

// StripThinking removes <think>-style reasoning emitted by reasoning models.
func StripThinking(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ExtractJSON returns the JSON object embedded in a model answer: reasoning
// and code fences are removed and the text between the first '{' and the
// last '}' is returned. It reports false when no object delimiters exist.
func ExtractJSON(text string) (string, bool) {
	text = unwrapCodeFence(StripThinking(text))

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

func unwrapCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if m := codeFenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// unquote drops a matching pair of outer quotes: "…" '…' «…» “…” ‘…’
func unquote(text string) string {
	runes := []rune(strings.TrimSpace(text))
	n := len(runes)
	if n < 2 {
		return string(runes)
	}
	first, last := runes[0], runes[n-1]
	if (first == '"' && last == '"') ||
		(first == '\'' && last == '\'') ||
		(first == '«' && last == '»') ||
		(first == '“' && last == '”') ||
		(first == '‘' && last == '’') {
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return string(runes)
}
