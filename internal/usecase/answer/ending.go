package answer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// shortFragmentLen is the cutoff below which a trailing sentence fragment is
// considered truncated output rather than a real sentence.
const shortFragmentLen = 5

// EnsureProperEnding normalizes generated text so it reads as a finished
// answer: trims whitespace, drops a truncated trailing sentence fragment or
// completes an unfinished one with a period, and capitalizes the first
// letter. Non-empty output always ends in ".", "!" or "?". Idempotent.
func EnsureProperEnding(text string) string {
	if text == "" {
		return text
	}

	text = strings.TrimSpace(text)

	if strings.HasSuffix(text, ".") || strings.HasSuffix(text, "!") || strings.HasSuffix(text, "?") {
		return text
	}

	sentences := strings.Split(text, ".")
	lastFragment := strings.TrimSpace(sentences[len(sentences)-1])
	switch {
	case len(lastFragment) >= shortFragmentLen:
		// A real unfinished sentence: complete it.
		text += "."
	case len(sentences) > 1:
		// Drop the truncated fragment, keep the complete sentences.
		text = strings.Join(sentences[:len(sentences)-1], ".") + "."
	default:
		text = strings.TrimRight(text, " \t\n") + "."
	}

	return capitalize(text)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// defaultEndingPhrases are conversational closers that signal the model has
// wrapped up. English-only heuristic, override via config for other locales.
var defaultEndingPhrases = []string{
	"thank you",
	"that's all",
	"in conclusion",
	"hope this helps",
}

// EndingDetector recognizes natural stopping points in accumulated output.
type EndingDetector struct {
	phrases []string
}

// NewEndingDetector creates a detector. With no phrases given the default
// English closers are used.
func NewEndingDetector(phrases []string) *EndingDetector {
	if len(phrases) == 0 {
		phrases = defaultEndingPhrases
	}
	lowered := make([]string, len(phrases))
	for i, p := range phrases {
		lowered[i] = strings.ToLower(p)
	}
	return &EndingDetector{phrases: lowered}
}

// Detect reports whether text has reached a natural ending: terminal
// punctuation, a closing phrase, or a truncated trailing fragment.
func (d *EndingDetector) Detect(text string) bool {
	if text == "" {
		return false
	}

	trimmed := strings.TrimRight(text, " \t\n")
	if strings.HasSuffix(trimmed, ".") || strings.HasSuffix(trimmed, "!") || strings.HasSuffix(trimmed, "?") {
		return true
	}

	lower := strings.ToLower(trimmed)
	lower = strings.TrimSuffix(lower, ".")
	for _, phrase := range d.phrases {
		if strings.HasSuffix(lower, phrase) {
			return true
		}
	}

	sentences := strings.Split(text, ".")
	if len(sentences) > 1 {
		if len(strings.TrimSpace(sentences[len(sentences)-1])) < shortFragmentLen {
			return true
		}
	}

	return false
}
