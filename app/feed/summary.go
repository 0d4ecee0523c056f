package feed

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Summarizer derives a plain-text, length-bounded summary from raw,
// possibly markup-laden content.
type Summarizer struct {
	policy *bluemonday.Policy
}

func NewSummarizer() *Summarizer {
	return &Summarizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Run strips all markup from content, truncates at the first space at or
// after maxLength so no word is split, then collapses line breaks, tabs
// and double spaces into single spaces and trims the result. Content
// within maxLength is only whitespace-normalized.
func (s *Summarizer) Run(content string, maxLength int) string {
	text := html.UnescapeString(s.policy.Sanitize(content))

	if maxLength > 0 && len(text) > maxLength && strings.Contains(text, " ") {
		if idx := strings.IndexByte(text[maxLength:], ' '); idx >= 0 {
			text = text[:maxLength+idx]
		}
	}

	return collapseWhitespace(text)
}

func collapseWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\t", " ")
	for strings.Contains(text, "  ") {
		text = strings.ReplaceAll(text, "  ", " ")
	}
	return strings.TrimSpace(text)
}
