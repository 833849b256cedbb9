package advisor

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fenceRe  = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	objectRe = regexp.MustCompile(`(?s)\{.*\}`)
	arrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
)

// ExtractJSON pulls a JSON object or array out of advisor prose.
// Models wrap their output in markdown fences or preamble text more
// often than not; we take the first structure that parses.
func ExtractJSON(content string, v any) error {
	text := strings.TrimSpace(content)

	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	// Fall back to the outermost bracketed region.
	for _, re := range []*regexp.Regexp{arrayRe, objectRe} {
		if m := re.FindString(text); m != "" {
			if err := json.Unmarshal([]byte(m), v); err == nil {
				return nil
			}
		}
	}

	return &ParseError{Snippet: snippet(text)}
}

// ParseError reports an advisor response that carried no usable JSON.
type ParseError struct {
	Snippet string
}

func (e *ParseError) Error() string {
	return "no parseable JSON in advisor response: " + e.Snippet
}

func snippet(s string) string {
	const max = 120
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
