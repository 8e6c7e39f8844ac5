package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/AlvesGus/finbot/internal/model"
)

// jsonSpanRe captures the widest brace-delimited span: first "{" to last
// "}". Deliberately greedy and not nesting-aware; when a response echoes
// several JSON fragments the whole span is taken and decoding decides.
var jsonSpanRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON locates a JSON object embedded in arbitrary model output and
// decodes it into a Movement. Returns nil when no brace span exists or the
// span does not decode; callers treat that as "no data", never as an error.
func extractJSON(text string) *model.Movement {
	span := jsonSpanRe.FindString(cleanMarkdownWrapper(text))
	if span == "" {
		return nil
	}

	var m model.Movement
	if err := json.Unmarshal([]byte(span), &m); err != nil {
		return nil
	}
	return &m
}

// cleanMarkdownWrapper strips ```json fences that models emit despite
// being told not to.
func cleanMarkdownWrapper(content string) string {
	s := strings.TrimSpace(content)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSpace(s)
	}

	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}

	return s
}
