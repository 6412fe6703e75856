package providers

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// SnippetLimit caps how much offending model text is echoed back in errors.
const SnippetLimit = 200

var (
	// opening marker with optional language tag, at the very start
	rxFenceOpen = regexp.MustCompile("^```[\\w+-]*[ \\t]*\\r?\\n?")
	// closing marker at the very end
	rxFenceClose = regexp.MustCompile("\\r?\\n?```$")
	// first fenced block inside surrounding prose
	rxFenceBlock = regexp.MustCompile("(?s)```[\\w+-]*[ \\t]*\\r?\\n?(.*?)```")
)

// StripCodeFences removes the code-fence markers that bound the payload.
// Markers inside the payload are left alone.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = rxFenceOpen.ReplaceAllString(s, "")
		s = rxFenceClose.ReplaceAllString(strings.TrimSpace(s), "")
		return strings.TrimSpace(s)
	}
	if m := rxFenceBlock.FindStringSubmatch(s); len(m) > 1 && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1])
	}
	return s
}

// CleanJSON turns raw model text into a JSON document.
// Priorities: text as-is -> text without bounding fences -> first balanced
// array or object.
func CleanJSON(raw string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), nil
	}

	s := StripCodeFences(trimmed)
	if s == "" {
		return nil, &MalformedJSON{Snippet: truncateSingleLine(raw, SnippetLimit), Err: errors.New("empty payload")}
	}
	if json.Valid([]byte(s)) {
		return json.RawMessage(s), nil
	}
	for _, candidate := range []string{s, trimmed} {
		if seg := extractFirstJSONValue(candidate); seg != "" && json.Valid([]byte(seg)) {
			return json.RawMessage(seg), nil
		}
	}

	var v any
	err := json.Unmarshal([]byte(s), &v)
	if err == nil {
		err = errors.New("invalid JSON")
	}
	return nil, &MalformedJSON{Snippet: truncateSingleLine(s, SnippetLimit), Err: err}
}

// extractFirstJSONValue finds the first array or object by bracket balancing,
// ignoring brackets inside string literals.
func extractFirstJSONValue(s string) string {
	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return ""
	}
	level := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[', '{':
			level++
		case ']', '}':
			level--
			if level == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func truncateSingleLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > max {
		return string(r[:max]) + "…"
	}
	return s
}
