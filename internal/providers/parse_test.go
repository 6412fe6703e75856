package providers

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSON_StripsFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"json tag", "```json\n[1,2]\n```", "[1,2]"},
		{"no tag", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"tag on same line as payload", "```json[1,2]```", "[1,2]"},
		{"surrounding whitespace", "  \n\t```json\n[1,2]\n```\n  ", "[1,2]"},
		{"bare json", " [1, 2] ", "[1, 2]"},
		{"missing closing fence", "```json\n[1,2]", "[1,2]"},
		{"prose around fence", "Here you go:\n```json\n{\"a\":[1]}\n```\nGood luck!", `{"a":[1]}`},
		{"prose without fence", "Sure! [\"x\", \"y\"] hope it helps", `["x", "y"]`},
		{"brackets inside strings", `note: {"q":"what is [x]?","a":["}"]} end`, `{"q":"what is [x]?","a":["}"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanJSON(tt.raw)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestCleanJSON_Malformed(t *testing.T) {
	for _, raw := range []string{"not json", "", "   ", "```json\n```", "[1,2", "{\"a\": }"} {
		t.Run(raw, func(t *testing.T) {
			got, err := CleanJSON(raw)
			require.Error(t, err)
			assert.Nil(t, got)

			var mj *MalformedJSON
			require.True(t, errors.As(err, &mj), "want *MalformedJSON, got %T", err)
		})
	}
}

func TestCleanJSON_SnippetIsTruncated(t *testing.T) {
	raw := "oops " + strings.Repeat("x", 500)

	_, err := CleanJSON(raw)

	var mj *MalformedJSON
	require.True(t, errors.As(err, &mj))
	assert.True(t, strings.HasPrefix(mj.Snippet, "oops xxx"))
	assert.Equal(t, SnippetLimit+1, len([]rune(mj.Snippet)))
	assert.Contains(t, err.Error(), "oops xxx")
}

func TestCleanJSON_SnippetOfShortText(t *testing.T) {
	_, err := CleanJSON("not json")

	var mj *MalformedJSON
	require.True(t, errors.As(err, &mj))
	assert.Equal(t, "not json", mj.Snippet)
	assert.Contains(t, err.Error(), "not json")
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, "[1]", StripCodeFences("```javascript\n[1]\n```"))
	assert.Equal(t, "plain", StripCodeFences("  plain  "))
	assert.Equal(t, "", StripCodeFences("``````"))
}

func TestCleanJSON_KeepsFencesInsideStrings(t *testing.T) {
	inner := `[{"question":"What does this compute?\n` + "```python\\nbudget = income - spend\\n```" + `","answers":["a"]}]`
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"unfenced payload", inner, inner},
		{"fenced payload", "```json\n" + inner + "\n```", inner},
		{"inline markers", `{"explanation":"use ` + "```code```" + ` here"}`, `{"explanation":"use ` + "```code```" + ` here"}`},
		{"prose around fenced payload", "Here:\n```json\n" + inner + "\n```\nDone.", inner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanJSON(tt.raw)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}
