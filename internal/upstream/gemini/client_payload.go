package gemini

import (
	"github.com/tidwall/sjson"
)

// BuildPayload wraps prompt in a single-turn conversation:
// {"contents":[{"role":"user","parts":[{"text":prompt}]}]}
func BuildPayload(prompt string) ([]byte, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "contents.0.role", "user")
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(body, "contents.0.parts.0.text", prompt)
}
