package gemini

import (
	"net/url"
	"strings"
)

// APIVersion is the path prefix of the public Generative Language API.
const APIVersion = "/v1beta"

// ActionGenerate is the non-streaming generation method.
const ActionGenerate = "generateContent"

// BuildActionURL returns {endpoint}/v1beta/models/{model}:{action}.
func BuildActionURL(endpoint, model, action string) string {
	if action == "" {
		action = ActionGenerate
	}
	return strings.TrimRight(endpoint, "/") + APIVersion + "/models/" + url.PathEscape(model) + ":" + action
}
