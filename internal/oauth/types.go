package oauth

// GenerativeLanguageScopes is the fixed scope set requested for the
// service-account token.
var GenerativeLanguageScopes = []string{
	"https://www.googleapis.com/auth/generative-language",
	"https://www.googleapis.com/auth/cloud-platform",
}
