package errors

import "net/http"

// HTTPStatus maps a ForwardError to the status returned to the caller.
func (e *ForwardError) HTTPStatus() int {
	if e == nil {
		return http.StatusOK
	}
	return StatusForKind(e.Kind)
}

// StatusForKind maps an error kind to an HTTP status code.
func StatusForKind(kind Kind) int {
	switch kind {
	case KindEmptyPrompt:
		return http.StatusBadRequest
	case KindAuthFailure:
		return http.StatusUnauthorized
	case KindEmptyUpstreamResponse:
		return http.StatusBadGateway
	case KindMissingCredential, KindParseFailure, KindUnexpectedFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Payload is the JSON body written for a failed request.
type Payload struct {
	Error string  `json:"error"`
	Raw   *string `json:"raw,omitempty"`
}

// ToPayload renders the caller-visible error body. Only parse failures
// carry the raw field.
func (e *ForwardError) ToPayload() Payload {
	if e == nil {
		return Payload{Error: DefaultMessage(KindUnexpectedFailure)}
	}
	p := Payload{Error: firstNonEmpty(e.Message, DefaultMessage(e.Kind))}
	if e.HasRaw() {
		raw := e.Raw
		p.Raw = &raw
	}
	return p
}

func firstNonEmpty(strs ...string) string {
	for _, s := range strs {
		if s != "" {
			return s
		}
	}
	return ""
}
