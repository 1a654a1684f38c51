// Package prompt serves POST /api/gemini.
package prompt

import (
	"context"
	"net/http"

	apperrors "gemini-proxy-go/internal/errors"
	"gemini-proxy-go/internal/forwarder"
	"gemini-proxy-go/internal/logging"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// MaxBodyBytes bounds the inbound request body.
const MaxBodyBytes = 1 << 20

// Forwarder is the part of *forwarder.Forwarder the handler needs.
type Forwarder interface {
	Forward(ctx context.Context, prompt string) (*forwarder.Result, error)
}

var _ Forwarder = (*forwarder.Forwarder)(nil)

// Handler adapts HTTP requests to the prompt forwarder.
type Handler struct {
	fw Forwarder
}

func New(fw Forwarder) *Handler {
	return &Handler{fw: fw}
}

// Generate handles {"prompt": "..."} and replies with {text, raw} or {error, raw?}.
func (h *Handler) Generate(c *gin.Context) {
	res, err := h.fw.Forward(c.Request.Context(), readPrompt(c))
	if err != nil {
		AbortWithForwardError(c, err)
		return
	}
	body, err := encodeResult(res)
	if err != nil {
		AbortWithForwardError(c, apperrors.Unexpected(err))
		return
	}
	c.Set("forward_result", "ok")
	c.Data(http.StatusOK, jsonContentType, body)
}

const jsonContentType = "application/json; charset=utf-8"

// encodeResult writes {"text":...,"raw":...} with raw spliced in verbatim.
// The forwarder has already checked raw with gjson, so it is not re-validated.
func encodeResult(res *forwarder.Result) ([]byte, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "text", res.Text)
	if err != nil {
		return nil, err
	}
	raw := []byte(res.Raw)
	if len(raw) == 0 {
		raw = []byte("null")
	}
	return sjson.SetRawBytes(body, "raw", raw)
}

// readPrompt extracts the prompt field. Unreadable bodies, invalid JSON and
// non-string values all yield "" so the forwarder rejects them as empty.
func readPrompt(c *gin.Context) string {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	body, err := c.GetRawData()
	if err != nil {
		logging.WithReq(c, log.Fields{"error": err.Error()}).Debug("read request body failed")
		return ""
	}
	if !gjson.ValidBytes(body) {
		return ""
	}
	p := gjson.GetBytes(body, "prompt")
	if p.Type != gjson.String {
		return ""
	}
	return p.Str
}

// AbortWithForwardError writes the status and payload for err and aborts.
func AbortWithForwardError(c *gin.Context, err error) {
	fe := apperrors.As(err)
	c.Set("forward_result", string(fe.Kind))
	c.AbortWithStatusJSON(fe.HTTPStatus(), fe.ToPayload())
}

// MethodNotAllowed rejects every method other than POST.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}
