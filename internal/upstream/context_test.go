package upstream

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAll(t *testing.T) {
	resp := &http.Response{Body: io.NopCloser(strings.NewReader("payload"))}
	by, err := ReadAll(resp)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(by))

	by, err = ReadAll(nil)
	require.NoError(t, err)
	assert.Nil(t, by)
}

func TestReadAllRejectsOversizedBody(t *testing.T) {
	resp := &http.Response{Body: io.NopCloser(strings.NewReader("12345"))}
	by, err := readAll(resp, 5)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(by))

	resp = &http.Response{Body: io.NopCloser(strings.NewReader("123456"))}
	by, err = readAll(resp, 5)
	require.ErrorIs(t, err, ErrBodyTooLarge)
	assert.Nil(t, by)
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, "2xx"},
		{201, "2xx"},
		{302, "3xx"},
		{404, "4xx"},
		{503, "5xx"},
		{0, "error"},
		{600, "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusClass(tt.code), "code %d", tt.code)
	}
}
