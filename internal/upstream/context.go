package upstream

import (
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes bounds how much of an upstream body is read into memory.
const maxBodyBytes = 32 << 20

// ErrBodyTooLarge is returned instead of a truncated body.
var ErrBodyTooLarge = errors.New("upstream body exceeds 32 MiB")

// ReadAll reads and closes the response body.
func ReadAll(resp *http.Response) ([]byte, error) {
	return readAll(resp, maxBodyBytes)
}

func readAll(resp *http.Response, limit int64) ([]byte, error) {
	if resp == nil || resp.Body == nil {
		return nil, nil
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, ErrBodyTooLarge
	}
	return body, nil
}

// StatusClass groups a status code into "2xx", "4xx", ... or "error" for none.
func StatusClass(code int) string {
	if code < 100 || code > 599 {
		return "error"
	}
	return string(rune('0'+code/100)) + "xx"
}
