package upload

import (
	"io"
	"net/http"
	"strconv"
	"strings"
)

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// statusText returns the reason phrase of resp, e.g. "Internal Server Error"
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	if text == "" {
		text = "status " + strconv.Itoa(resp.StatusCode)
	}
	return text
}

// drain discards the rest of the body so the connection can be reused
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
}
