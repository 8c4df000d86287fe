package httpclient

import (
	"fmt"
	"strings"
)

// maxSnippetBytes caps how much of a response body ends up in an error string.
const maxSnippetBytes = 512

// StatusError is returned when the remote end answers with a non-2xx status.
// The full body is kept so callers can inspect the API's error payload.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	snippet := readBodySnippet(e.Body)
	if snippet == "" {
		return fmt.Sprintf("%s %s: http response status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: http response status %d: %s", e.Method, e.URL, e.StatusCode, snippet)
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxSnippetBytes {
		body = body[:maxSnippetBytes]
	}
	return strings.TrimSpace(string(body))
}
