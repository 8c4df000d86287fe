package httpclient

import (
	"context"
	"net/url"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, rawURL string, query url.Values) (Response, error)
	PostForm(ctx context.Context, rawURL string, form url.Values) (Response, error)
}
