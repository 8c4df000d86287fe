package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config controls how a RestyClient is built.
type Config struct {
	// Timeout bounds a whole request/response cycle. Zero leaves resty's default.
	Timeout time.Duration
	// DefaultQuery is attached to every request. Request-level values with the
	// same key take precedence.
	DefaultQuery url.Values
	// UserAgent overrides resty's default User-Agent header when set.
	UserAgent string
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient from cfg.
func NewRestyClient(cfg Config) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(cfg)}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(Config{Timeout: timeout})
}

// newRestyBaseClient creates a new resty.Client with the settings in cfg.
func newRestyBaseClient(cfg Config) *resty.Client {
	c := resty.New()
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}
	for key, values := range cfg.DefaultQuery {
		for _, v := range values {
			c.QueryParam.Add(key, v)
		}
	}
	if cfg.UserAgent != "" {
		c.SetHeader("User-Agent", cfg.UserAgent)
	}
	return c
}

// Get performs an HTTP GET request with the given query parameters.
func (r *RestyClient) Get(ctx context.Context, rawURL string, query url.Values) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	return r.execute(req, http.MethodGet, rawURL)
}

// PostForm performs an HTTP POST request with a form-encoded body.
func (r *RestyClient) PostForm(ctx context.Context, rawURL string, form url.Values) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(form) > 0 {
		req.SetFormDataFromValues(form)
	}
	return r.execute(req, http.MethodPost, rawURL)
}

func (r *RestyClient) execute(req *resty.Request, method, rawURL string) (Response, error) {
	resp, err := req.Execute(method, rawURL)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &StatusError{
			Method:     method,
			URL:        rawURL,
			StatusCode: resp.StatusCode(),
			Body:       resp.Body(),
		}
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
