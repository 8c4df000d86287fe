package semaphore

import (
	"context"
	"net/url"
	"strings"

	"github.com/samvad-hq/semaphore-sms/pkg/httpclient"
)

// API paths, relative to the base URL.
const (
	pathAccount      = "account"
	pathUsers        = "account/users"
	pathSenderNames  = "account/sendernames"
	pathTransactions = "account/transactions"
	pathMessages     = "messages"
)

// Client issues requests against the Semaphore API. It is safe for
// concurrent use; nothing is mutated after New returns.
type Client struct {
	apiKey     string
	senderName string
	baseURL    string
	transport  httpclient.Client
	log        Logger
}

// New creates a client authenticated with apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := &clientConfig{
		senderName: DefaultSenderName,
		baseURL:    DefaultBaseURL,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.baseURL == "" {
		cfg.baseURL = DefaultBaseURL
	}

	transport := cfg.transport
	if transport == nil {
		transport = httpclient.NewRestyClient(httpclient.Config{
			Timeout:      cfg.timeout,
			DefaultQuery: url.Values{"apikey": {apiKey}},
			UserAgent:    defaultUserAgent,
		})
	}

	return &Client{
		apiKey:     apiKey,
		senderName: cfg.senderName,
		baseURL:    cfg.baseURL,
		transport:  transport,
		log:        ensureLogger(cfg.log),
	}, nil
}

// APIKey returns the key sent with every request.
func (c *Client) APIKey() string { return c.apiKey }

// SenderName returns the sender identity used by Send.
func (c *Client) SenderName() string { return c.senderName }

// BaseURL returns the API root requests are made against.
func (c *Client) BaseURL() string { return c.baseURL }

// Balance retrieves the account balance.
func (c *Client) Balance(ctx context.Context) ([]byte, error) {
	return c.get(ctx, pathAccount, nil)
}

// Account retrieves the account details. It hits the same endpoint as Balance.
func (c *Client) Account(ctx context.Context) ([]byte, error) {
	return c.get(ctx, pathAccount, nil)
}

// Users lists the users attached to the account.
func (c *Client) Users(ctx context.Context) ([]byte, error) {
	return c.get(ctx, pathUsers, nil)
}

// SenderNames lists the sender names registered to the account.
func (c *Client) SenderNames(ctx context.Context) ([]byte, error) {
	return c.get(ctx, pathSenderNames, nil)
}

// Transactions lists the account's credit transactions.
func (c *Client) Transactions(ctx context.Context) ([]byte, error) {
	return c.get(ctx, pathTransactions, nil)
}

// Send sends message to recipient, a comma separated list of phone numbers.
// The list is only split to enforce MaxRecipients; it is forwarded as given.
func (c *Client) Send(ctx context.Context, recipient, message string) ([]byte, error) {
	if n := CountRecipients(recipient); n > MaxRecipients {
		return nil, tooManyRecipients(n)
	}

	form := url.Values{}
	form.Set("apikey", c.apiKey)
	form.Set("message", message)
	form.Set("number", recipient)
	form.Set("sendername", c.senderName)

	endpoint := c.endpoint(pathMessages)
	c.log.DebugObj("semaphore request", "request", map[string]any{
		"method": "POST",
		"path":   pathMessages,
	})
	resp, err := c.transport.PostForm(ctx, endpoint, form)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Message retrieves a single message by its ID.
func (c *Client) Message(ctx context.Context, messageID string) ([]byte, error) {
	return c.get(ctx, pathMessages+"/"+url.PathEscape(messageID), nil)
}

// Messages lists sent messages. Fields left nil in opts keep their defaults
// (limit 100, page 1) or are omitted.
func (c *Client) Messages(ctx context.Context, opts MessagesOptions) ([]byte, error) {
	return c.get(ctx, pathMessages, opts.query())
}

// CountRecipients returns the number of comma separated entries in
// recipient. Entries are not trimmed or deduplicated, so "" counts as one.
func CountRecipients(recipient string) int {
	return strings.Count(recipient, ",") + 1
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("apikey", c.apiKey)

	c.log.DebugObj("semaphore request", "request", map[string]any{
		"method": "GET",
		"path":   path,
	})
	resp, err := c.transport.Get(ctx, c.endpoint(path), query)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// endpoint joins path onto the configured base URL.
func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.baseURL, "/") + "/" + path
}
