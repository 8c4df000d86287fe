package semaphore

import (
	"time"

	"github.com/samvad-hq/semaphore-sms/pkg/httpclient"
)

const (
	// DefaultBaseURL is the root of the v4 REST API.
	DefaultBaseURL = "https://api.semaphore.co/api/v4/"
	// DefaultSenderName is used when no sender name is configured.
	DefaultSenderName = "SEMAPHORE"
	// MaxRecipients is the most numbers a single Send may address.
	MaxRecipients = 1000

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "semaphore-sms-go"
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	senderName string
	baseURL    string
	timeout    time.Duration
	transport  httpclient.Client
	log        Logger
}

// Option configures the client.
type Option func(*clientConfig)

// WithSenderName overrides the sender identity used by Send.
func WithSenderName(name string) Option {
	return func(c *clientConfig) {
		c.senderName = name
	}
}

// WithBaseURL overrides the API root.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithTimeout sets the request timeout of the default transport.
// It has no effect when WithTransport is also given.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithTransport replaces the default resty transport. The transport receives
// absolute URLs joined from the configured base URL, and the client still adds
// the apikey parameter to every request it builds.
func WithTransport(transport httpclient.Client) Option {
	return func(c *clientConfig) {
		c.transport = transport
	}
}

// WithLogger sets a logger for request traces.
func WithLogger(log Logger) Option {
	return func(c *clientConfig) {
		c.log = log
	}
}
