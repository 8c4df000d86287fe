package receipts

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/semaphore-sms/pkg/httpclient"
)

// Headers set on every webhook delivery so receivers can route receipts
// without decoding the body. Configured headers with the same name are
// overwritten.
const (
	HeaderReceiptStatus  = "X-Receipt-Status"
	HeaderSenderName     = "X-Receipt-Sender-Name"
	HeaderRecipientCount = "X-Receipt-Recipient-Count"
)

// webhookSink POSTs (or PUTs) each receipt as JSON to a configured URL.
type webhookSink struct {
	id      string
	method  string
	url     string
	headers map[string]string
	client  *resty.Client
	log     Logger
}

func newHTTPSink(_ context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("sink %q missing http configuration", cfg.ID)
	}

	return &webhookSink{
		id:      cfg.ID,
		method:  cfg.HTTP.Method,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		client:  httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second),
		log:     ensureLogger(log),
	}, nil
}

func (w *webhookSink) ID() string   { return w.id }
func (w *webhookSink) Type() string { return TypeHTTP }

func (w *webhookSink) Publish(ctx context.Context, r Receipt) error {
	req := w.client.R().
		SetContext(ctx).
		SetHeaders(w.headers).
		SetHeaders(map[string]string{
			"Content-Type":       "application/json",
			HeaderReceiptStatus:  r.Status,
			HeaderSenderName:     r.SenderName,
			HeaderRecipientCount: strconv.Itoa(r.RecipientCount),
		}).
		SetBody(r)

	resp, err := req.Execute(w.method, w.url)
	if err != nil {
		return fmt.Errorf("deliver receipt to %s: %w", w.id, err)
	}
	if resp.IsError() {
		return &httpclient.StatusError{
			Method:     w.method,
			URL:        w.url,
			StatusCode: resp.StatusCode(),
			Body:       resp.Body(),
		}
	}
	w.log.DebugObj("http sink delivered receipt", "sink_http_delivery", map[string]any{
		"sink_id": w.id,
		"status":  resp.StatusCode(),
		"receipt": r.Status,
	})
	return nil
}
