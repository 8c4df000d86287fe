package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/semaphore-sms/internal/config"
	"github.com/samvad-hq/semaphore-sms/internal/logger"
	"github.com/samvad-hq/semaphore-sms/internal/storage"
	"github.com/samvad-hq/semaphore-sms/pkg/receipts"
	"github.com/samvad-hq/semaphore-sms/pkg/semaphore"
)

// Dispatcher wires the API client to the local journal and receipt sinks.
// Query operations are plain passthroughs; Send additionally records and
// forwards the outcome.
type Dispatcher struct {
	client SMSClient
	store  storage.Store
	fanout ReceiptPublisher
	log    logger.Logger
	closer func() error
}

// NewDispatcher assembles a dispatcher from already built collaborators.
// A nil store or fanout disables journaling or receipt forwarding.
func NewDispatcher(client SMSClient, store storage.Store, fanout ReceiptPublisher, log logger.Logger) (*Dispatcher, error) {
	if client == nil {
		return nil, fmt.Errorf("sms client must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Dispatcher{
		client: client,
		store:  store,
		fanout: fanout,
		log:    log,
	}, nil
}

// NewDispatcherFromConfig builds the client, journal and receipt sinks described by cfg.
func NewDispatcherFromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) (*Dispatcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := semaphore.New(cfg.APIKey,
		semaphore.WithSenderName(cfg.SenderName),
		semaphore.WithBaseURL(cfg.BaseURL),
		semaphore.WithTimeout(cfg.HTTPTimeout),
		semaphore.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("init semaphore client: %w", err)
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.JournalPath, storage.Options{
		EntryTTL:        cfg.JournalTTL,
		CleanupInterval: cfg.JournalCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.DebugObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.JournalPath,
		"entry_ttl_seconds":        int(cfg.JournalTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.JournalCleanupInterval.Seconds()),
	})

	fanout, err := buildFanout(ctx, cfg.ReceiptsFile, log)
	if err != nil {
		store.Close()
		return nil, err
	}

	d, err := NewDispatcher(client, store, fanout, log)
	if err != nil {
		store.Close()
		fanout.Close()
		return nil, err
	}
	d.closer = fanout.Close
	return d, nil
}

func buildFanout(ctx context.Context, path string, log logger.Logger) (*receipts.Fanout, error) {
	if path == "" {
		return receipts.NewFanout(nil), nil
	}

	reg, err := receipts.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load receipts registry: %w", err)
	}
	enabled := reg.Enabled()
	sinks, err := receipts.BuildAll(ctx, receipts.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build receipt sinks: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, sinkCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   sinkCfg.ID,
			"type": sinkCfg.Type,
		})
	}
	log.DebugObj("receipt sinks loaded", "sinks_meta", map[string]any{
		"count": len(summaries),
		"sinks": summaries,
	})
	return receipts.NewFanout(sinks), nil
}

// Send sends message through the API and records the attempt. The API's
// body and error are returned exactly as the client produced them.
func (d *Dispatcher) Send(ctx context.Context, recipient, message string) ([]byte, error) {
	start := time.Now()
	body, sendErr := d.client.Send(ctx, recipient, message)
	count := semaphore.CountRecipients(recipient)

	meta := map[string]any{
		"recipient_count": count,
		"sender_name":     d.client.SenderName(),
		"elapsed_ms":      time.Since(start).Milliseconds(),
	}
	if sendErr != nil {
		meta["error"] = sendErr.Error()
		d.log.WarnObj("send failed", "send_meta", meta)
	} else {
		d.log.InfoObj("send completed", "send_meta", meta)
	}

	d.record(recipient, count, message, body, sendErr)
	d.forward(ctx, receipts.NewReceipt(recipient, count, d.client.SenderName(), body, sendErr))

	return body, sendErr
}

func (d *Dispatcher) record(recipient string, count int, message string, body []byte, sendErr error) {
	if d.store == nil {
		return
	}
	entry := storage.Entry{
		Recipient:      recipient,
		RecipientCount: count,
		SenderName:     d.client.SenderName(),
		Message:        message,
		Response:       string(body),
		SentAt:         time.Now().UTC(),
	}
	if sendErr != nil {
		entry.Error = sendErr.Error()
	}
	if _, err := d.store.Record(entry); err != nil {
		d.log.ErrorObj("journal record failed", "error", err)
	}
}

func (d *Dispatcher) forward(ctx context.Context, r receipts.Receipt) {
	if d.fanout == nil {
		return
	}
	delivered, err := d.fanout.Publish(ctx, r)
	if err != nil {
		d.log.ErrorObj("receipt fan-out failed", "receipt_meta", map[string]any{
			"delivered": delivered,
			"error":     err.Error(),
		})
	}
}

// Balance retrieves the account balance.
func (d *Dispatcher) Balance(ctx context.Context) ([]byte, error) { return d.client.Balance(ctx) }

// Account retrieves the account details.
func (d *Dispatcher) Account(ctx context.Context) ([]byte, error) { return d.client.Account(ctx) }

// Message retrieves a single message.
func (d *Dispatcher) Message(ctx context.Context, id string) ([]byte, error) {
	return d.client.Message(ctx, id)
}

// Messages lists messages.
func (d *Dispatcher) Messages(ctx context.Context, opts semaphore.MessagesOptions) ([]byte, error) {
	return d.client.Messages(ctx, opts)
}

// Users lists the account's users.
func (d *Dispatcher) Users(ctx context.Context) ([]byte, error) { return d.client.Users(ctx) }

// SenderNames lists the account's sender names.
func (d *Dispatcher) SenderNames(ctx context.Context) ([]byte, error) {
	return d.client.SenderNames(ctx)
}

// Transactions lists the account's transactions.
func (d *Dispatcher) Transactions(ctx context.Context) ([]byte, error) {
	return d.client.Transactions(ctx)
}

// History returns up to limit journal entries, newest first.
func (d *Dispatcher) History(limit int) ([]storage.Entry, error) {
	if d.store == nil {
		return nil, nil
	}
	return d.store.Recent(limit)
}

// Close releases the journal and any receipt sink clients.
func (d *Dispatcher) Close() error {
	if d == nil {
		return nil
	}
	if d.closer != nil {
		if err := d.closer(); err != nil {
			d.log.ErrorObj("receipt sinks close failed", "error", err)
		}
	}
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}
