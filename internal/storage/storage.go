// Package storage keeps a local journal of send attempts.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one recorded send attempt.
type Entry struct {
	ID             string    `json:"id"`
	Recipient      string    `json:"recipient"`
	RecipientCount int       `json:"recipient_count"`
	SenderName     string    `json:"sender_name"`
	Message        string    `json:"message"`
	Response       string    `json:"response,omitempty"`
	Error          string    `json:"error,omitempty"`
	SentAt         time.Time `json:"sent_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Store records send attempts and lists the most recent ones.
type Store interface {
	Close() error
	Record(entry Entry) (Entry, error)
	Recent(limit int) ([]Entry, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	EntryTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultEntryTTL        = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.EntryTTL <= 0 {
		opts.EntryTTL = defaultEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                  { return nil }
func (noopStore) Record(e Entry) (Entry, error) { return e, nil }
func (noopStore) Recent(int) ([]Entry, error)   { return nil, nil }
