package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	journalBucket = "journal"
	keyBytes      = 16
)

// boltStore implements a Store backed by BoltDB. Keys are the send time in
// nanoseconds followed by the bucket sequence, so cursor order is send order.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	entryTTL        time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(journalBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		entryTTL:        opts.EntryTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	if err := store.cleanupExpired(store.now()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Record appends entry to the journal and returns it with ID and expiry filled in.
func (b *boltStore) Record(entry Entry) (Entry, error) {
	if b == nil || b.db == nil {
		return entry, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return entry, err
	}
	if entry.SentAt.IsZero() {
		entry.SentAt = now.UTC()
	}
	entry.ExpiresAt = entry.SentAt.Add(b.entryTTL)

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucket))
		if bucket == nil {
			return fmt.Errorf("journal bucket missing")
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		key := encodeKey(entry.SentAt, seq)
		entry.ID = fmt.Sprintf("%x", key)

		raw, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		return bucket.Put(key, raw)
	})
	return entry, err
}

// Recent returns up to limit unexpired entries, newest first.
func (b *boltStore) Recent(limit int) ([]Entry, error) {
	if b == nil || b.db == nil || limit <= 0 {
		return nil, nil
	}

	now := b.now()
	var out []Entry
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucket))
		if bucket == nil {
			return fmt.Errorf("journal bucket missing")
		}
		c := bucket.Cursor()
		for k, v := c.Last(); k != nil && len(out) < limit; k, v = c.Prev() {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("decode entry %x: %w", k, err)
			}
			if !entry.ExpiresAt.After(now) {
				continue
			}
			out = append(out, entry)
		}
		return nil
	})
	return out, err
}

// maybeCleanupExpired removes expired entries on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}
	return b.cleanupExpired(now)
}

// cleanupExpired deletes expired or unreadable entries and restarts the cleanup clock.
// It also runs once on open, since a short-lived process may never reach the cadence.
func (b *boltStore) cleanupExpired(now time.Time) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucket))
		if bucket == nil {
			return fmt.Errorf("journal bucket missing")
		}
		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil || !entry.ExpiresAt.After(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cleanup expired entries: %w", err)
	}
	b.lastCleanup.Store(now.Unix())
	return nil
}

func encodeKey(t time.Time, seq uint64) []byte {
	buf := make([]byte, keyBytes)
	binary.BigEndian.PutUint64(buf[:8], uint64(t.UnixNano()))
	binary.BigEndian.PutUint64(buf[8:], seq)
	return buf
}
