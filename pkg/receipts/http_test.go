package receipts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samvad-hq/semaphore-sms/pkg/httpclient"
)

func TestHTTPSinkSuccess(t *testing.T) {
	var got Receipt
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if h := r.Header.Get("X-Test"); h != "1" {
			t.Fatalf("missing header, got %s", h)
		}
		if h := r.Header.Get(HeaderReceiptStatus); h != StatusSent {
			t.Fatalf("%s = %q", HeaderReceiptStatus, h)
		}
		if h := r.Header.Get(HeaderSenderName); h != "ACME" {
			t.Fatalf("%s = %q", HeaderSenderName, h)
		}
		if h := r.Header.Get(HeaderRecipientCount); h != "2" {
			t.Fatalf("%s = %q", HeaderRecipientCount, h)
		}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Fatalf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink, err := newHTTPSink(context.Background(), SinkConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPSinkConfig{
			URL:            srv.URL,
			Method:         http.MethodPost,
			Headers:        map[string]string{"X-Test": "1"},
			TimeoutSeconds: 2,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPSink: %v", err)
	}

	if err := sink.Publish(context.Background(), NewReceipt("0917,0918", 2, "ACME", []byte(`[]`), nil)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got.Recipient != "0917,0918" || got.RecipientCount != 2 || got.SenderName != "ACME" {
		t.Fatalf("server received %#v", got)
	}
}

func TestHTTPSinkErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	sink, err := newHTTPSink(context.Background(), SinkConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPSinkConfig{
			URL:            srv.URL,
			Method:         http.MethodPost,
			TimeoutSeconds: 1,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPSink: %v", err)
	}

	err = sink.Publish(context.Background(), Receipt{})
	if err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
	var statusErr *httpclient.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *httpclient.StatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusBadRequest || statusErr.Method != http.MethodPost {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Fatalf("error should carry body snippet, got %q", err.Error())
	}
}

func TestHTTPSinkReceiptHeadersOverrideConfigured(t *testing.T) {
	var status string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status = r.Header.Get(HeaderReceiptStatus)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink, err := newHTTPSink(context.Background(), SinkConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPSinkConfig{
			URL:            srv.URL,
			Method:         http.MethodPut,
			Headers:        map[string]string{HeaderReceiptStatus: "spoofed"},
			TimeoutSeconds: 1,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPSink: %v", err)
	}

	failed := NewReceipt("0917", 1, "ACME", nil, errors.New("boom"))
	if err := sink.Publish(context.Background(), failed); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if status != StatusFailed {
		t.Fatalf("%s = %q, want %q", HeaderReceiptStatus, status, StatusFailed)
	}
}
