package semaphore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/samvad-hq/semaphore-sms/pkg/httpclient"
)

type fakeResponse struct {
	body   []byte
	status int
}

func (f fakeResponse) Body() []byte    { return f.body }
func (f fakeResponse) StatusCode() int { return f.status }

type call struct {
	method string
	url    string
	values url.Values
}

// fakeTransport records every request and answers with a fixed body or error.
type fakeTransport struct {
	mu    sync.Mutex
	calls []call
	body  []byte
	err   error
}

func (f *fakeTransport) record(method, rawURL string, values url.Values) (httpclient.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{method: method, url: rawURL, values: values})
	if f.err != nil {
		return nil, f.err
	}
	return fakeResponse{body: f.body, status: http.StatusOK}, nil
}

func (f *fakeTransport) Get(_ context.Context, rawURL string, query url.Values) (httpclient.Response, error) {
	return f.record(http.MethodGet, rawURL, query)
}

func (f *fakeTransport) PostForm(_ context.Context, rawURL string, form url.Values) (httpclient.Response, error) {
	return f.record(http.MethodPost, rawURL, form)
}

func (f *fakeTransport) only(t *testing.T) call {
	t.Helper()
	if len(f.calls) != 1 {
		t.Fatalf("expected exactly 1 request, got %d", len(f.calls))
	}
	return f.calls[0]
}

func newTestClient(t *testing.T, tr *fakeTransport, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithTransport(tr)}, opts...)
	c, err := New("secret", opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func assertValues(t *testing.T, got url.Values, want map[string]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected keys %v, got %v", want, got)
	}
	for k, v := range want {
		if vals, ok := got[k]; !ok || len(vals) != 1 || vals[0] != v {
			t.Fatalf("%s = %v, want %q", k, got[k], v)
		}
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestNewDefaults(t *testing.T) {
	c, err := New("secret")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.SenderName() != "SEMAPHORE" {
		t.Fatalf("SenderName = %q", c.SenderName())
	}
	if c.BaseURL() != "https://api.semaphore.co/api/v4/" {
		t.Fatalf("BaseURL = %q", c.BaseURL())
	}
	if c.APIKey() != "secret" {
		t.Fatalf("APIKey = %q", c.APIKey())
	}
}

func TestOverridesApplyToEveryCall(t *testing.T) {
	tr := &fakeTransport{}
	c := newTestClient(t, tr, WithSenderName("ACME"), WithBaseURL("https://example/"))

	if _, err := c.Send(context.Background(), "0917", "hi"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := c.Users(context.Background()); err != nil {
		t.Fatalf("Users: %v", err)
	}

	if got := tr.calls[0].url; got != "https://example/messages" {
		t.Fatalf("send url = %s", got)
	}
	if got := tr.calls[0].values.Get("sendername"); got != "ACME" {
		t.Fatalf("sendername = %s", got)
	}
	if got := tr.calls[1].url; got != "https://example/account/users" {
		t.Fatalf("users url = %s", got)
	}
}

func TestAccountEndpoints(t *testing.T) {
	cases := []struct {
		name string
		fn   func(*Client, context.Context) ([]byte, error)
		url  string
	}{
		{"balance", (*Client).Balance, DefaultBaseURL + "account"},
		{"account", (*Client).Account, DefaultBaseURL + "account"},
		{"users", (*Client).Users, DefaultBaseURL + "account/users"},
		{"sendernames", (*Client).SenderNames, DefaultBaseURL + "account/sendernames"},
		{"transactions", (*Client).Transactions, DefaultBaseURL + "account/transactions"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := &fakeTransport{body: []byte(`{"ok":1}`)}
			c := newTestClient(t, tr)

			body, err := tc.fn(c, context.Background())
			if err != nil {
				t.Fatalf("call: %v", err)
			}
			if string(body) != `{"ok":1}` {
				t.Fatalf("body = %s", body)
			}
			got := tr.only(t)
			if got.method != http.MethodGet || got.url != tc.url {
				t.Fatalf("request = %s %s", got.method, got.url)
			}
			assertValues(t, got.values, map[string]string{"apikey": "secret"})
		})
	}
}

func TestSendPostsUnmodifiedRecipient(t *testing.T) {
	tr := &fakeTransport{body: []byte(`[{"message_id":1}]`)}
	c := newTestClient(t, tr)

	recipient := "09171234567, 09181234567,,09191234567"
	body, err := c.Send(context.Background(), recipient, "hello there")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if string(body) != `[{"message_id":1}]` {
		t.Fatalf("body = %s", body)
	}
	got := tr.only(t)
	if got.method != http.MethodPost || got.url != DefaultBaseURL+"messages" {
		t.Fatalf("request = %s %s", got.method, got.url)
	}
	assertValues(t, got.values, map[string]string{
		"apikey":     "secret",
		"message":    "hello there",
		"number":     recipient,
		"sendername": "SEMAPHORE",
	})
}

func TestSendAtLimitIsAllowed(t *testing.T) {
	tr := &fakeTransport{}
	c := newTestClient(t, tr)

	recipient := strings.TrimSuffix(strings.Repeat("0917,", MaxRecipients), ",")
	if _, err := c.Send(context.Background(), recipient, "hi"); err != nil {
		t.Fatalf("Send with %d recipients: %v", MaxRecipients, err)
	}
	if got := tr.only(t).values.Get("number"); got != recipient {
		t.Fatalf("number was modified")
	}
}

func TestSendTooManyRecipientsMakesNoRequest(t *testing.T) {
	tr := &fakeTransport{}
	c := newTestClient(t, tr)

	recipient := strings.Repeat("0917,", MaxRecipients) + "0918"
	_, err := c.Send(context.Background(), recipient, "hi")
	if !errors.Is(err, ErrTooManyRecipients) {
		t.Fatalf("expected ErrTooManyRecipients, got %v", err)
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "recipient" {
		t.Fatalf("expected *ValidationError on recipient, got %#v", err)
	}
	if len(tr.calls) != 0 {
		t.Fatalf("expected no requests, got %d", len(tr.calls))
	}
}

func TestCountRecipientsIsLiteral(t *testing.T) {
	cases := map[string]int{
		"":           1,
		"0917":       1,
		"0917,0918":  2,
		"0917, 0917": 2,
		",,":         3,
	}
	for in, want := range cases {
		if got := CountRecipients(in); got != want {
			t.Fatalf("CountRecipients(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestMessageByID(t *testing.T) {
	tr := &fakeTransport{}
	c := newTestClient(t, tr)

	if _, err := c.Message(context.Background(), "abc123"); err != nil {
		t.Fatalf("Message: %v", err)
	}
	got := tr.only(t)
	if got.method != http.MethodGet || got.url != DefaultBaseURL+"messages/abc123" {
		t.Fatalf("request = %s %s", got.method, got.url)
	}
	assertValues(t, got.values, map[string]string{"apikey": "secret"})
}

func TestMessageEscapesID(t *testing.T) {
	tr := &fakeTransport{}
	c := newTestClient(t, tr)

	if _, err := c.Message(context.Background(), "a/b"); err != nil {
		t.Fatalf("Message: %v", err)
	}
	if got := tr.only(t).url; got != DefaultBaseURL+"messages/a%2Fb" {
		t.Fatalf("url = %s", got)
	}
}

func TestMessagesDefaults(t *testing.T) {
	tr := &fakeTransport{}
	c := newTestClient(t, tr)

	if _, err := c.Messages(context.Background(), MessagesOptions{}); err != nil {
		t.Fatalf("Messages: %v", err)
	}
	got := tr.only(t)
	if got.url != DefaultBaseURL+"messages" {
		t.Fatalf("url = %s", got.url)
	}
	assertValues(t, got.values, map[string]string{"apikey": "secret", "limit": "100", "page": "1"})
}

func TestMessagesOverridesAndRenamesSenderName(t *testing.T) {
	tr := &fakeTransport{}
	c := newTestClient(t, tr)

	opts := MessagesOptions{Limit: Int(50), Page: Int(2), SenderName: String("FOO")}
	if _, err := c.Messages(context.Background(), opts); err != nil {
		t.Fatalf("Messages: %v", err)
	}
	got := tr.only(t)
	assertValues(t, got.values, map[string]string{
		"apikey":     "secret",
		"limit":      "50",
		"page":       "2",
		"sendername": "FOO",
	})
	if _, ok := got.values["senderName"]; ok {
		t.Fatalf("senderName must not be forwarded verbatim")
	}
}

func TestMessagesAllFilters(t *testing.T) {
	tr := &fakeTransport{}
	c := newTestClient(t, tr)

	opts := MessagesOptions{
		StartDate: String("2024-01-01"),
		EndDate:   String("2024-01-31"),
		Status:    String("Sent"),
		Network:   String("globe"),
	}
	if _, err := c.Messages(context.Background(), opts); err != nil {
		t.Fatalf("Messages: %v", err)
	}
	assertValues(t, tr.only(t).values, map[string]string{
		"apikey":    "secret",
		"limit":     "100",
		"page":      "1",
		"startDate": "2024-01-01",
		"endDate":   "2024-01-31",
		"status":    "Sent",
		"network":   "globe",
	})
}

func TestMessagesOptionsFromMap(t *testing.T) {
	opts, err := MessagesOptionsFromMap(map[string]string{
		"limit":      "50",
		"page":       "2",
		"senderName": "FOO",
		"bogus":      "ignored",
	})
	if err != nil {
		t.Fatalf("MessagesOptionsFromMap: %v", err)
	}
	assertValues(t, opts.query(), map[string]string{"limit": "50", "page": "2", "sendername": "FOO"})

	if _, err := MessagesOptionsFromMap(map[string]string{"limit": "ten"}); err == nil {
		t.Fatalf("expected error for non-integer limit")
	}
}

func TestTransportErrorsPropagateUnchanged(t *testing.T) {
	boom := errors.New("boom")
	tr := &fakeTransport{err: boom}
	c := newTestClient(t, tr)

	if _, err := c.Balance(context.Background()); err != boom {
		t.Fatalf("Balance error = %v", err)
	}
	if _, err := c.Send(context.Background(), "0917", "hi"); err != boom {
		t.Fatalf("Send error = %v", err)
	}
}

func TestClientAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("apikey"); got != "secret" {
			t.Errorf("apikey query = %q on %s %s", got, r.Method, r.URL.Path)
		}
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v4/account":
			_, _ = w.Write([]byte(`{"account_name":"acme","credit_balance":42}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/v4/messages":
			if err := r.ParseForm(); err != nil {
				t.Errorf("ParseForm: %v", err)
			}
			if got := r.PostForm.Get("apikey"); got != "secret" {
				t.Errorf("form apikey = %q", got)
			}
			_, _ = w.Write([]byte(`[{"message_id":7}]`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/v4/messages/missing":
			http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c, err := New("secret", WithBaseURL(srv.URL+"/api/v4/"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	body, err := c.Balance(context.Background())
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if !strings.Contains(string(body), `"credit_balance":42`) {
		t.Fatalf("balance body = %s", body)
	}

	body, err = c.Send(context.Background(), "0917", "hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if string(body) != `[{"message_id":7}]` {
		t.Fatalf("send body = %s", body)
	}

	_, err = c.Message(context.Background(), "missing")
	var statusErr *httpclient.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 StatusError, got %v", err)
	}
}
