package receipts

import (
	"encoding/json"
	"time"
)

// Receipt statuses.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Receipt describes the outcome of one send, as forwarded downstream.
type Receipt struct {
	Status         string          `json:"status"`
	Recipient      string          `json:"recipient"`
	RecipientCount int             `json:"recipient_count"`
	SenderName     string          `json:"sender_name"`
	Response       json.RawMessage `json:"response,omitempty"`
	Error          string          `json:"error,omitempty"`
	SentAt         time.Time       `json:"sent_at"`
}

// NewReceipt builds a Receipt from a send result. A response body that is
// not valid JSON is carried as a JSON string.
func NewReceipt(recipient string, recipientCount int, senderName string, body []byte, sendErr error) Receipt {
	r := Receipt{
		Status:         StatusSent,
		Recipient:      recipient,
		RecipientCount: recipientCount,
		SenderName:     senderName,
		Response:       rawBody(body),
		SentAt:         time.Now().UTC(),
	}
	if sendErr != nil {
		r.Status = StatusFailed
		r.Error = sendErr.Error()
	}
	return r
}

func rawBody(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}
