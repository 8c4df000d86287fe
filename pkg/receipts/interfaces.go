package receipts

import "context"

// Sink forwards receipts to a downstream system (webhook, SQS, etc).
type Sink interface {
	ID() string
	Type() string
	Publish(ctx context.Context, r Receipt) error
}
