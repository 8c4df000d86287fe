package app

import (
	"context"

	"github.com/samvad-hq/semaphore-sms/pkg/receipts"
	"github.com/samvad-hq/semaphore-sms/pkg/semaphore"
)

// SMSClient is the subset of *semaphore.Client the dispatcher drives.
type SMSClient interface {
	SenderName() string
	Balance(ctx context.Context) ([]byte, error)
	Account(ctx context.Context) ([]byte, error)
	Send(ctx context.Context, recipient, message string) ([]byte, error)
	Message(ctx context.Context, messageID string) ([]byte, error)
	Messages(ctx context.Context, opts semaphore.MessagesOptions) ([]byte, error)
	Users(ctx context.Context) ([]byte, error)
	SenderNames(ctx context.Context) ([]byte, error)
	Transactions(ctx context.Context) ([]byte, error)
}

// ReceiptPublisher forwards send receipts downstream.
type ReceiptPublisher interface {
	Publish(ctx context.Context, r receipts.Receipt) (int, error)
}
