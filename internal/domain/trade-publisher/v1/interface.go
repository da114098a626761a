package tradepublisherv1

import (
	"context"
)

// Publisher defines the interface for publishing trade events downstream.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=tradepublisherv1_mock
type Publisher interface {
	// PublishTradeEvent publishes a single trade event.
	PublishTradeEvent(ctx context.Context, event *TradeEvent) error
	// Close releases the underlying transport.
	Close() error
}
