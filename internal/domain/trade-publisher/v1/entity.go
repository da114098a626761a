package tradepublisherv1

import (
	"encoding/json"
	"time"

	orderbookv1 "github.com/matheus-ft/matching-engine/internal/domain/orderbook/v1"
)

// TradeEvent is the wire payload for one executed trade.
type TradeEvent struct {
	Price      string `json:"price"`
	Qty        int64  `json:"qty"`
	ExecutedAt int64  `json:"executedAt"` // unix nanoseconds
}

// FromTrade builds the payload for a book trade.
func FromTrade(t orderbookv1.Trade) *TradeEvent {
	return &TradeEvent{
		Price:      t.Price.String(),
		Qty:        t.Qty,
		ExecutedAt: time.Now().UnixNano(),
	}
}

// ToBytes serializes the event for publication.
func ToBytes(event *TradeEvent) []byte {
	payload, _ := json.Marshal(event)
	return payload
}
