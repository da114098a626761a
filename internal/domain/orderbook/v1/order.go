package orderbookv1

import (
	"github.com/shopspring/decimal"
)

// Side identifies which half of the book an order belongs to.
type Side string

const (
	// SideBuy marks an order bidding for the instrument.
	SideBuy Side = "buy"
	// SideSell marks an order offering the instrument.
	SideSell Side = "sell"
)

// Kind represents the type of order.
type Kind string

const (
	// KindLimit represents an order with a caller-set price that may rest in the book.
	KindLimit Kind = "limit"
	// KindMarket represents an order that trades against the best resting price and never rests.
	KindMarket Kind = "market"
)

// Order represents a single intent to trade, incoming or resting. Identity
// (ID, Side, Kind, Sequence) is fixed once the order enters the book; Qty
// shrinks as the order fills and Price may be rewritten by the matching
// algorithm's repricing rule.
type Order struct {
	ID       string          `json:"id"`
	Side     Side            `json:"side"`
	Kind     Kind            `json:"kind"`
	Price    decimal.Decimal `json:"price"` // zero for market orders, they never carry a price
	Qty      int64           `json:"qty"`
	Sequence uint64          `json:"sequence"` // arrival counter, orders a level's queue

	// queue links, owned by the PriceLevel the order rests in
	next *Order
	prev *Order
}

// NewLimitOrder creates a limit order at the given price.
func NewLimitOrder(id string, side Side, price decimal.Decimal, qty int64) *Order {
	return &Order{
		ID:    id,
		Side:  side,
		Kind:  KindLimit,
		Price: price,
		Qty:   qty,
	}
}

// NewMarketOrder creates a market order. Market orders have no price of
// their own; wherever the algorithm needs one it substitutes the best
// resting opposite price.
func NewMarketOrder(id string, side Side, qty int64) *Order {
	return &Order{
		ID:   id,
		Side: side,
		Kind: KindMarket,
		Qty:  qty,
	}
}

// IsBuy checks if the order bids for the instrument.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}

// IsFilled checks if the order has no quantity left to trade.
func (o *Order) IsFilled() bool {
	return o.Qty == 0
}

// Notional returns price × quantity, the volume of the order.
func (o *Order) Notional() decimal.Decimal {
	return o.Price.Mul(decimal.NewFromInt(o.Qty))
}
