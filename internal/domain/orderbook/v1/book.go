package orderbookv1

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNilOrder rejects a nil submission.
	ErrNilOrder = errors.New("order cannot be nil")
	// ErrInvalidSide rejects an unrecognized side token.
	ErrInvalidSide = errors.New("side must be buy or sell")
	// ErrInvalidKind rejects an unrecognized order kind.
	ErrInvalidKind = errors.New("kind must be limit or market")
	// ErrInvalidQty rejects a non-positive quantity.
	ErrInvalidQty = errors.New("quantity must be positive")
	// ErrInvalidPrice rejects a non-positive limit price.
	ErrInvalidPrice = errors.New("limit price must be positive")
	// ErrMarketOrderPrice rejects a market order carrying a price.
	ErrMarketOrderPrice = errors.New("market orders carry no price")
	// ErrNoOrdersToMatch reports a market order remainder that found no
	// liquidity. Trades executed before liquidity ran out still stand.
	ErrNoOrdersToMatch = errors.New("no orders to match")
)

// OrderBook owns both sides of the book for a single instrument and applies
// the matching pass to every submitted order. It is not safe for concurrent
// use: submissions must be serialized by the caller (see the engine usecase).
type OrderBook struct {
	bids     *BookSide
	asks     *BookSide
	sequence uint64
}

// NewOrderBook creates an empty book.
func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids: NewBookSide(SideBuy),
		asks: NewBookSide(SideSell),
	}
}

// Bids returns the buy side of the book.
func (b *OrderBook) Bids() *BookSide {
	return b.bids
}

// Asks returns the sell side of the book.
func (b *OrderBook) Asks() *BookSide {
	return b.asks
}

// Submit runs one full matching pass for the incoming order and returns the
// trades it produced, in execution order, plus whether a remainder rested in
// the book.
//
// A limit order first fills against the opposite level at exactly its own
// price, then crosses the book best level by best level; whatever remains is
// booked at its price. A market order only crosses the book; its remainder
// is discarded and reported as ErrNoOrdersToMatch. Invalid orders are
// rejected before the book is touched.
func (b *OrderBook) Submit(o *Order) ([]Trade, bool, error) {
	if err := validate(o); err != nil {
		return nil, false, err
	}
	b.sequence++
	o.Sequence = b.sequence

	opposite := b.oppositeOf(o.Side)

	var trades []Trade
	if o.Kind == KindLimit {
		trades = b.matchAtOwnPrice(o, opposite, trades)
	}
	trades = b.crossBook(o, opposite, trades)

	if o.IsFilled() {
		return trades, false, nil
	}
	if o.Kind == KindMarket {
		// market remainders are never booked
		return trades, false, ErrNoOrdersToMatch
	}
	b.sideOf(o.Side).UpsertLevel(o.Price).Enqueue(o)
	return trades, true, nil
}

// matchAtOwnPrice fills the incoming limit order against the opposite level
// resting at exactly its price, oldest order first, trading at that price.
func (b *OrderBook) matchAtOwnPrice(o *Order, opposite *BookSide, trades []Trade) []Trade {
	lvl, ok := opposite.Find(o.Price)
	if !ok {
		return trades
	}
	for o.Qty > 0 && !lvl.Empty() {
		qty := min(o.Qty, lvl.Head().Qty)
		lvl.FillHead(qty)
		o.Qty -= qty
		trades = append(trades, Trade{Price: lvl.Price, Qty: qty})
	}
	if lvl.Empty() {
		opposite.RemoveLevel(lvl.Price)
	}
	return trades
}

// crossBook walks the opposite side best level by best level while the
// prices cross, pairing the incoming order with each level's head. It never
// skips past the head within a level; only the level selection changes as
// levels empty out.
func (b *OrderBook) crossBook(o *Order, opposite *BookSide, trades []Trade) []Trade {
	for o.Qty > 0 {
		best := opposite.Best()
		if best == nil {
			break
		}
		if o.Kind == KindLimit && !crosses(o, best.Price) {
			break
		}

		if o.Kind == KindMarket {
			// market orders trade at the best available resting price
			qty := min(o.Qty, best.Head().Qty)
			best.FillHead(qty)
			o.Qty -= qty
			trades = append(trades, Trade{Price: best.Price, Qty: qty})
			if best.Empty() {
				opposite.RemoveLevel(best.Price)
			}
			continue
		}

		head := best.Head()
		if o.Qty == head.Qty && o.Notional().Equal(head.Notional()) {
			// stalemate: neither price can move without changing the
			// agreed quantity; liquidity is exhausted for this pass
			break
		}

		// the larger-quantity side keeps its original price and the other
		// is repriced to it; equal quantities settle at the resting price
		price := head.Price
		if o.Qty > head.Qty {
			price = o.Price
			head.Price = price
		} else {
			o.Price = price
		}
		qty := min(o.Qty, head.Qty)
		best.FillHead(qty)
		o.Qty -= qty
		trades = append(trades, Trade{Price: price, Qty: qty})

		if best.Empty() {
			opposite.RemoveLevel(best.Price)
		} else if head.Qty > 0 && !head.Price.Equal(best.Price) {
			b.relocate(head, best, opposite)
		}
	}
	return trades
}

// relocate moves a repriced head order out of its level and queues it at its
// new price, preserving arrival order among the orders already there.
func (b *OrderBook) relocate(o *Order, from *PriceLevel, side *BookSide) {
	from.Remove(o)
	if from.Empty() {
		side.RemoveLevel(from.Price)
	}
	side.UpsertLevel(o.Price).InsertBySequence(o)
}

func (b *OrderBook) sideOf(side Side) *BookSide {
	if side == SideBuy {
		return b.bids
	}
	return b.asks
}

func (b *OrderBook) oppositeOf(side Side) *BookSide {
	if side == SideBuy {
		return b.asks
	}
	return b.bids
}

// crosses reports whether the incoming limit price meets the resting price:
// a buy at or above it, a sell at or below it.
func crosses(o *Order, restingPrice decimal.Decimal) bool {
	if o.IsBuy() {
		return o.Price.GreaterThanOrEqual(restingPrice)
	}
	return o.Price.LessThanOrEqual(restingPrice)
}

func validate(o *Order) error {
	if o == nil {
		return ErrNilOrder
	}
	if o.Side != SideBuy && o.Side != SideSell {
		return fmt.Errorf("%w: got %q", ErrInvalidSide, o.Side)
	}
	switch o.Kind {
	case KindLimit:
		if !o.Price.IsPositive() {
			return fmt.Errorf("%w: got %s", ErrInvalidPrice, o.Price)
		}
	case KindMarket:
		if !o.Price.IsZero() {
			return fmt.Errorf("%w: got %s", ErrMarketOrderPrice, o.Price)
		}
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidKind, o.Kind)
	}
	if o.Qty <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQty, o.Qty)
	}
	return nil
}
