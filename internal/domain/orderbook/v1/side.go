package orderbookv1

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
)

// BookSide holds the price levels of one half of the book, keyed by price in
// an ordered B-tree. The bid side's best level is its maximum price, the ask
// side's best its minimum.
type BookSide struct {
	side Side
	tree *btree.BTreeG[*PriceLevel]
}

// NewBookSide creates an empty side of the book.
func NewBookSide(side Side) *BookSide {
	return &BookSide{
		side: side,
		tree: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price.LessThan(b.Price)
		}),
	}
}

// UpsertLevel returns the level at price, creating an empty one if absent.
func (s *BookSide) UpsertLevel(price decimal.Decimal) *PriceLevel {
	if lvl, ok := s.tree.Get(&PriceLevel{Price: price}); ok {
		return lvl
	}
	lvl := NewPriceLevel(price)
	s.tree.Set(lvl)
	return lvl
}

// Find returns the level resting at exactly price, if any.
func (s *BookSide) Find(price decimal.Decimal) (*PriceLevel, bool) {
	return s.tree.Get(&PriceLevel{Price: price})
}

// RemoveLevel deletes the level at price. The caller guarantees it is empty.
func (s *BookSide) RemoveLevel(price decimal.Decimal) {
	s.tree.Delete(&PriceLevel{Price: price})
}

// Best returns the most aggressive level of the side: highest price for
// bids, lowest for asks. Nil when the side is empty.
func (s *BookSide) Best() *PriceLevel {
	var (
		lvl *PriceLevel
		ok  bool
	)
	if s.side == SideBuy {
		lvl, ok = s.tree.Max()
	} else {
		lvl, ok = s.tree.Min()
	}
	if !ok {
		return nil
	}
	return lvl
}

// Len returns the number of price levels on this side.
func (s *BookSide) Len() int {
	return s.tree.Len()
}

// TotalQty sums the open quantity across all levels of the side.
func (s *BookSide) TotalQty() int64 {
	var total int64
	s.tree.Scan(func(lvl *PriceLevel) bool {
		total += lvl.TotalQty
		return true
	})
	return total
}

// Levels returns the side's levels in ascending price order.
func (s *BookSide) Levels() []*PriceLevel {
	levels := make([]*PriceLevel, 0, s.tree.Len())
	s.tree.Scan(func(lvl *PriceLevel) bool {
		levels = append(levels, lvl)
		return true
	})
	return levels
}
