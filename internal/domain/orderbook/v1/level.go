package orderbookv1

import (
	"github.com/shopspring/decimal"
)

// PriceLevel is a FIFO queue of resting orders sharing one price. A level is
// created on the first insertion at its price and must be removed from its
// side as soon as it empties; the book never holds empty levels.
type PriceLevel struct {
	Price    decimal.Decimal
	TotalQty int64

	head  *Order
	tail  *Order
	count int
}

// NewPriceLevel creates an empty level at the given price.
func NewPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{Price: price}
}

// Enqueue appends o to the tail of the queue.
func (l *PriceLevel) Enqueue(o *Order) {
	if l.head == nil {
		l.head = o
	} else {
		l.tail.next = o
		o.prev = l.tail
	}
	l.tail = o
	l.TotalQty += o.Qty
	l.count++
}

// Dequeue unlinks and returns the head of the queue, nil when empty.
func (l *PriceLevel) Dequeue() *Order {
	o := l.head
	if o == nil {
		return nil
	}
	l.unlink(o)
	return o
}

// Head returns the oldest resting order without removing it.
func (l *PriceLevel) Head() *Order {
	return l.head
}

// InsertBySequence places o among the queued orders by ascending arrival
// sequence. Used when a repriced order is relocated into a level it did not
// come from, so it keeps its original time priority against the occupants.
func (l *PriceLevel) InsertBySequence(o *Order) {
	if l.tail == nil || o.Sequence >= l.tail.Sequence {
		l.Enqueue(o)
		return
	}
	at := l.tail
	for at.prev != nil && at.prev.Sequence > o.Sequence {
		at = at.prev
	}
	// insert o in front of at
	o.next = at
	o.prev = at.prev
	if at.prev != nil {
		at.prev.next = o
	} else {
		l.head = o
	}
	at.prev = o
	l.TotalQty += o.Qty
	l.count++
}

// Remove unlinks the given order from the queue. The order must be a member
// of this level.
func (l *PriceLevel) Remove(o *Order) {
	l.unlink(o)
}

// FillHead reduces the head order by qty, unlinking it once exhausted.
// Returns the head that was filled.
func (l *PriceLevel) FillHead(qty int64) *Order {
	o := l.head
	o.Qty -= qty
	l.TotalQty -= qty
	if o.Qty == 0 {
		l.unlink(o)
	}
	return o
}

// Empty reports whether no orders rest at this level.
func (l *PriceLevel) Empty() bool {
	return l.head == nil
}

// OrderCount returns the number of orders queued at this level.
func (l *PriceLevel) OrderCount() int {
	return l.count
}

// Orders returns the queued orders, oldest first.
func (l *PriceLevel) Orders() []*Order {
	orders := make([]*Order, 0, l.count)
	for o := l.head; o != nil; o = o.next {
		orders = append(orders, o)
	}
	return orders
}

func (l *PriceLevel) unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.next = nil
	o.prev = nil
	l.TotalQty -= o.Qty
	l.count--
}
