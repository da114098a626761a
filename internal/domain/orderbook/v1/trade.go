package orderbookv1

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BookingFailedMessage is reported when a market order's remainder finds no
// liquidity to trade against.
const BookingFailedMessage = "Booking failed: no orders to match"

// Trade records one executed match: qty units changed hands at price.
type Trade struct {
	Price decimal.Decimal `json:"price"`
	Qty   int64           `json:"qty"`
}

// String renders the trade in the session report format.
func (t Trade) String() string {
	return fmt.Sprintf("Trade, price: %s, qty: %d", t.Price, t.Qty)
}
