package commandv1

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	orderbookv1 "github.com/matheus-ft/matching-engine/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyCommand rejects a blank quote line.
	ErrEmptyCommand = errors.New("empty command")
	// ErrMalformedCommand rejects a quote line with the wrong argument count.
	ErrMalformedCommand = errors.New("malformed command")
	// ErrUnknownKind rejects an unrecognized order kind token.
	ErrUnknownKind = errors.New("unknown order kind")
	// ErrUnknownSide rejects an unrecognized side token.
	ErrUnknownSide = errors.New("unknown order side")
	// ErrInvalidPrice rejects a price that is not a positive number.
	ErrInvalidPrice = errors.New("price must be a positive number")
	// ErrInvalidQty rejects a quantity that is not a positive integer.
	ErrInvalidQty = errors.New("quantity must be a positive integer")
	// ErrStop signals the end of a trading session.
	ErrStop = errors.New("session stopped")
)

// stopToken ends a trading session when read on its own line.
const stopToken = "stop"

// Command is one parsed instruction from a trading session:
//
//	limit <side> <price> <qty>
//	market <side> <qty>
type Command struct {
	Kind  orderbookv1.Kind
	Side  orderbookv1.Side
	Price decimal.Decimal // limit orders only
	Qty   int64
}

// Parse builds a Command from a quote line such as "limit buy 100 10" or
// "market sell 5". Tokens are case-insensitive. Parse returns ErrStop for
// the stop token and a validation error for anything malformed, so bad
// input is rejected before it ever reaches the book.
func Parse(line string) (*Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil, ErrEmptyCommand
	}
	if fields[0] == stopToken {
		return nil, ErrStop
	}

	cmd := &Command{Kind: orderbookv1.Kind(fields[0])}
	switch cmd.Kind {
	case orderbookv1.KindLimit:
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: want `limit <side> <price> <qty>`, got %q", ErrMalformedCommand, line)
		}
	case orderbookv1.KindMarket:
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: want `market <side> <qty>`, got %q", ErrMalformedCommand, line)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, fields[0])
	}

	cmd.Side = orderbookv1.Side(fields[1])
	if cmd.Side != orderbookv1.SideBuy && cmd.Side != orderbookv1.SideSell {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSide, fields[1])
	}

	if cmd.Kind == orderbookv1.KindLimit {
		price, err := decimal.NewFromString(fields[2])
		if err != nil || !price.IsPositive() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPrice, fields[2])
		}
		cmd.Price = price
	}

	qty, err := strconv.ParseInt(fields[len(fields)-1], 10, 64)
	if err != nil || qty <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidQty, fields[len(fields)-1])
	}
	cmd.Qty = qty

	return cmd, nil
}

// Order materializes the command as a book order with the given ID.
func (c *Command) Order(id string) *orderbookv1.Order {
	if c.Kind == orderbookv1.KindMarket {
		return orderbookv1.NewMarketOrder(id, c.Side, c.Qty)
	}
	return orderbookv1.NewLimitOrder(id, c.Side, c.Price, c.Qty)
}
