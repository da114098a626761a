package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	commandv1 "github.com/matheus-ft/matching-engine/internal/domain/command/v1"
	orderbookv1 "github.com/matheus-ft/matching-engine/internal/domain/orderbook/v1"
	tradepublisherv1 "github.com/matheus-ft/matching-engine/internal/domain/trade-publisher/v1"
	"github.com/matheus-ft/matching-engine/pkg/logger"
	"github.com/matheus-ft/matching-engine/pkg/util"
	"github.com/oklog/ulid/v2"
)

// Engine drives one trading session: a single processor goroutine consumes
// commands from the reader and applies them to the book in arrival order.
// Serializing every submission through one goroutine is what makes the
// matching pass safe — trade outcomes depend on strict sequential state, so
// the book itself must never be driven concurrently.
type Engine struct {
	book      *orderbookv1.OrderBook
	reader    commandv1.Reader
	publisher tradepublisherv1.Publisher // optional, may be nil
	out       io.Writer
	logger    logger.Interface
	options   *Options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}

	totalTrades atomic.Int64
}

// NewEngine creates a new engine wired to the given collaborators. A nil
// publisher disables downstream trade publication; session output is always
// written to out.
func NewEngine(
	book *orderbookv1.OrderBook,
	reader commandv1.Reader,
	publisher tradepublisherv1.Publisher,
	out io.Writer,
	logger logger.Interface,
	options *Options,
) *Engine {
	if options == nil {
		options = DefaultEngineOptions()
	}
	return &Engine{
		book:      book,
		reader:    reader,
		publisher: publisher,
		out:       out,
		logger:    logger,
		options:   options,
		done:      make(chan struct{}),
	}
}

// Start launches the command processor.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(1)
	go e.runCommandProcessor()

	e.logger.Info("engine started")
	return nil
}

// Done is closed once the session source is exhausted or the stop command
// is read.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// TotalTrades returns the number of trades executed so far.
func (e *Engine) TotalTrades() int64 {
	return e.totalTrades.Load()
}

// Stop gracefully shuts down the engine.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	// Wait for the processor to finish with timeout
	finished := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		e.logger.Info("engine stopped gracefully",
			logger.Field{Key: "totalTrades", Value: e.TotalTrades()},
		)
		return nil
	case <-ctx.Done():
		e.logger.Warn("engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runCommandProcessor reads and applies commands until the session ends.
func (e *Engine) runCommandProcessor() {
	defer e.wg.Done()
	defer close(e.done)

	e.logger.Info("starting command processor")

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("command processor shutting down")
			e.reader.Close()
			return
		default:
			cmd, err := e.reader.ReadCommand(e.ctx)
			switch {
			case err == nil:
			case errors.Is(err, commandv1.ErrStop), errors.Is(err, io.EOF):
				e.logger.Info("session ended")
				return
			case errors.Is(err, context.Canceled):
				return
			default:
				// malformed input never reaches the book
				e.logger.Warn("rejected command",
					logger.Field{Key: "error", Value: err.Error()},
				)
				continue
			}

			e.processCommand(cmd)
		}
	}
}

// processCommand submits one order and reports its outcome.
func (e *Engine) processCommand(cmd *commandv1.Command) {
	ctx := util.WithRequestID(e.ctx, "")
	order := cmd.Order(ulid.Make().String())

	trades, rested, err := e.book.Submit(order)

	for _, trade := range trades {
		fmt.Fprintln(e.out, trade.String())
		e.publishTrade(ctx, trade)
	}
	e.totalTrades.Add(int64(len(trades)))

	switch {
	case errors.Is(err, orderbookv1.ErrNoOrdersToMatch):
		fmt.Fprintln(e.out, orderbookv1.BookingFailedMessage)
	case err != nil:
		e.logger.WarnContext(ctx, "order rejected",
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return
	}

	e.logger.DebugContext(ctx, "order processed",
		logger.Field{Key: "orderID", Value: order.ID},
		logger.Field{Key: "sequence", Value: order.Sequence},
		logger.Field{Key: "trades", Value: len(trades)},
		logger.Field{Key: "rested", Value: rested},
	)
}

// publishTrade forwards a trade event downstream, best effort. The
// publisher logs its own failures; a publish error never fails the
// matching pass.
func (e *Engine) publishTrade(ctx context.Context, trade orderbookv1.Trade) {
	if e.publisher == nil {
		return
	}
	publishCtx, cancel := context.WithTimeout(ctx, e.options.PublishTimeout)
	defer cancel()

	_ = e.publisher.PublishTradeEvent(publishCtx, tradepublisherv1.FromTrade(trade))
}
