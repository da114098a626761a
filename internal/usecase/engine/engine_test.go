package engine

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	orderbookv1 "github.com/matheus-ft/matching-engine/internal/domain/orderbook/v1"
	tradepublisherv1 "github.com/matheus-ft/matching-engine/internal/domain/trade-publisher/v1"
	commandreader "github.com/matheus-ft/matching-engine/internal/usecase/command-reader"
	"github.com/matheus-ft/matching-engine/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test fixtures and helpers
type testFixture struct {
	book      *orderbookv1.OrderBook
	out       *bytes.Buffer
	publisher *capturingPublisher
	logger    *logger.Logger
}

func setupTestFixture(t *testing.T) *testFixture {
	log, err := logger.NewLogger()
	require.NoError(t, err)

	return &testFixture{
		book:      orderbookv1.NewOrderBook(),
		out:       &bytes.Buffer{},
		publisher: &capturingPublisher{},
		logger:    log,
	}
}

// capturingPublisher records published trade events in memory.
type capturingPublisher struct {
	mu     sync.Mutex
	events []*tradepublisherv1.TradeEvent
}

func (p *capturingPublisher) PublishTradeEvent(_ context.Context, event *tradepublisherv1.TradeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) Close() error {
	return nil
}

func (p *capturingPublisher) published() []*tradepublisherv1.TradeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*tradepublisherv1.TradeEvent(nil), p.events...)
}

// runSession drives the engine over a scripted session and waits for it to end.
func runSession(t *testing.T, fixture *testFixture, session string) *Engine {
	t.Helper()

	reader := commandreader.NewReader(strings.NewReader(session), fixture.logger)
	engine := NewEngine(fixture.book, reader, fixture.publisher, fixture.out, fixture.logger, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, engine.Start(ctx))

	select {
	case <-engine.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish in time")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, engine.Stop(stopCtx))

	return engine
}

// Test 1: a full scripted session produces the expected terminal output
func TestEngine_Session(t *testing.T) {
	fixture := setupTestFixture(t)

	session := strings.Join([]string{
		"limit buy 100 10",
		"limit sell 100 5",
		"market sell 3",
		"market sell 10",
		"this is not a command",
		"limit buy 99 1",
		"stop",
	}, "\n")

	engine := runSession(t, fixture, session)

	want := strings.Join([]string{
		"Trade, price: 100, qty: 5",
		"Trade, price: 100, qty: 3",
		"Trade, price: 100, qty: 2",
		"Booking failed: no orders to match",
		"",
	}, "\n")
	assert.Equal(t, want, fixture.out.String())
	assert.Equal(t, int64(3), engine.TotalTrades())

	// the unmatched market remainder is gone, the late bid rests
	assert.Equal(t, 1, fixture.book.Bids().Len())
	assert.Equal(t, int64(1), fixture.book.Bids().TotalQty())
	assert.Equal(t, 0, fixture.book.Asks().Len())
}

// Test 2: every trade is forwarded to the publisher
func TestEngine_PublishesTrades(t *testing.T) {
	fixture := setupTestFixture(t)

	session := "limit buy 100 10\nlimit sell 100 4\nstop\n"
	runSession(t, fixture, session)

	events := fixture.publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, "100", events[0].Price)
	assert.Equal(t, int64(4), events[0].Qty)
	assert.NotZero(t, events[0].ExecutedAt)
}

// Test 3: a nil publisher disables publication without affecting output
func TestEngine_NilPublisher(t *testing.T) {
	fixture := setupTestFixture(t)

	reader := commandreader.NewReader(strings.NewReader("limit buy 100 5\nlimit sell 100 5\nstop\n"), fixture.logger)
	engine := NewEngine(fixture.book, reader, nil, fixture.out, fixture.logger, nil)

	require.NoError(t, engine.Start(context.Background()))
	select {
	case <-engine.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish in time")
	}
	require.NoError(t, engine.Stop(context.Background()))

	assert.Equal(t, "Trade, price: 100, qty: 5\n", fixture.out.String())
	assert.Equal(t, int64(1), engine.TotalTrades())
}

// Test 4: the session also ends when the source runs dry without a stop token
func TestEngine_EOFEndsSession(t *testing.T) {
	fixture := setupTestFixture(t)

	engine := runSession(t, fixture, "limit buy 100 1\n")

	assert.Equal(t, "", fixture.out.String())
	assert.Equal(t, int64(0), engine.TotalTrades())
	assert.Equal(t, 1, fixture.book.Bids().Len())
}

// Test 5: Stop reports a timeout when the processor is stuck on its source
func TestEngine_StopTimeout(t *testing.T) {
	fixture := setupTestFixture(t)

	// a source that never yields keeps ReadCommand pending forever
	reader := commandreader.NewReader(blockingReader{}, fixture.logger)
	engine := NewEngine(fixture.book, reader, nil, fixture.out, fixture.logger, nil)

	require.NoError(t, engine.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, engine.Stop(stopCtx), context.DeadlineExceeded)
}

// blockingReader blocks until the test binary exits.
type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}
