package commandreader

import (
	"context"
	"io"
	"strings"
	"testing"

	commandv1 "github.com/matheus-ft/matching-engine/internal/domain/command/v1"
	orderbookv1 "github.com/matheus-ft/matching-engine/internal/domain/orderbook/v1"
	"github.com/matheus-ft/matching-engine/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReader(t *testing.T, session string) *Reader {
	t.Helper()
	log, err := logger.NewLogger()
	require.NoError(t, err)
	return NewReader(strings.NewReader(session), log)
}

// Test 1: commands are read one line at a time in order
func TestReader_ReadCommand(t *testing.T) {
	reader := newTestReader(t, "limit buy 100 10\nmarket sell 5\n")
	ctx := context.Background()

	cmd, err := reader.ReadCommand(ctx)
	require.NoError(t, err)
	assert.Equal(t, orderbookv1.KindLimit, cmd.Kind)
	assert.Equal(t, orderbookv1.SideBuy, cmd.Side)

	cmd, err = reader.ReadCommand(ctx)
	require.NoError(t, err)
	assert.Equal(t, orderbookv1.KindMarket, cmd.Kind)
	assert.Equal(t, int64(5), cmd.Qty)

	_, err = reader.ReadCommand(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

// Test 2: a bad line surfaces its parse error without ending the session
func TestReader_BadLine(t *testing.T) {
	reader := newTestReader(t, "limit buy oops 10\nmarket sell 5\n")
	ctx := context.Background()

	_, err := reader.ReadCommand(ctx)
	assert.ErrorIs(t, err, commandv1.ErrInvalidPrice)

	cmd, err := reader.ReadCommand(ctx)
	require.NoError(t, err)
	assert.Equal(t, orderbookv1.KindMarket, cmd.Kind)
}

// Test 3: the stop token is reported as ErrStop
func TestReader_Stop(t *testing.T) {
	reader := newTestReader(t, "stop\nlimit buy 100 10\n")

	_, err := reader.ReadCommand(context.Background())
	assert.ErrorIs(t, err, commandv1.ErrStop)
}

// Test 4: a cancelled context stops reads before touching the source
func TestReader_ContextCancelled(t *testing.T) {
	reader := newTestReader(t, "limit buy 100 10\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reader.ReadCommand(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
