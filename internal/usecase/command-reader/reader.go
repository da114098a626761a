package commandreader

import (
	"bufio"
	"context"
	"io"

	commandv1 "github.com/matheus-ft/matching-engine/internal/domain/command/v1"
	"github.com/matheus-ft/matching-engine/pkg/logger"
)

// Reader scans quote lines from a terminal session and parses them into
// commands. It returns an implementation of the command Reader interface.
type Reader struct {
	source  io.Reader
	scanner *bufio.Scanner
	logger  logger.Interface
}

// NewReader creates a line-oriented command reader over src, stdin in
// production.
func NewReader(src io.Reader, log logger.Interface) *Reader {
	return &Reader{
		source:  src,
		scanner: bufio.NewScanner(src),
		logger:  log,
	}
}

// ReadCommand reads the next quote line and parses it. It returns io.EOF
// once the source is exhausted and commandv1.ErrStop on the stop token.
func (r *Reader) ReadCommand(ctx context.Context) (*commandv1.Command, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			r.logger.Error(err, logger.Field{Key: "operation", Value: "ReadCommand"})
			return nil, err
		}
		return nil, io.EOF
	}

	cmd, err := commandv1.Parse(r.scanner.Text())
	if err != nil {
		return nil, err
	}

	r.logger.Debug("ReadCommand",
		logger.Field{Key: "kind", Value: cmd.Kind},
		logger.Field{Key: "side", Value: cmd.Side},
		logger.Field{Key: "qty", Value: cmd.Qty},
	)

	return cmd, nil
}

// Close releases the underlying source when it is closable. Stdin is left
// open.
func (r *Reader) Close() error {
	if closer, ok := r.source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
