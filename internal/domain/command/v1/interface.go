package commandv1

import (
	"context"
)

// Reader defines the interface for reading commands from a session source.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=commandv1_mock
type Reader interface {
	// ReadCommand blocks until the next command is available. It returns
	// io.EOF when the source is exhausted and ErrStop on the stop token.
	ReadCommand(ctx context.Context) (*Command, error)
	// Close releases the underlying source.
	Close() error
}
