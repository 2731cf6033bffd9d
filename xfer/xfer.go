package xfer

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrChannelOpen  = errors.New("open channel")
	ErrChannelWrite = errors.New("write channel")
	ErrBadHeader    = errors.New("bad length header")
	ErrTruncated    = errors.New("truncated payload")
)

// Opener acquires the channel for exactly one transfer. The caller closes it.
type Opener func(ctx context.Context) (io.ReadWriteCloser, error)
