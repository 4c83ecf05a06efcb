package engine

import (
	"errors"

	"github.com/dshills/ripple/internal/engine/buffer"
)

// Errors returned by engine operations.
var (
	// ErrOutOfBounds indicates an offset or range outside the document.
	// It is a caller bug; well-formed commands never produce it.
	ErrOutOfBounds = buffer.ErrOutOfBounds

	// ErrReadOnly indicates a mutation was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")

	// ErrUnknownCommand indicates a Command with an unrecognized kind.
	ErrUnknownCommand = errors.New("unknown command")
)
