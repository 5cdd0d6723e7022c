package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrTemporary    = errors.New("temporary failure")

	// ErrIndexMissing: no persisted index exists and no chunks were
	// supplied to build one.
	ErrIndexMissing = errors.New("index missing")
	// ErrIndexLocked: another builder holds the collection lock.
	ErrIndexLocked = errors.New("index locked")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
