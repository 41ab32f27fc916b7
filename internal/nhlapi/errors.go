package nhlapi

import (
	"errors"
	"fmt"
)

// ErrIncompatibleGame marks a game bundle with no usable play-by-play data.
// Callers skip the whole game and count it as failed.
var ErrIncompatibleGame = errors.New("game has no play-by-play data")

// MissingFieldError reports a required field absent from a feed payload.
// It affects only the entity it names, never the whole game.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Field)
}

// TransientError wraps a fetch failure that is worth retrying: timeouts,
// connection resets, HTTP 429 and 5xx.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
