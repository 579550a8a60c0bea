package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrNonFinite is returned when the particle state stops being finite.
	ErrNonFinite = errors.New("sim: non-finite particle state")

	// ErrCanceled wraps context cancellation of a headless run.
	ErrCanceled = errors.New("sim: run canceled")
)

// TickError wraps an error with the tick it happened on.
type TickError struct {
	Tick    int
	Time    float64
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d (t=%.3fs): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
