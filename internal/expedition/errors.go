package expedition

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidLength     = errors.New("length must be one of: short, standard, long")
	ErrInvalidStrictness = errors.New("strictness must be one of: thematic, mixed, open")
	ErrInvalidMageCount  = errors.New("mage_count must be a positive integer")
)

// ScopeError means the resolved content scope contains no usable waves.
// It is structural and never consumes retry budget.
type ScopeError struct {
	Waves []string
	Boxes []string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("empty content scope (waves=%v boxes=%v)", e.Waves, e.Boxes)
}

// InsufficientPoolError means a candidate pool is structurally too small for
// what the schedule demands, before any randomness comes into play.
type InsufficientPoolError struct {
	Category string
	Need     int
	Have     int
}

func (e *InsufficientPoolError) Error() string {
	return fmt.Sprintf("not enough %s in scope: need %d, have %d", e.Category, e.Need, e.Have)
}

// CollisionExhaustedError means every attempt produced a colliding packet.
// LastViolations carries the final attempt's diagnostics.
type CollisionExhaustedError struct {
	Attempts       int
	LastViolations []Violation
}

func (e *CollisionExhaustedError) Error() string {
	msgs := make([]string, len(e.LastViolations))
	for i, v := range e.LastViolations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("no collision-free selection after %d attempts; last attempt: %s",
		e.Attempts, strings.Join(msgs, "; "))
}

// UnknownSettingError means a forced setting wave or variant does not exist
// in the datasets.
type UnknownSettingError struct {
	Wave      string
	Variant   string
	Available []string
}

func (e *UnknownSettingError) Error() string {
	if e.Variant != "" {
		return fmt.Sprintf("setting variant %q not found for wave %q; available: %s",
			e.Variant, e.Wave, strings.Join(e.Available, ", "))
	}
	return fmt.Sprintf("setting wave %q not found; available: %s",
		e.Wave, strings.Join(e.Available, ", "))
}
