package reconcile

import (
	"errors"
	"fmt"
)

// ErrMismatchesFound is returned by check-only runs that found at least one mismatch.
var ErrMismatchesFound = errors.New("mismatches found")

// RangeError reports an unusable row range.
type RangeError struct {
	Start  int
	End    int
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid row range [%d, %d]: %s", e.Start, e.End, e.Reason)
}
