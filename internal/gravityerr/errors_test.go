package gravityerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelsAreDistinctAndWrappable(t *testing.T) {
	all := []error{
		ErrCliUsage, ErrIo, ErrInvalidWasm, ErrMissingWitSection,
		ErrWorldNotFound, ErrUnsupportedType, ErrOptimizationFailure, ErrInternal,
	}
	for i, e := range all {
		wrapped := fmt.Errorf("context: %w", e)
		if !errors.Is(wrapped, e) {
			t.Errorf("wrapped error does not match sentinel %d (%v)", i, e)
		}
		for j, other := range all {
			if i == j {
				continue
			}
			if errors.Is(wrapped, other) {
				t.Errorf("sentinel %d (%v) incorrectly matches sentinel %d (%v)", i, e, j, other)
			}
		}
	}
}
