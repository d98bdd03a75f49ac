package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/arcjet/gravity/internal/gravityerr"
)

// reportErr writes a single diagnostic line for err to stderr and returns
// the process exit code that matches its gravityerr sentinel.
func reportErr(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "error: %v\n", err)

	switch {
	case errors.Is(err, gravityerr.ErrCliUsage):
		return 2
	case errors.Is(err, gravityerr.ErrInternal):
		return 3
	default:
		return 1
	}
}
