package resolve

import (
	"fmt"
	"strings"
)

// NotFoundError reports an include path that could not be read.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("include %s: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// CycleError reports an include that points back into the active inclusion
// chain. Chain lists the documents from the root to the includer; Path is
// the repeated document.
type CycleError struct {
	Path  string
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("include cycle: %s -> %s", strings.Join(e.Chain, " -> "), e.Path)
}

// DepthError reports an include nested deeper than the configured maximum.
type DepthError struct {
	Path string
	Max  int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("include %s: nesting exceeds depth limit %d", e.Path, e.Max)
}
