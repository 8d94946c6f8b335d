package export

import (
	"fmt"
	"strings"
)

// NoMatchError reports a selection that matched nothing. Suggestions, when
// present, are close names from the document.
type NoMatchError struct {
	Query       string
	Suggestions []string
}

func (e *NoMatchError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no blocks match %q", e.Query)
	}
	return fmt.Sprintf("no blocks match %q (did you mean %s?)", e.Query, strings.Join(e.Suggestions, ", "))
}

// AmbiguousError reports a block-name prefix that several names share.
type AmbiguousError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("block name %q is ambiguous: %s", e.Name, strings.Join(e.Candidates, ", "))
}

// InferenceError reports a group whose output filename cannot be derived,
// because the blocks carry no language or an unknown one. An explicit output
// path resolves it.
type InferenceError struct {
	Language string
}

func (e *InferenceError) Error() string {
	if e.Language == "" {
		return "cannot infer output filename: block has no language"
	}
	return fmt.Sprintf("cannot infer output filename for language %q", e.Language)
}

// DependencyError reports a dependency closure that cannot be completed
// (Missing names have no blocks) or cannot be ordered (Stuck names form a
// cycle).
type DependencyError struct {
	Missing []string
	Stuck   []string
}

func (e *DependencyError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("unsatisfiable dependencies: no block named %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("unsatisfiable dependencies: cycle among %s", strings.Join(e.Stuck, ", "))
}

// OutputConflictError reports an explicit output path given for a selection
// that produced more than one output group.
type OutputConflictError struct {
	Output  string
	Targets []string
}

func (e *OutputConflictError) Error() string {
	return fmt.Sprintf("explicit output %q: selection produced %d output groups (%s)",
		e.Output, len(e.Targets), strings.Join(e.Targets, ", "))
}
