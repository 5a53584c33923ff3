package parser

import (
	"fmt"

	"go.uber.org/multierr"
)

// Result is the mutable accumulator threaded through one import. Parsers
// report problems here instead of returning errors up the walk, except for
// the mandatory document subtree.
type Result struct {
	Success       bool
	Message       string
	Errors        []string
	Counts        map[string]int
	ResolvedLinks int

	combined error
}

func NewResult() *Result {
	return &Result{Counts: map[string]int{}}
}

func (r *Result) AddError(stage string, err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", stage, err))
	r.combined = multierr.Append(r.combined, fmt.Errorf("%s: %w", stage, err))
}

func (r *Result) Increment(key string, delta int) {
	if delta == 0 {
		return
	}
	r.Counts[key] += delta
}

func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err returns the accumulated errors combined into one, or nil.
func (r *Result) Err() error {
	return r.combined
}

// Finalize sets the overall success flag and the human readable summary.
func (r *Result) Finalize(fileLabel string) {
	r.Success = !r.HasErrors()
	if r.Success {
		r.Message = fmt.Sprintf("imported %s: %d sections, %d products, %d resolved links", fileLabel, r.Counts["sections"], r.Counts["products"], r.ResolvedLinks)
		return
	}
	r.Message = fmt.Sprintf("import of %s finished with %d error(s): %v", fileLabel, len(r.Errors), r.Err())
}
