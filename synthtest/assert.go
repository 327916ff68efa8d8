// Package synthtest provides small test-only helpers shared across this
// module's packages, following the same thin per-package Assert style
// the rest of the corpus uses in place of a third-party assertion
// library.
package synthtest

import (
	"testing"
	"time"

	"github.com/hdlformal/ircheck/internal/encoder"
	"github.com/hdlformal/ircheck/ir"
)

type Assert struct {
	t *testing.T
}

func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t}
}

// Proved encodes fn, builds pred from the handle via build, and fails the
// test unless TryProve returns true within timeout.
func (a *Assert) Proved(fn *ir.Function, build func(*encoder.Handle) (*encoder.Predicate, error), timeout time.Duration) {
	a.t.Helper()
	h, err := encoder.Encode(fn)
	if err != nil {
		a.t.Fatalf("encode: %v", err)
	}
	pred, err := build(h)
	if err != nil {
		a.t.Fatalf("build predicate: %v", err)
	}
	ok, err := h.TryProve(pred, timeout)
	if err != nil {
		a.t.Fatalf("TryProve: %v", err)
	}
	if !ok {
		a.t.Fatal("expected predicate to be proved")
	}
}

// NotProved is the negative counterpart of Proved.
func (a *Assert) NotProved(fn *ir.Function, build func(*encoder.Handle) (*encoder.Predicate, error), timeout time.Duration) {
	a.t.Helper()
	h, err := encoder.Encode(fn)
	if err != nil {
		a.t.Fatalf("encode: %v", err)
	}
	pred, err := build(h)
	if err != nil {
		a.t.Fatalf("build predicate: %v", err)
	}
	ok, err := h.TryProve(pred, timeout)
	if err != nil {
		a.t.Fatalf("TryProve: %v", err)
	}
	if ok {
		a.t.Fatal("expected predicate not to be proved")
	}
}
