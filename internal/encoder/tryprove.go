package encoder

import (
	"time"

	"github.com/aclements/go-z3/z3"

	"github.com/hdlformal/ircheck/corerr"
)

// TryProve attempts to prove pred holds for every assignment of the
// encoded function's free parameters: it asserts the predicate's
// negation and checks for unsatisfiability. A result of
// true means the predicate is proven; false means a counterexample
// exists or the solver could not decide within the timeout.
//
// The timeout set via SetTimeout takes precedence over one passed
// here; a zero value on both sides means no timeout.
func (h *Handle) TryProve(pred *Predicate, timeout time.Duration) (bool, error) {
	if h.timeout != 0 {
		timeout = h.timeout
	}
	solver := h.ctx.Z3.NewSolver()
	defer solver.Close()
	if timeout > 0 {
		solver.SetTimeout(timeout)
	}
	var proven bool
	err := h.ctx.ScopedVisit(func() error {
		solver.Assert(pred.formula.Not())
		sat, err := solver.Check()
		if err != nil {
			return corerr.Internalf("solver check failed: %v", err)
		}
		proven = sat == z3.Unsat
		return nil
	})
	if err != nil {
		return false, err
	}
	return proven, nil
}
