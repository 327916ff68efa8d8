// Package smtctx manages Z3 solver-context ownership and converts the
// panics go-z3 raises on solver errors into *corerr.Error values.
package smtctx

import (
	"github.com/aclements/go-z3/z3"

	"github.com/hdlformal/ircheck/corerr"
)

// Mode is the ownership mode of a Context.
type Mode int

const (
	// Owned: the Context allocates and destroys its solver config and
	// context; Param nodes become fresh symbolic constants.
	Owned Mode = iota
	// Borrowed: the Context neither allocates nor destroys the
	// underlying z3.Context; the caller supplies parameter terms.
	Borrowed
)

// Context wraps a z3.Context together with its ownership mode.
type Context struct {
	Z3   *z3.Context
	Mode Mode

	cfg *z3.Config // nil in Borrowed mode
}

// NewOwned allocates a fresh Z3 context that the returned Context owns.
func NewOwned() *Context {
	cfg := z3.NewContextConfig()
	return &Context{Z3: z3.NewContext(cfg), Mode: Owned, cfg: cfg}
}

// NewBorrowed wraps a caller-supplied Z3 context that outlives this Context.
func NewBorrowed(z3ctx *z3.Context) *Context {
	return &Context{Z3: z3ctx, Mode: Borrowed}
}

// Close releases resources owned by this Context. It is a no-op in
// Borrowed mode: a borrowed context outlives the caller that wraps it.
func (c *Context) Close() {
	if c.Mode == Owned {
		c.Z3 = nil
		c.cfg = nil
	}
}

// ScopedVisit runs fn, recovering any panic the underlying solver call
// raises (go-z3 surfaces Z3 errors as panics, not Go errors) and
// converting it to an *corerr.Error of kind Internal. This recover is
// the sole error-surfacing path for solver-level failures: go-z3 has no
// registerable error callback, so there is nothing upstream of the
// panic for this package to hook.
func (c *Context) ScopedVisit(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = corerr.Internalf("Z3 error: %v", r)
		}
	}()
	return fn()
}
