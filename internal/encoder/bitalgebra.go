package encoder

import (
	"github.com/aclements/go-z3/z3"

	"github.com/hdlformal/ircheck/internal/bvbuilder"
)

// z3BitAlgebra instantiates biteval.Algebra[z3.BV]: the Z3-backed side
// of the shared per-bit evaluator.
type z3BitAlgebra struct {
	ctx *z3.Context
}

func (a z3BitAlgebra) One() z3.BV  { return bvbuilder.Fill(a.ctx, 1, 1) }
func (a z3BitAlgebra) Zero() z3.BV { return bvbuilder.Fill(a.ctx, 0, 1) }
func (a z3BitAlgebra) Not(x z3.BV) z3.BV    { return x.Not() }
func (a z3BitAlgebra) And(x, y z3.BV) z3.BV { return x.And(y) }
func (a z3BitAlgebra) Or(x, y z3.BV) z3.BV  { return x.Or(y) }
