// Package encoder is the SMT encoder: it walks an IR function in
// topological order and emits an equivalent formula over bit-vectors,
// arrays, and tuples, built on sortadapt, bvbuilder, and biteval.
package encoder

import (
	"time"

	"github.com/aclements/go-z3/z3"

	"github.com/hdlformal/ircheck/corerr"
	"github.com/hdlformal/ircheck/internal/smtctx"
	"github.com/hdlformal/ircheck/internal/sortadapt"
	"github.com/hdlformal/ircheck/ir"
)

// SortKind is a coarse classification of a solver term's sort, used by
// Handle.GetValueKind and the floating-point helpers' error messages.
type SortKind int

const (
	SortUnknown SortKind = iota
	SortBV
	SortBool
	SortArray
	SortTuple
	SortFloatingPoint
)

func (k SortKind) String() string {
	switch k {
	case SortBV:
		return "bit-vector"
	case SortBool:
		return "bool"
	case SortArray:
		return "array"
	case SortTuple:
		return "tuple"
	case SortFloatingPoint:
		return "floating-point"
	default:
		return "unknown"
	}
}

// Handle is the result of Encode: a mapping from every node of an IR
// function to its solver term, plus the context that produced it.
type Handle struct {
	ctx     *smtctx.Context
	adaptor *sortadapt.Adaptor
	fn      *ir.Function
	terms   map[*ir.Node]sortadapt.Term
	timeout time.Duration
}

// Encode lowers fn into a freshly owned Z3 context (owned mode): Param
// nodes become fresh symbolic constants named after the parameter.
func Encode(fn *ir.Function) (*Handle, error) {
	return encode(smtctx.NewOwned(), fn, nil)
}

// EncodeBorrowed lowers fn against a caller-owned Z3 context (borrowed
// mode): paramTerms supplies, in parameter order, the solver terms to
// use in place of fresh constants.
func EncodeBorrowed(z3ctx *z3.Context, fn *ir.Function, paramTerms []sortadapt.Term) (*Handle, error) {
	if len(paramTerms) != len(fn.Params) {
		return nil, corerr.InvalidArgumentf("borrowed encode: got %d param terms, function has %d params", len(paramTerms), len(fn.Params))
	}
	return encode(smtctx.NewBorrowed(z3ctx), fn, paramTerms)
}

func encode(ctx *smtctx.Context, fn *ir.Function, paramTerms []sortadapt.Term) (*Handle, error) {
	h := &Handle{
		ctx:     ctx,
		adaptor: sortadapt.New(ctx),
		fn:      fn,
		terms:   make(map[*ir.Node]sortadapt.Term, len(fn.Nodes)),
	}
	paramIndex := make(map[*ir.Node]int, len(fn.Params))
	for i, p := range fn.Params {
		paramIndex[p] = i
	}
	for _, n := range fn.Nodes {
		n := n
		err := ctx.ScopedVisit(func() error {
			var term sortadapt.Term
			var verr error
			if n.Op == ir.OpParam {
				term, verr = h.visitParam(n, paramIndex[n], paramTerms)
			} else {
				term, verr = h.visit(n)
			}
			if verr != nil {
				return verr
			}
			h.terms[n] = term
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *Handle) visitParam(n *ir.Node, idx int, paramTerms []sortadapt.Term) (sortadapt.Term, error) {
	if h.ctx.Mode == smtctx.Borrowed {
		return paramTerms[idx], nil
	}
	sort := h.adaptor.TypeToSort(n.Type)
	name := n.Attrs.ParamName
	if name == "" {
		name = n.String()
	}
	return h.ctx.Z3.Const(name, sort), nil
}

// GetTranslation returns the solver term for n. A node not present in
// the encoded function is a contract violation and panics, matching
// "fatal assertion in owned mode".
func (h *Handle) GetTranslation(n *ir.Node) sortadapt.Term {
	t, ok := h.terms[n]
	if !ok {
		panic(corerr.NotFoundf("node %s not found in encoded function %q", n, h.fn.Name))
	}
	return t
}

// GetReturnTerm returns the solver term for the function's return value.
func (h *Handle) GetReturnTerm() sortadapt.Term {
	return h.GetTranslation(h.fn.Return)
}

// GetValueKind classifies a solver term's sort.
func (h *Handle) GetValueKind(term sortadapt.Term) SortKind {
	switch term.(type) {
	case z3.BV:
		return SortBV
	case z3.Bool:
		return SortBool
	case z3.Array:
		return SortArray
	default:
		return SortTuple
	}
}

// SetTimeout sets the solver timeout, in milliseconds, used by a
// subsequent TryProve call built from this handle.
func (h *Handle) SetTimeout(d time.Duration) {
	h.timeout = d
}
