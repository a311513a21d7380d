// Package cnf is the host-visible CNF input object a Solver consumes: the
// output of a Tseitin-style encoder, handed to the solver facade as a unit.
package cnf

import "math"

// FormulaConst is the sentinel FormulaLiteral value meaning the CNF encodes
// a constant formula rather than a genuine Tseitin variable.
const FormulaConst = math.MaxInt32

// CNF is a CNF-encoded formula: a top-level literal naming the formula's own
// truth value (or FormulaConst for a constant), the clauses that define it,
// the subset of variables the host considers part of the model, and the
// largest variable index used.
type CNF interface {
	// FormulaLiteral returns the signed literal whose truth value equals
	// the formula's, or FormulaConst if the formula is a constant.
	FormulaLiteral() int

	// ClausesList returns the formula's clauses, each a sequence of signed
	// nonzero variable indices. For a constant, see IsConst/ConstValue.
	ClausesList() [][]int

	// VarsList returns the variables this CNF declares as part of the
	// model (independent propositions a host cares about in the result).
	VarsList() []int

	// MaxVarIndex returns the largest variable index appearing anywhere in
	// this CNF.
	MaxVarIndex() int
}

// Formula is a concrete CNF, built incrementally by a host encoder.
type Formula struct {
	Literal int
	Clauses [][]int
	Vars    []int
	MaxVar  int
}

func (f *Formula) FormulaLiteral() int  { return f.Literal }
func (f *Formula) ClausesList() [][]int { return f.Clauses }
func (f *Formula) VarsList() []int      { return f.Vars }
func (f *Formula) MaxVarIndex() int     { return f.MaxVar }

// ConstTrue returns the CNF encoding the constant formula "true": no
// clauses at all.
func ConstTrue() *Formula {
	return &Formula{Literal: FormulaConst}
}

// ConstFalse returns the CNF encoding the constant formula "false": a
// single empty clause.
func ConstFalse() *Formula {
	return &Formula{Literal: FormulaConst, Clauses: [][]int{{}}}
}

// IsConst reports whether c encodes a constant rather than a genuine
// Tseitin-style formula.
func IsConst(c CNF) bool { return c.FormulaLiteral() == FormulaConst }

// ConstValue returns the boolean value of a constant CNF: true if it has no
// clauses, false if it has exactly one (empty) clause. Callers must check
// IsConst first; the result is meaningless for a non-constant CNF.
func ConstValue(c CNF) bool { return len(c.ClausesList()) == 0 }
