package sat

import (
	"fmt"
	"sort"
	"time"

	"github.com/felipeblassioli/nusmv-sub005/cnf"
	"github.com/felipeblassioli/nusmv-sub005/internal/sim"
)

const permanentGroup GroupID = 0

// builtin is the "sim" backend. Add and SetPolarity only accumulate
// host-form clause lists; a fresh Engine is built and run inside each
// SolveAllGroups call. The engine has no incremental add/remove story, so
// nothing is gained by constructing it any earlier.
type builtin struct {
	params sim.Params

	clauses   [][]int
	indepVars map[int]bool
	maxVar    int
	unsat     bool

	result          Result
	lastSolvingTime time.Duration

	// Raw model state from the last successful solve; the DIMACS-form model
	// list is built lazily on first GetModel call.
	modelVals   []bool
	modelVarIDs []int
	model       []int
}

func newBuiltin(params sim.Params) *builtin {
	return &builtin{params: params, indepVars: map[int]bool{}}
}

func (b *builtin) GetPermanentGroup() GroupID { return permanentGroup }

func (b *builtin) checkGroup(group GroupID) error {
	if group != permanentGroup {
		return fmt.Errorf("sat: group %d is not the permanent group; the built-in backend is not incremental", group)
	}
	return nil
}

func (b *builtin) Add(c cnf.CNF, group GroupID) error {
	if err := b.checkGroup(group); err != nil {
		return err
	}
	if cnf.IsConst(c) {
		return nil
	}
	b.clauses = append(b.clauses, c.ClausesList()...)
	for _, v := range c.VarsList() {
		b.indepVars[v] = true
	}
	if v := c.MaxVarIndex(); v > b.maxVar {
		b.maxVar = v
	}
	return nil
}

func (b *builtin) SetPolarity(c cnf.CNF, polarity int, group GroupID) error {
	if polarity != -1 && polarity != 1 {
		return fmt.Errorf("sat: polarity must be -1 or +1, got %d", polarity)
	}
	if err := b.checkGroup(group); err != nil {
		return err
	}

	if cnf.IsConst(c) {
		constant := 1
		if !cnf.ConstValue(c) {
			constant = -1
		}
		if constant*polarity == -1 {
			b.unsat = true
		}
		// constant*polarity == 1: the true constant contributes nothing.
		return nil
	}

	literal := polarity * c.FormulaLiteral()
	b.clauses = append(b.clauses, []int{literal})
	if v := abs(literal); v > b.maxVar {
		b.maxVar = v
	}
	return nil
}

// SolveAllGroups builds a fresh Engine from every clause and independent
// variable accumulated so far and runs it to completion.
func (b *builtin) SolveAllGroups() Result {
	start := time.Now()
	defer func() { b.lastSolvingTime = time.Since(start) }()

	if b.unsat {
		b.result = Unsatisfiable
		return b.result
	}

	p := b.params
	if p.MaxVarIndex <= 0 || b.maxVar > p.MaxVarIndex {
		p.MaxVarIndex = b.maxVar
	}
	if p.MaxClauseCount <= 0 || len(b.clauses) > p.MaxClauseCount {
		p.MaxClauseCount = len(b.clauses)
	}

	e := sim.NewEngine(p)
	for _, clause := range b.clauses {
		if len(clause) == 0 {
			// An explicitly empty clause: the group cannot be satisfied.
			b.result = Unsatisfiable
			return b.result
		}
		h, err := e.NewClause()
		if err != nil {
			b.result = InternalError
			return b.result
		}
		tautology := false
		for _, lit := range clause {
			res, err := e.AddLit(h, lit)
			if err != nil {
				b.result = InternalError
				return b.result
			}
			if res == sim.Tautology {
				tautology = true
				break
			}
		}
		if tautology {
			continue // the builder already destroyed the pending clause
		}
		if _, err := e.CommitClause(h); err != nil {
			b.result = InternalError
			return b.result
		}
	}
	vars := make([]int, 0, len(b.indepVars))
	for v := range b.indepVars {
		vars = append(vars, v)
	}
	sort.Ints(vars)
	for _, v := range vars {
		e.DeclareIndependent(v)
	}
	e.Finalize()

	res := e.Solve()
	b.model, b.modelVals, b.modelVarIDs = nil, nil, nil
	switch res.Status {
	case sim.Satisfiable:
		b.result = Satisfiable
		if len(res.Models) > 0 {
			b.modelVals = res.Models[0]
			b.modelVarIDs = e.ModelVarIDs()
		}
	case sim.Unsatisfiable:
		b.result = Unsatisfiable
	default:
		b.result = InternalError
	}
	return b.result
}

// dimacsModel zips a model vector with the variable indices it was reported
// over (Engine.ModelVarIDs), since that order need not be the ascending
// 1..N sequence once the host has restricted the model to a subset of
// independent variables.
func dimacsModel(varIDs []int, model []bool) []int {
	out := make([]int, 0, len(model))
	for i, v := range model {
		if v {
			out = append(out, varIDs[i])
		} else {
			out = append(out, -varIDs[i])
		}
	}
	return out
}

// GetModel returns the model of the last successful solve in DIMACS
// convention. The signed list is built lazily on first request; repeated
// calls return the same slice.
func (b *builtin) GetModel() []int {
	if b.model == nil && b.modelVals != nil {
		b.model = dimacsModel(b.modelVarIDs, b.modelVals)
	}
	return b.model
}

func (b *builtin) GetName() string { return "sim" }

func (b *builtin) GetLastSolvingTime() time.Duration { return b.lastSolvingTime }

func (b *builtin) Destroy() {}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
