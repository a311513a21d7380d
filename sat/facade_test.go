package sat

import (
	"testing"

	"github.com/felipeblassioli/nusmv-sub005/cnf"
)

func unitClause(lit int) *cnf.Formula {
	return &cnf.Formula{
		Literal: lit,
		Clauses: [][]int{{lit}},
		Vars:    []int{abs(lit)},
		MaxVar:  abs(lit),
	}
}

func clauses(cs [][]int, vars []int, maxVar int) *cnf.Formula {
	return &cnf.Formula{Literal: maxVar + 1, Clauses: cs, Vars: vars, MaxVar: maxVar + 1}
}

func solve(t *testing.T, f *cnf.Formula, paramSlots []int) (Solver, Result) {
	t.Helper()
	s, ok := CreateNonIncremental("sim", paramSlots)
	if !ok {
		t.Fatalf("CreateNonIncremental(%q): not available", "sim")
	}
	g := s.GetPermanentGroup()
	if err := s.Add(f, g); err != nil {
		t.Fatalf("Add(): %v", err)
	}
	return s, s.SolveAllGroups()
}

func hasLit(model []int, lit int) bool {
	for _, m := range model {
		if m == lit {
			return true
		}
	}
	return false
}

// Scenario 1: single clause (x1).
func TestEndToEnd_SingleClause(t *testing.T) {
	f := unitClause(1)
	s, result := solve(t, f, nil)
	if result != Satisfiable {
		t.Fatalf("SolveAllGroups() = %v, want %v", result, Satisfiable)
	}
	if model := s.GetModel(); !hasLit(model, 1) {
		t.Errorf("GetModel() = %v, want it to contain +1", model)
	}
}

// Scenario 2: (x1) ∧ (¬x1).
func TestEndToEnd_UnitConflict(t *testing.T) {
	f := clauses([][]int{{1}, {-1}}, []int{1}, 1)
	_, result := solve(t, f, nil)
	if result != Unsatisfiable {
		t.Fatalf("SolveAllGroups() = %v, want %v", result, Unsatisfiable)
	}
}

// Scenario 3: the 4-clause XOR-like instance, unsatisfiable with a bounded
// number of decisions under backjumping.
func TestEndToEnd_BackjumpUnsat(t *testing.T) {
	f := clauses([][]int{
		{1, 2},
		{-1, 2},
		{1, -2},
		{-1, -2},
	}, []int{1, 2}, 2)

	_, result := solve(t, f, nil)
	if result != Unsatisfiable {
		t.Fatalf("SolveAllGroups() = %v, want %v", result, Unsatisfiable)
	}
}

// Scenario 4: satisfiable 3-clause instance; every model must satisfy all
// clauses.
func TestEndToEnd_ThreeClauseSat(t *testing.T) {
	f := clauses([][]int{
		{1, 2, 3},
		{-1, 2},
		{-2, 3},
	}, []int{1, 2, 3}, 3)

	s, result := solve(t, f, nil)
	if result != Satisfiable {
		t.Fatalf("SolveAllGroups() = %v, want %v", result, Satisfiable)
	}

	model := s.GetModel()
	assigned := map[int]bool{}
	for _, m := range model {
		assigned[m] = true
	}
	sat := func(lits ...int) bool {
		for _, l := range lits {
			if assigned[l] {
				return true
			}
		}
		return false
	}
	if !sat(1, 2, 3) {
		t.Errorf("model %v does not satisfy (x1 v x2 v x3)", model)
	}
	if !sat(-1, 2) {
		t.Errorf("model %v does not satisfy (-x1 v x2)", model)
	}
	if !sat(-2, 3) {
		t.Errorf("model %v does not satisfy (-x2 v x3)", model)
	}
}

// Scenario 5: pigeonhole, 3 pigeons into 2 holes. Variable p(i,j) = pigeon i
// in hole j is 2*i+j+1 for i in 0..2, j in 0..1.
func TestEndToEnd_PigeonholeUnsat(t *testing.T) {
	v := func(i, j int) int { return 2*i + j + 1 }

	var cs [][]int
	for i := 0; i < 3; i++ {
		cs = append(cs, []int{v(i, 0), v(i, 1)})
	}
	for j := 0; j < 2; j++ {
		for i := 0; i < 3; i++ {
			for k := i + 1; k < 3; k++ {
				cs = append(cs, []int{-v(i, j), -v(k, j)})
			}
		}
	}

	f := clauses(cs, nil, v(2, 1))
	_, result := solve(t, f, nil)
	if result != Unsatisfiable {
		t.Fatalf("SolveAllGroups() = %v, want %v", result, Unsatisfiable)
	}
}

// Scenario: constant-false via polarity shortcircuits to UNSAT without
// touching the backend.
func TestSetPolarity_ConstantFalse(t *testing.T) {
	s, ok := CreateNonIncremental("sim", nil)
	if !ok {
		t.Fatalf("CreateNonIncremental: not available")
	}
	g := s.GetPermanentGroup()
	if err := s.SetPolarity(cnf.ConstTrue(), -1, g); err != nil {
		t.Fatalf("SetPolarity(): %v", err)
	}
	if result := s.SolveAllGroups(); result != Unsatisfiable {
		t.Fatalf("SolveAllGroups() = %v, want %v", result, Unsatisfiable)
	}
}

func TestSetPolarity_ConstantTrueIsNoop(t *testing.T) {
	s, ok := CreateNonIncremental("sim", nil)
	if !ok {
		t.Fatalf("CreateNonIncremental: not available")
	}
	g := s.GetPermanentGroup()
	if err := s.SetPolarity(cnf.ConstTrue(), 1, g); err != nil {
		t.Fatalf("SetPolarity(): %v", err)
	}
	if err := s.Add(unitClause(1), g); err != nil {
		t.Fatalf("Add(): %v", err)
	}
	if result := s.SolveAllGroups(); result != Satisfiable {
		t.Fatalf("SolveAllGroups() = %v, want %v", result, Satisfiable)
	}
}

func TestAdd_ConstantIsNoop(t *testing.T) {
	s, ok := CreateNonIncremental("sim", nil)
	if !ok {
		t.Fatalf("CreateNonIncremental: not available")
	}
	g := s.GetPermanentGroup()
	if err := s.Add(cnf.ConstTrue(), g); err != nil {
		t.Fatalf("Add(ConstTrue): %v", err)
	}
	if err := s.Add(unitClause(1), g); err != nil {
		t.Fatalf("Add(): %v", err)
	}
	if result := s.SolveAllGroups(); result != Satisfiable {
		t.Fatalf("SolveAllGroups() = %v, want %v", result, Satisfiable)
	}
}

func TestAdd_WrongGroupRejected(t *testing.T) {
	s, ok := CreateNonIncremental("sim", nil)
	if !ok {
		t.Fatalf("CreateNonIncremental: not available")
	}
	if err := s.Add(unitClause(1), GroupID(7)); err == nil {
		t.Errorf("Add() to a non-permanent group: want error, got nil")
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SIM", "sim"},
		{"ZChaff", "zchaff"},
		{"MiniSat", "minisat"},
		{"Gini", "gini"},
	}
	for _, c := range cases {
		got, ok := NormalizeName(c.in)
		if !ok || got != c.want {
			t.Errorf("NormalizeName(%q) = (%q, %v), want (%q, true)", c.in, got, ok, c.want)
		}
	}
	if _, ok := NormalizeName("nope"); ok {
		t.Errorf("NormalizeName(%q): want ok=false", "nope")
	}
}

func TestBackendNames_SortedCanonical(t *testing.T) {
	want := []string{"gini", "minisat", "sim", "zchaff"}
	got := BackendNames()
	if len(got) != len(want) {
		t.Fatalf("BackendNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("BackendNames() = %v, want %v", got, want)
		}
	}
}

func TestCreateNonIncremental_UnavailableBackend(t *testing.T) {
	if _, ok := CreateNonIncremental("zchaff", nil); ok {
		t.Errorf("CreateNonIncremental(%q): want unavailable", "zchaff")
	}
	if _, ok := CreateNonIncremental("bogus", nil); ok {
		t.Errorf("CreateNonIncremental(%q): want unavailable", "bogus")
	}
}

func TestCreateIncremental_NeverAvailable(t *testing.T) {
	if _, ok := CreateIncremental("sim", nil); ok {
		t.Errorf("CreateIncremental(%q): incremental is a non-goal, want unavailable", "sim")
	}
}

func TestResultString(t *testing.T) {
	cases := []struct {
		r    Result
		want string
	}{
		{Satisfiable, "SATISFIABLE_PROBLEM"},
		{Unsatisfiable, "UNSATISFIABLE_PROBLEM"},
		{InternalError, "INTERNAL_ERROR"},
		{Unknown, "UNKNOWN"},
	}
	for _, c := range cases {
		if got := c.r.String(); got != c.want {
			t.Errorf("Result(%d).String() = %q, want %q", c.r, got, c.want)
		}
	}
}
