// Package sat is the host-visible polymorphic solver facade: an abstract
// Solver over a named, pluggable backend. Only the built-in "sim" backend
// (internal/sim.Engine) is actually implemented; the others are named so a
// host asking for them gets a normalized canonical name and an explicit
// "unavailable" signal rather than an unknown-name error.
package sat

import (
	"sort"
	"strings"
	"time"

	"github.com/felipeblassioli/nusmv-sub005/cnf"
	"github.com/felipeblassioli/nusmv-sub005/internal/sim"
)

// GroupID identifies a clause group within a Solver. The built-in backend
// supports only the permanent group; passing any other value is a
// precondition failure.
type GroupID int

// Result is the verdict returned by SolveAllGroups.
type Result int

const (
	Unknown Result = iota
	Satisfiable
	Unsatisfiable
	InternalError
)

func (r Result) String() string {
	switch r {
	case Satisfiable:
		return "SATISFIABLE_PROBLEM"
	case Unsatisfiable:
		return "UNSATISFIABLE_PROBLEM"
	case InternalError:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Solver is the abstract facade a host (a model checker) drives: construct
// CNF clauses, push them into a group, solve, extract a model.
type Solver interface {
	GetPermanentGroup() GroupID

	// Add adds c's clauses to group. If c is a constant, the call is a
	// no-op.
	Add(c cnf.CNF, group GroupID) error

	// SetPolarity fixes the polarity under which c contributes to group.
	// For a constant c this adds nothing (true-with-polarity) or marks
	// group unsatisfiable (false-with-polarity) without touching the
	// backend.
	SetPolarity(c cnf.CNF, polarity int, group GroupID) error

	SolveAllGroups() Result
	GetModel() []int
	GetName() string
	GetLastSolvingTime() time.Duration
	Destroy()
}

// backendNames maps every case-insensitively recognized backend name to its
// canonical spelling.
var backendNames = map[string]string{
	"sim":     "sim",
	"zchaff":  "zchaff",
	"minisat": "minisat",
	"gini":    "gini",
}

// NormalizeName returns the canonical spelling of a case-insensitively
// matched backend name and whether the name is recognized at all. A
// recognized name is not necessarily available — see CreateNonIncremental.
func NormalizeName(name string) (string, bool) {
	canon, ok := backendNames[strings.ToLower(name)]
	return canon, ok
}

// BackendNames returns the canonical spellings of every recognized backend
// name, sorted.
func BackendNames() []string {
	names := make([]string, 0, len(backendNames))
	for _, canon := range backendNames {
		names = append(names, canon)
	}
	sort.Strings(names)
	return names
}

// CreateNonIncremental constructs a concrete non-incremental backend by
// case-insensitive name. Only "sim" is implemented; every other recognized
// name, and any unrecognized name, reports ok=false. paramSlots is the flat
// backend parameter array (see sim.Slot for the well-known positions); nil,
// short, or AskDefault-filled arrays take the documented defaults.
func CreateNonIncremental(name string, paramSlots []int) (Solver, bool) {
	canon, ok := NormalizeName(name)
	if !ok || canon != "sim" {
		return nil, false
	}
	return newBuiltin(sim.FromSlots(paramSlots)), true
}

// CreateIncremental constructs a concrete incremental backend. Incremental
// add/remove between solves is an explicit non-goal of this module, so no
// backend name ever succeeds here.
func CreateIncremental(name string, paramSlots []int) (Solver, bool) {
	return nil, false
}
