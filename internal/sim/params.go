package sim

// Heuristic enumerates the ten branching-heuristic variants.
type Heuristic uint8

const (
	HeuristicUSR Heuristic = iota
	HeuristicRND
	HeuristicJW
	Heuristic2JW
	HeuristicBoehm
	HeuristicMOMS
	HeuristicSato
	HeuristicSatz
	HeuristicRelsat
	HeuristicUnitie
)

func (h Heuristic) String() string {
	switch h {
	case HeuristicUSR:
		return "usr"
	case HeuristicRND:
		return "rnd"
	case HeuristicJW:
		return "jw"
	case Heuristic2JW:
		return "2jw"
	case HeuristicBoehm:
		return "boehm"
	case HeuristicMOMS:
		return "moms"
	case HeuristicSato:
		return "sato"
	case HeuristicSatz:
		return "satz"
	case HeuristicRelsat:
		return "relsat"
	case HeuristicUnitie:
		return "unitie"
	default:
		return "unknown"
	}
}

// LearnType selects how learned clauses are discarded on backtrack.
type LearnType uint8

const (
	RelevanceBounded LearnType = iota
	SizeBounded
)

// AskDefault is the sentinel meaning "use the default" for any Params slot
// that accepts it.
const AskDefault = -1

// Params is the backend configuration in struct form. Hosts crossing the
// solver facade pass the same information as a flat int array; see Slot,
// FromSlots and Slots.
type Params struct {
	TimeLimitSec     int
	MemLimitMB       int
	Heuristic        Heuristic
	SolutionCount    int
	LearnOrder       int
	LearnType        LearnType
	IndepProps       bool
	PreprocessLevel  int // 0: dedup only, 1: +pure-literal, 2: +failed-literal
	RandomSeed       int64
	Verbosity        int
	RunTraceInterval int
	HeuristicParam   int
	MaxVarIndex      int
	MaxClauseCount   int

	// HornRelaxation, PureLiteral, Backjumping and Learning toggle whole
	// engine features at runtime; they are not part of the host-facing
	// slot array.
	HornRelaxation bool
	PureLiteral    bool
	Backjumping    bool
	Learning       bool
}

// DefaultParams mirrors the stated defaults: Boehm heuristic, one
// solution, learn-order 3, relevance learning, no preprocessing, 100 vars,
// 1000 clauses.
var DefaultParams = Params{
	TimeLimitSec:     AskDefault,
	MemLimitMB:       AskDefault,
	Heuristic:        HeuristicBoehm,
	SolutionCount:    1,
	LearnOrder:       3,
	LearnType:        RelevanceBounded,
	IndepProps:       false,
	PreprocessLevel:  0,
	RandomSeed:       1,
	Verbosity:        0,
	RunTraceInterval: 0,
	HeuristicParam:   0,
	MaxVarIndex:      100,
	MaxClauseCount:   1000,
	HornRelaxation:   true,
	PureLiteral:      true,
	Backjumping:      true,
	Learning:         true,
}

// Slot indexes the flat integer parameter array the host passes across the
// facade boundary; Params is the same information in struct form.
type Slot int

const (
	SlotTimeLimit Slot = iota
	SlotMemLimit
	SlotHeuristic
	SlotSolutionCount
	SlotLearnOrder
	SlotLearnType
	SlotIndepProps
	SlotPreprocess
	SlotRandomSeed
	SlotVerbosity
	SlotRunTraceInterval
	SlotHeuristicParam
	SlotMaxVarIndex
	SlotMaxClauseCount
	NumSlots
)

// FromSlots builds a Params from the flat slot array. AskDefault entries,
// and any slots missing off the end, take the default value.
func FromSlots(slots []int) Params {
	get := func(s Slot) int {
		if int(s) < len(slots) {
			return slots[s]
		}
		return AskDefault
	}

	p := DefaultParams
	if v := get(SlotTimeLimit); v != AskDefault {
		p.TimeLimitSec = v
	}
	if v := get(SlotMemLimit); v != AskDefault {
		p.MemLimitMB = v
	}
	if v := get(SlotHeuristic); v != AskDefault {
		p.Heuristic = Heuristic(v)
	}
	if v := get(SlotSolutionCount); v != AskDefault {
		p.SolutionCount = v
	}
	if v := get(SlotLearnOrder); v != AskDefault {
		p.LearnOrder = v
	}
	if v := get(SlotLearnType); v != AskDefault {
		p.LearnType = LearnType(v)
	}
	if v := get(SlotIndepProps); v != AskDefault {
		p.IndepProps = v != 0
	}
	if v := get(SlotPreprocess); v != AskDefault {
		p.PreprocessLevel = v
	}
	if v := get(SlotRandomSeed); v != AskDefault {
		p.RandomSeed = int64(v)
	}
	if v := get(SlotVerbosity); v != AskDefault {
		p.Verbosity = v
	}
	if v := get(SlotRunTraceInterval); v != AskDefault {
		p.RunTraceInterval = v
	}
	if v := get(SlotHeuristicParam); v != AskDefault {
		p.HeuristicParam = v
	}
	if v := get(SlotMaxVarIndex); v != AskDefault {
		p.MaxVarIndex = v
	}
	if v := get(SlotMaxClauseCount); v != AskDefault {
		p.MaxClauseCount = v
	}
	return p
}

// Slots renders p as the flat parameter array.
func (p Params) Slots() []int {
	s := make([]int, NumSlots)
	s[SlotTimeLimit] = p.TimeLimitSec
	s[SlotMemLimit] = p.MemLimitMB
	s[SlotHeuristic] = int(p.Heuristic)
	s[SlotSolutionCount] = p.SolutionCount
	s[SlotLearnOrder] = p.LearnOrder
	s[SlotLearnType] = int(p.LearnType)
	s[SlotIndepProps] = boolSlot(p.IndepProps)
	s[SlotPreprocess] = p.PreprocessLevel
	s[SlotRandomSeed] = int(p.RandomSeed)
	s[SlotVerbosity] = p.Verbosity
	s[SlotRunTraceInterval] = p.RunTraceInterval
	s[SlotHeuristicParam] = p.HeuristicParam
	s[SlotMaxVarIndex] = p.MaxVarIndex
	s[SlotMaxClauseCount] = p.MaxClauseCount
	return s
}

func boolSlot(b bool) int {
	if b {
		return 1
	}
	return 0
}

// resolved returns p with every AskDefault slot replaced by DefaultParams'
// value for that slot. SolutionCount, LearnOrder, RandomSeed, MaxVarIndex
// and MaxClauseCount also take the default when left at zero; the remaining
// fields are used as given.
func (p Params) resolved() Params {
	d := DefaultParams
	if p.TimeLimitSec != AskDefault {
		d.TimeLimitSec = p.TimeLimitSec
	}
	if p.MemLimitMB != AskDefault {
		d.MemLimitMB = p.MemLimitMB
	}
	d.Heuristic = p.Heuristic
	if p.SolutionCount != 0 && p.SolutionCount != AskDefault {
		d.SolutionCount = p.SolutionCount
	}
	if p.LearnOrder != 0 && p.LearnOrder != AskDefault {
		d.LearnOrder = p.LearnOrder
	}
	d.LearnType = p.LearnType
	d.IndepProps = p.IndepProps
	d.PreprocessLevel = p.PreprocessLevel
	if p.RandomSeed != 0 && p.RandomSeed != AskDefault {
		d.RandomSeed = p.RandomSeed
	}
	d.Verbosity = p.Verbosity
	d.RunTraceInterval = p.RunTraceInterval
	d.HeuristicParam = p.HeuristicParam
	if p.MaxVarIndex != 0 && p.MaxVarIndex != AskDefault {
		d.MaxVarIndex = p.MaxVarIndex
	}
	if p.MaxClauseCount != 0 && p.MaxClauseCount != AskDefault {
		d.MaxClauseCount = p.MaxClauseCount
	}
	d.HornRelaxation = p.HornRelaxation
	d.PureLiteral = p.PureLiteral
	d.Backjumping = p.Backjumping
	d.Learning = p.Learning
	return d
}
