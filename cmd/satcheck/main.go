// Command satcheck reads a DIMACS CNF instance, decides it with the
// internal/sim engine, and reports the verdict, statistics, and any
// requested models.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/felipeblassioli/nusmv-sub005/internal/dimacs"
	"github.com/felipeblassioli/nusmv-sub005/internal/output"
	"github.com/felipeblassioli/nusmv-sub005/internal/sim"
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

var flagGzip = flag.Bool(
	"gzip",
	false,
	"the instance file is gzip-compressed",
)

var flagHeuristic = flag.String(
	"heuristic",
	"boehm",
	"branching heuristic: usr, rnd, jw, 2jw, boehm, moms, sato, satz, relsat, unitie",
)

var flagSolutions = flag.Int(
	"solutions",
	1,
	"number of distinct satisfying assignments to enumerate",
)

var flagVerbosity = flag.Int(
	"verbosity",
	0,
	"0 for a single machine-parseable stats line, >0 for a human-readable block",
)

var flagTraceEvery = flag.Int(
	"trace-every",
	0,
	"emit a trace line every N decisions (0 disables)",
)

var flagTimeLimit = flag.Int(
	"time-limit",
	0,
	"soft CPU-time limit in seconds (0 disables)",
)

var heuristicsByName = map[string]sim.Heuristic{
	"usr":    sim.HeuristicUSR,
	"rnd":    sim.HeuristicRND,
	"jw":     sim.HeuristicJW,
	"2jw":    sim.Heuristic2JW,
	"boehm":  sim.HeuristicBoehm,
	"moms":   sim.HeuristicMOMS,
	"sato":   sim.HeuristicSato,
	"satz":   sim.HeuristicSatz,
	"relsat": sim.HeuristicRelsat,
	"unitie": sim.HeuristicUnitie,
}

type config struct {
	instanceFile string
	memProfile   bool
	cpuProfile   bool
	gzip         bool
	heuristic    sim.Heuristic
	solutions    int
	verbosity    int
	traceEvery   int
	timeLimit    int
}

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}
	h, ok := heuristicsByName[*flagHeuristic]
	if !ok {
		return nil, fmt.Errorf("unknown heuristic %q", *flagHeuristic)
	}
	return &config{
		instanceFile: flag.Arg(0),
		memProfile:   *flagMemProfile,
		cpuProfile:   *flagCPUProfile,
		gzip:         *flagGzip,
		heuristic:    h,
		solutions:    *flagSolutions,
		verbosity:    *flagVerbosity,
		traceEvery:   *flagTraceEvery,
		timeLimit:    *flagTimeLimit,
	}, nil
}

func run(cfg *config) error {
	params := sim.DefaultParams
	params.Heuristic = cfg.heuristic
	params.SolutionCount = cfg.solutions
	params.Verbosity = cfg.verbosity
	params.RunTraceInterval = cfg.traceEvery
	if cfg.timeLimit > 0 {
		params.TimeLimitSec = cfg.timeLimit
	}

	e := sim.NewEngine(params)
	if err := dimacs.LoadDIMACS(cfg.instanceFile, cfg.gzip, e); err != nil {
		return fmt.Errorf("could not parse instance: %s", err)
	}
	e.Finalize()

	trace := output.NewTracePrinter(os.Stdout, cfg.traceEvery)
	e.OnTick = trace.Tick

	if cfg.verbosity > 0 {
		output.PrintParams(os.Stdout, params)
	}
	fmt.Printf("c variables: %d\n", e.NumVariables())
	fmt.Printf("c clauses:   %d\n", e.NumClauses())

	start := time.Now()
	res := e.Solve()
	elapsed := time.Since(start)

	output.PrintTimers(os.Stdout, elapsed.Seconds())
	output.PrintStats(os.Stdout, e.Stats(), cfg.verbosity)
	output.PrintResult(os.Stdout, res.Status)

	for _, m := range res.Models {
		if err := dimacs.WriteModel(os.Stdout, e.ModelVarIDs(), m); err != nil {
			return fmt.Errorf("could not write model: %s", err)
		}
	}

	if res.Fault != nil {
		return res.Fault
	}
	return nil
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
		return
	}
}
