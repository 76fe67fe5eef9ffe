/*
Planner runs the symbolic task planner against a problem file and prints the
resulting plan.

Usage:

	planner [flags] <problem_file> <heuristic_mode>

heuristic_mode is one of:

	0  Dijkstra (h ≡ 0), optimal
	1  weighted missing-goal-literals, fast but not admissible
	2  relaxed-plan admissible heuristic

The flags are:

	-v, --verbose
		Enable debug-level structured logging and echo the parsed
		environment (symbol, action schema and ground action counts)
		before solving.

	-c, --config FILE
		Load solver tuning knobs (heuristic weight, relaxed-search step
		bound) from a TOML file. Defaults apply for anything the file omits
		or if the file is absent.

	-t, --timeout DURATION
		Cancel the search after DURATION (e.g. "30s") via the cooperative
		cancellation probe checked at each open.pop().

	-s, --stats
		Print the number of states expanded in addition to the plan.

Exit code 0 on successful planning, including the "no plan" outcome;
non-zero on malformed input, cancellation, or internal error.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gitrdm/gokanlogic-planner/internal/config"
	"github.com/gitrdm/gokanlogic-planner/pkg/planner"
	"github.com/gitrdm/gokanlogic-planner/pkg/problem"
)

const (
	exitSuccess = iota
	exitUsageError
	exitMalformedProblem
	exitCancelled
	exitInternalError
)

var (
	flagVerbose *bool          = pflag.BoolP("verbose", "v", false, "enable debug logging and environment echo")
	flagConfig  *string        = pflag.StringP("config", "c", "", "optional TOML file with solver tuning knobs")
	flagTimeout *time.Duration = pflag.DurationP("timeout", "t", 0, "cancel the search after this duration (0 disables)")
	flagStats   *bool          = pflag.BoolP("stats", "s", false, "print search statistics alongside the plan")
)

func main() {
	os.Exit(run())
}

func run() int {
	pflag.Parse()
	args := pflag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: planner [flags] <problem_file> <heuristic_mode>")
		return exitUsageError
	}

	logger := newLogger(*flagVerbose)
	defer logger.Sync()

	runID := uuid.New().String()
	logger = logger.With(zap.String("run_id", runID))

	mode, err := parseMode(args[1])
	if err != nil {
		logger.Error("invalid heuristic mode", zap.Error(err))
		pterm.Error.Println(err.Error())
		return exitUsageError
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		logger.Error("failed to load config", zap.Error(err))
		pterm.Error.Println(err.Error())
		return exitInternalError
	}

	f, err := os.Open(args[0])
	if err != nil {
		logger.Error("failed to open problem file", zap.Error(err))
		pterm.Error.Println(err.Error())
		return exitMalformedProblem
	}
	defer f.Close()

	prob, err := problem.Parse(f)
	if err != nil {
		logger.Error("malformed problem", zap.Error(err))
		pterm.Error.Println(err.Error())
		return exitMalformedProblem
	}

	actions := planner.GroundAll(prob.Schemas, prob.Universe)
	initial := planner.NewWorldState(prob.Initial)

	if *flagVerbose {
		logger.Debug("environment",
			zap.Int("symbols", len(prob.Universe)),
			zap.Int("schemas", len(prob.Schemas)),
			zap.Int("ground_actions", len(actions)),
		)
		pterm.Info.Printfln("symbols=%d schemas=%d ground_actions=%d", len(prob.Universe), len(prob.Schemas), len(actions))
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if *flagTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, *flagTimeout)
		defer cancel()
	}

	searchCfg := planner.Config{
		Mode:             mode,
		Weight:           cfg.Weight,
		RelaxedStepBound: cfg.RelaxedStepBound,
	}

	start := time.Now()
	result, err := planner.Plan(ctx, initial, prob.Goal, actions, searchCfg)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		printPlan(result, elapsed, *flagStats)
		return exitSuccess
	case errors.Is(err, planner.ErrNoPlan):
		logger.Info("no plan found", zap.Duration("elapsed", elapsed))
		pterm.Warning.Println("no plan exists in the reachable subgraph")
		fmt.Printf("duration: %s\n", elapsed)
		return exitSuccess
	case errors.Is(err, planner.ErrCancelled):
		logger.Warn("search cancelled", zap.Duration("elapsed", elapsed))
		pterm.Error.Println("search cancelled")
		return exitCancelled
	default:
		logger.Error("internal error", zap.Error(err))
		pterm.Error.Println(err.Error())
		return exitInternalError
	}
}

func newLogger(verbose bool) *zap.Logger {
	zapCfg := zap.NewProductionConfig()
	if verbose {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zapCfg.Build()
	if err != nil {
		// zap construction failure is effectively impossible with the
		// built-in configs; fall back to a no-op logger rather than abort.
		return zap.NewNop()
	}
	return logger
}

func parseMode(raw string) (planner.HeuristicMode, error) {
	switch raw {
	case "0":
		return planner.ModeDijkstra, nil
	case "1":
		return planner.ModeWeightedMissingLiterals, nil
	case "2":
		return planner.ModeRelaxedPlan, nil
	default:
		return 0, fmt.Errorf("heuristic_mode must be 0, 1, or 2, got %q", raw)
	}
}

func printPlan(result planner.Result, elapsed time.Duration, stats bool) {
	pterm.Success.Printfln("plan found: %d action(s)", len(result.Actions))
	fmt.Printf("length: %d\n", len(result.Actions))
	fmt.Printf("duration: %s\n", elapsed)
	if stats {
		fmt.Printf("expanded: %d\n", result.Expanded)
	}
	for _, a := range result.Actions {
		fmt.Println(a.Canonical())
	}
}
