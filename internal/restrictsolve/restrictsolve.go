// Package restrictsolve is the Restriction Solver Runner (spec §4.6): for
// every day from the first departure through the last departure, it tightens the naive max-stay table
// C5 produced by repeatedly invoking a feasibility MIP — the same model C4
// solves, plus one extra trial stay — until the first infeasible trial
// length is found or the day's absolute ceiling is reached.
package restrictsolve

import (
	"context"
	"time"

	"github.com/tolga/roomopt/internal/dummygen"
	"github.com/tolga/roomopt/internal/mipmodel"
	"github.com/tolga/roomopt/internal/model"
	"github.com/tolga/roomopt/internal/planner"
	"github.com/tolga/roomopt/internal/restrictderive"
	"github.com/tolga/roomopt/internal/solvectx"
)

// Options configures every feasibility MIP the runner invokes.
type Options struct {
	Backend     mipmodel.Backend
	RelativeGap float64
	TimeLimit   time.Duration
}

// DefaultOptions matches spec §4.6: relative gap 0.5, 60s time limit.
func DefaultOptions(backend mipmodel.Backend) Options {
	return Options{Backend: backend, RelativeGap: 0.5, TimeLimit: 60 * time.Second}
}

// Result is the per-day tightened max-stay table.
type Result struct {
	// ComputedMaxStaysStarting holds, for every day the loop actually
	// examined, the largest provably-feasible stay length starting there.
	// Days skipped because they are fully booked or arrival-closed are
	// absent, not zero — callers fall back to FixedMaxStayStartingOn for
	// those (spec §4.7 treats "not computed" and "fixed" as equal).
	ComputedMaxStaysStarting map[model.Date]int

	// ReOptimized carries one entry per (day, length) the inner scan
	// proved feasible, each with the full plan — including the trial
	// stay — that made it so (spec §4.9's ReOptimizedPlans output,
	// mirroring the source's DummyOptimalAssignments).
	ReOptimized []ReOptimizedPlan
}

// ReOptimizedPlan is one newly-proved-feasible (day, length) trial captured
// during tighten's inner scan.
type ReOptimizedPlan struct {
	Day         model.Date
	Length      int
	Context     *solvectx.Context
	Assignments map[int]string
}

// Run executes spec §4.6's day loop. sc/derived are the context and C5
// output of the plan being tightened. ctx is polled between (day, length)
// iterations; a nil context.Context is treated as context.Background.
func Run(ctx context.Context, sc *solvectx.Context, derived *restrictderive.Derived, opts Options) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	res := Result{ComputedMaxStaysStarting: map[model.Date]int{}}

	for d := derived.FirstDepartureDay; d <= sc.MaxEnd; d++ {
		select {
		case <-ctx.Done():
			return res
		default:
		}

		fixedMax, ok := derived.FixedMaxStayStartingOn[d]
		if !ok || fixedMax == 0 || derived.ClosedArrival[d] {
			continue
		}

		computed := fixedMax
		absoluteMax := derived.AbsoluteMaxStayStartingOn[d]
		if fixedMax != absoluteMax {
			computed = tighten(ctx, sc, d, fixedMax, absoluteMax, derived, opts, &res.ReOptimized)
		}
		res.ComputedMaxStaysStarting[d] = computed
	}
	return res
}

// tighten runs spec §4.6 step 4's inner length scan for a single day,
// appending a ReOptimizedPlan to reOpt for every length it proves feasible.
func tighten(ctx context.Context, sc *solvectx.Context, d model.Date, fixedMax, absoluteMax int, derived *restrictderive.Derived, opts Options, reOpt *[]ReOptimizedPlan) int {
	computed := fixedMax
	for length := fixedMax + 1; length <= absoluteMax; length++ {
		if ctx.Err() != nil {
			break
		}
		end := d.Add(length)
		if derived.ClosedDeparture[end] || end > sc.ScheduleEnd {
			continue
		}
		trialCtx, assignments, ok := feasible(sc, d, length, opts)
		if !ok {
			break
		}
		*reOpt = append(*reOpt, ReOptimizedPlan{Day: d, Length: length, Context: trialCtx, Assignments: assignments})
		if end > sc.MaxEnd {
			computed = absoluteMax
			break
		}
		computed = length
	}
	return computed
}

// feasible runs the feasibility MIP for one (day, length) trial: the
// ordinary C4 model plus one extra real stay covering [d, d+length). On
// success it returns the trial context (carrying the extra stay) and the
// assignment that made it feasible, so the caller can report the full
// alternative plan (spec §4.9's ReOptimizedPlans).
func feasible(sc *solvectx.Context, d model.Date, length int, opts Options) (*solvectx.Context, map[int]string, bool) {
	trial := sc.WithExtraStay(d, length)
	dummies := dummygen.Generate(trial)
	sol := planner.Plan(trial, dummies, opts.Backend, mipmodel.Options{
		RelativeGap: opts.RelativeGap,
		TimeLimit:   opts.TimeLimit,
	})
	if sol.Status != mipmodel.StatusOptimal && sol.Status != mipmodel.StatusFeasibleWithGap {
		return nil, nil, false
	}
	return trial, sol.Assignments, true
}
