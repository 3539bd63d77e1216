// Package solve is the top-level orchestrator: it wires the Problem Parser,
// Context Builder, Dummy Stay Generator, Initial Plan Solver, Restriction
// Deriver, Restriction Solver Runner, Final Restrictions projector, and
// Feasibility Runner into the single call cmd/solve makes per problem
// document (spec §5).
package solve

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tolga/roomopt/internal/bnb"
	"github.com/tolga/roomopt/internal/config"
	"github.com/tolga/roomopt/internal/dummygen"
	"github.com/tolga/roomopt/internal/feasibility"
	"github.com/tolga/roomopt/internal/mipmodel"
	"github.com/tolga/roomopt/internal/model"
	"github.com/tolga/roomopt/internal/planner"
	"github.com/tolga/roomopt/internal/restrictderive"
	"github.com/tolga/roomopt/internal/restrictfinal"
	"github.com/tolga/roomopt/internal/restrictsolve"
	"github.com/tolga/roomopt/internal/result"
	"github.com/tolga/roomopt/internal/solvectx"
)

// Mode selects between a full solve (Initial Plan Solver followed by the
// Feasibility Runner, when the problem carries NewReservations) and a
// preview that reports only the initial plan and its restrictions (spec
// §4.8's "RestrictionsForInitialPlan" request mode).
type Mode int

const (
	ModeFull Mode = iota
	ModeInitialOnly
)

func modeOf(p *model.Problem) Mode {
	if p.RestrictionsForInitialPlan {
		return ModeInitialOnly
	}
	return ModeFull
}

// Kind classifies a solve failure into the exit code cmd/solve reports
// (spec §6/§7).
type Kind int

const (
	// KindInvalidInput means building the solver context failed for a reason
	// other than a missing initial assignment, or the Feasibility Runner
	// returned an error.
	KindInvalidInput Kind = iota
	// KindMissingInitialAssignment means a reservation that had to be fixed
	// had no usable room.
	KindMissingInitialAssignment
	// KindProvenInfeasible means the initial MIP proved no assignment
	// exists.
	KindProvenInfeasible
	// KindNewReservationInfeasible means at least one NewReservations
	// candidate passed the pre-check and reached the Feasibility Runner's
	// MIPs, and no candidate was placed. When every candidate fails the
	// pre-check, the result reports it without this error.
	KindNewReservationInfeasible
	// KindSolverTimeout means the initial MIP hit its time limit without a
	// feasible incumbent.
	KindSolverTimeout
)

// Error wraps a solve failure with its classification; cmd/solve maps Kind
// to a process exit code.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Solve runs the full pipeline over p and returns the output document, or
// an *Error classifying why it could not.
func Solve(ctx context.Context, p *model.Problem, cfg *config.Config, log zerolog.Logger) (*model.Result, error) {
	start := time.Now()
	backend := bnb.Solver{}

	sc, err := solvectx.Build(p)
	if err != nil {
		if errors.Is(err, solvectx.ErrMissingInitialAssignment) {
			return nil, &Error{Kind: KindMissingInitialAssignment, Err: err}
		}
		return nil, &Error{Kind: KindInvalidInput, Err: err}
	}

	initialStart := time.Now()
	dummies := dummygen.Generate(sc)
	plan := planner.Plan(sc, dummies, backend, mipmodel.Options{
		RelativeGap: cfg.SolverRelativeGap,
		TimeLimit:   cfg.SolverTimeLimit,
	})
	initialElapsed := time.Since(initialStart)

	switch plan.Status {
	case mipmodel.StatusInfeasible:
		return nil, &Error{Kind: KindProvenInfeasible, Err: errors.New("initial schedule is infeasible")}
	case mipmodel.StatusTimeout:
		if len(plan.Assignments) == 0 {
			return nil, &Error{Kind: KindSolverTimeout, Err: errors.New("initial solve timed out without a feasible plan")}
		}
		log.Warn().Msg("initial solve hit its time limit; proceeding with the best plan found")
	}

	derived := restrictderive.Derive(sc, plan.Assignments, p.TestNewBooking)

	var computedMax map[model.Date]int
	var reOpt []model.ReOptimizedPlan
	if cfg.RestrictionLoopEnabled {
		rr := restrictsolve.Run(ctx, sc, derived, restrictsolve.Options{
			Backend:     backend,
			RelativeGap: cfg.FeasibilityRelativeGap,
			TimeLimit:   cfg.SolverTimeLimit,
		})
		computedMax = rr.ComputedMaxStaysStarting
		for _, ro := range rr.ReOptimized {
			reOpt = append(reOpt, model.ReOptimizedPlan{
				Day:    ro.Day.String(),
				Length: ro.Length,
				Plan:   result.PlanEntries(ro.Context, ro.Assignments),
			})
		}
	}
	final := restrictfinal.Derive(sc, derived, computedMax)

	t := result.Timing{
		InitialOptimizationTime: initialElapsed.Seconds(),
	}

	mode := modeOf(p)
	if mode == ModeInitialOnly || len(p.NewReservations) == 0 {
		res := result.AssembleSolved(p, sc, plan, derived, final, reOpt, t)
		t.TotalTime = time.Since(start).Seconds()
		res.TotalTime = t.TotalTime
		return res, nil
	}

	outcome, err := feasibility.Run(p, sc, plan.Assignments, backend, mipmodel.Options{
		RelativeGap: cfg.SolverRelativeGap,
		TimeLimit:   cfg.SolverTimeLimit,
	})
	if err != nil {
		return nil, &Error{Kind: KindInvalidInput, Err: err}
	}

	res := result.AssembleFeasibility(p, sc, plan, derived, final, outcome, reOpt, t)
	res.TotalTime = time.Since(start).Seconds()
	if res.NewReservationInfeasible && !outcome.AnyPlaced() && len(outcome.RoomChanges) > 0 {
		return res, &Error{Kind: KindNewReservationInfeasible, Err: errors.New(res.Message)}
	}
	return res, nil
}
