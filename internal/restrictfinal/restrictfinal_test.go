package restrictfinal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tolga/roomopt/internal/bnb"
	"github.com/tolga/roomopt/internal/dummygen"
	"github.com/tolga/roomopt/internal/mipmodel"
	"github.com/tolga/roomopt/internal/model"
	"github.com/tolga/roomopt/internal/planner"
	"github.com/tolga/roomopt/internal/restrictderive"
	"github.com/tolga/roomopt/internal/restrictfinal"
	"github.com/tolga/roomopt/internal/solvectx"
)

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func twoRoomProblem(t *testing.T) *model.Problem {
	return &model.Problem{
		ProblemID: "p1",
		Rooms: []model.Room{
			{Number: "101", Type: model.DefaultRoomType, Adjacent: map[string]struct{}{}},
			{Number: "102", Type: model.DefaultRoomType, Adjacent: map[string]struct{}{}},
		},
		Reservations: []model.Reservation{
			{Name: "A", ID: "a", Arrival: mustDate(t, "2026-01-01"), Length: 3, Type: model.DefaultRoomType},
			{Name: "B", ID: "b", Arrival: mustDate(t, "2026-01-05"), Length: 3, Type: model.DefaultRoomType},
		},
		MinimumStay:      5,
		MinimumStayByDay: map[int]int{},
	}
}

// TestDerivePrunesClosedDaysAroundFullyBooked exercises spec §4.7 prune
// rule 2 on the fully-booked days themselves: neither closure flag survives
// on any of them. The span after each fully-booked day is not checked here.
func TestDerivePrunesClosedDaysAroundFullyBooked(t *testing.T) {
	p := twoRoomProblem(t)
	sc, err := solvectx.Build(p)
	require.NoError(t, err)

	backend := bnb.Solver{}
	opts := mipmodel.Options{RelativeGap: 0.01, TimeLimit: 10 * time.Second}
	plan := planner.Plan(sc, dummygen.Generate(sc), backend, opts)
	require.Contains(t, []mipmodel.Status{mipmodel.StatusOptimal, mipmodel.StatusFeasibleWithGap}, plan.Status)

	derived := restrictderive.Derive(sc, plan.Assignments, false)
	final := restrictfinal.Derive(sc, derived, nil)

	for fday := range derived.FullyBookedDays {
		require.False(t, final.ClosedArrival[fday], "fully booked day %s must not report closed-arrival", fday)
		require.False(t, final.ClosedDeparture[fday], "fully booked day %s must not report closed-departure", fday)
	}
}

// TestMaxCoveringAtFillsTransitionGaps checks that MaxCoveringAt returns a
// value for every day in the horizon even though MaxStayCovering itself
// (spec §4.7 prune rule 3) only records transitions.
func TestMaxCoveringAtFillsTransitionGaps(t *testing.T) {
	p := twoRoomProblem(t)
	sc, err := solvectx.Build(p)
	require.NoError(t, err)

	backend := bnb.Solver{}
	opts := mipmodel.Options{RelativeGap: 0.01, TimeLimit: 10 * time.Second}
	plan := planner.Plan(sc, dummygen.Generate(sc), backend, opts)
	require.Contains(t, []mipmodel.Status{mipmodel.StatusOptimal, mipmodel.StatusFeasibleWithGap}, plan.Status)

	derived := restrictderive.Derive(sc, plan.Assignments, false)
	final := restrictfinal.Derive(sc, derived, nil)

	for d := sc.ScheduleStart; d < sc.ScheduleEnd; d++ {
		require.GreaterOrEqual(t, final.MaxCoveringAt(d), 0)
	}
}
