package restrictsolve_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tolga/roomopt/internal/bnb"
	"github.com/tolga/roomopt/internal/dummygen"
	"github.com/tolga/roomopt/internal/mipmodel"
	"github.com/tolga/roomopt/internal/model"
	"github.com/tolga/roomopt/internal/planner"
	"github.com/tolga/roomopt/internal/restrictderive"
	"github.com/tolga/roomopt/internal/restrictsolve"
	"github.com/tolga/roomopt/internal/solvectx"
)

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

// TestRunTightensMaxStay is spec scenario S4: one room already booked
// 2026-03-10..13, the other empty. A stay starting 2026-03-09 in the empty
// room can run all the way to the schedule end, but one starting
// 2026-03-11 is squeezed by the booked room sharing the clique on that day
// and should come back tighter than the naive (fixed) max.
func TestRunTightensMaxStay(t *testing.T) {
	p := &model.Problem{
		ProblemID: "s4",
		Rooms: []model.Room{
			{Number: "401", Type: model.DefaultRoomType, Adjacent: map[string]struct{}{}},
			{Number: "402", Type: model.DefaultRoomType, Adjacent: map[string]struct{}{}},
		},
		Reservations: []model.Reservation{
			{Name: "H", ID: "h", Arrival: mustDate(t, "2026-03-10"), Length: 3, Type: model.DefaultRoomType, Locked: true, AssignedRoom: "401"},
		},
		MinimumStay:      1,
		MinimumStayByDay: map[int]int{},
		RequestStartDate: datePtr(mustDate(t, "2026-03-01")),
		RequestEndDate:   datePtr(mustDate(t, "2026-03-20")),
	}
	ctx, err := solvectx.Build(p)
	require.NoError(t, err)

	backend := bnb.Solver{}
	opts := mipmodel.Options{RelativeGap: 0.01, TimeLimit: 10 * time.Second}
	plan := planner.Plan(ctx, dummygen.Generate(ctx), backend, opts)
	require.Contains(t, []mipmodel.Status{mipmodel.StatusOptimal, mipmodel.StatusFeasibleWithGap}, plan.Status)

	derived := restrictderive.Derive(ctx, plan.Assignments, false)

	res := restrictsolve.Run(context.Background(), ctx, derived, restrictsolve.Options{
		Backend:     backend,
		RelativeGap: 0.5,
		TimeLimit:   10 * time.Second,
	})

	d11 := mustDate(t, "2026-03-11")
	computed, ok := res.ComputedMaxStaysStarting[d11]
	require.True(t, ok, "day 2026-03-11 should have been examined by the restriction loop")
	require.LessOrEqual(t, computed, derived.AbsoluteMaxStayStartingOn[d11],
		"a tightened max-stay can never exceed the naive absolute ceiling")

	require.NotEmpty(t, res.ReOptimized, "every proved-feasible trial length should be captured for ReOptimizedPlans")
	for _, ro := range res.ReOptimized {
		require.NotNil(t, ro.Context)
		trialIdx := ro.Context.TrialStayIndex()
		room, placed := ro.Assignments[trialIdx]
		require.True(t, placed, "the trial stay itself must appear in its own feasible assignment")
		require.NotEmpty(t, room)
	}
}

func datePtr(d model.Date) *model.Date { return &d }
