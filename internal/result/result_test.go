package result

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

func TestWeightedMeanCoveringEmpty(t *testing.T) {
	require.Equal(t, 0.0, weightedMeanCovering(nil))
}

func TestWeightedMeanCoveringUniform(t *testing.T) {
	// Every day at the same covering value means the mean equals that
	// value regardless of the day count.
	require.InDelta(t, 3.0, weightedMeanCovering(map[int]int{3: 7}), 1e-9)
}

func TestWeightedMeanCoveringWeighsByCount(t *testing.T) {
	// Five days at 1, one day at 6: the mean should sit much closer to 1.
	mean := weightedMeanCovering(map[int]int{1: 5, 6: 1})
	require.InDelta(t, (5*1.0+1*6.0)/6.0, mean, 1e-9)
}

// TestAssembleSolvedIsScenarioS1 reassembles spec scenario S1 (spec.md §8)
// end to end through C4/C5/C7/C9 and checks the documented expectations:
// both reservations placed, and the only 1-night gap (2026-01-04) reported
// with MinStays=1.
func TestAssembleSolvedIsScenarioS1(t *testing.T) {
	p := &model.Problem{
		ProblemID: "s1",
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
	sc, err := solvectx.Build(p)
	require.NoError(t, err)

	backend := bnb.Solver{}
	opts := mipmodel.Options{RelativeGap: 0.01, TimeLimit: 10 * time.Second}
	plan := planner.Plan(sc, dummygen.Generate(sc), backend, opts)
	require.Contains(t, []mipmodel.Status{mipmodel.StatusOptimal, mipmodel.StatusFeasibleWithGap}, plan.Status)

	derived := restrictderive.Derive(sc, plan.Assignments, false)
	final := restrictfinal.Derive(sc, derived, nil)

	res := AssembleSolved(p, sc, plan, derived, final, nil, Timing{})
	require.True(t, res.Succeeded)
	require.Len(t, res.OptimizedPlan, 2)
	require.Equal(t, 1, res.MinStays[mustDate(t, "2026-01-04").String()])
}
