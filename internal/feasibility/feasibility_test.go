package feasibility_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tolga/roomopt/internal/bnb"
	"github.com/tolga/roomopt/internal/dummygen"
	"github.com/tolga/roomopt/internal/feasibility"
	"github.com/tolga/roomopt/internal/mipmodel"
	"github.com/tolga/roomopt/internal/model"
	"github.com/tolga/roomopt/internal/planner"
	"github.com/tolga/roomopt/internal/solvectx"
)

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func stay(t *testing.T, name, arrival string, length int) model.Reservation {
	return model.Reservation{
		Name: name, ID: name, Arrival: mustDate(t, arrival), Length: length, Type: model.DefaultRoomType,
	}
}

// TestRunFitsOnlyWithReOptimization is spec scenario S5: two rooms packed
// with four consecutive 3-night stays at MinimumStay=3 leave no single room
// free for a new 4-night reservation without moving something, so Variant A
// (pinned) must fail to place it while Variant B (free to re-optimize)
// succeeds.
func TestRunFitsOnlyWithReOptimization(t *testing.T) {
	p := &model.Problem{
		ProblemID: "s5",
		Rooms: []model.Room{
			{Number: "501", Type: model.DefaultRoomType, Adjacent: map[string]struct{}{}},
			{Number: "502", Type: model.DefaultRoomType, Adjacent: map[string]struct{}{}},
		},
		Reservations: []model.Reservation{
			stay(t, "R1", "2026-04-01", 3),
			stay(t, "R2", "2026-04-01", 3),
			stay(t, "R3", "2026-04-04", 3),
			stay(t, "R4", "2026-04-04", 3),
		},
		NewReservations: []model.Reservation{
			stay(t, "NEW", "2026-04-04", 4),
		},
		MinimumStay:      3,
		MinimumStayByDay: map[int]int{},
		RequestStartDate: datePtr(mustDate(t, "2026-04-01")),
		RequestEndDate:   datePtr(mustDate(t, "2026-04-15")),
	}

	ctx, err := solvectx.Build(p)
	require.NoError(t, err)

	backend := bnb.Solver{}
	opts := mipmodel.Options{RelativeGap: 0.01, TimeLimit: 10 * time.Second}
	baseline := planner.Plan(ctx, dummygen.Generate(ctx), backend, opts)
	require.Contains(t, []mipmodel.Status{mipmodel.StatusOptimal, mipmodel.StatusFeasibleWithGap}, baseline.Status)

	outcome, err := feasibility.Run(p, ctx, baseline.Assignments, backend, opts)
	require.NoError(t, err)
	require.Empty(t, outcome.PreCheckFailures)

	rc, ok := outcome.RoomChanges[0]
	require.True(t, ok)
	require.GreaterOrEqual(t, rc.Optimized, 0, "Variant B must place the new reservation somewhere")
}

func datePtr(d model.Date) *model.Date { return &d }
