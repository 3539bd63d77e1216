package dummygen_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tolga/roomopt/internal/dummygen"
	"github.com/tolga/roomopt/internal/model"
	"github.com/tolga/roomopt/internal/solvectx"
)

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

// twoStayProblem is spec scenario S1: two rooms, two 3-night stays leaving a
// single-night gap on 2026-01-04.
func twoStayProblem(t *testing.T) *model.Problem {
	t.Helper()
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

func TestGenerateFillsTheGapBetweenStays(t *testing.T) {
	p := twoStayProblem(t)
	ctx, err := solvectx.Build(p)
	require.NoError(t, err)

	dummies := dummygen.Generate(ctx)
	require.NotEmpty(t, dummies)

	gapDay := mustDate(t, "2026-01-04")
	found := false
	for _, d := range dummies {
		if d.Covers(gapDay) {
			found = true
		}
		require.True(t, d.IsDummy)
		require.Greater(t, d.Length, 0)
		require.GreaterOrEqual(t, d.Index, len(ctx.Stays))
	}
	require.True(t, found, "expected at least one dummy covering the single-night gap")
}

func TestGenerateIndicesContinueFromRealStays(t *testing.T) {
	p := twoStayProblem(t)
	ctx, err := solvectx.Build(p)
	require.NoError(t, err)

	dummies := dummygen.Generate(ctx)
	seen := map[int]bool{}
	next := len(ctx.Stays)
	for _, d := range dummies {
		require.False(t, seen[d.Index], "dummy indices must be unique")
		seen[d.Index] = true
		require.GreaterOrEqual(t, d.Index, next)
	}
}
