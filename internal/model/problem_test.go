package model

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseProblemRequiresProblemID(t *testing.T) {
	_, err := ParseProblem([]byte(`{"Reservations":[{"Name":"A","Arrival":"2026-01-01","Length":1}]}`))
	require.ErrorIs(t, err, ErrMissingProblemID)
}

func TestParseProblemRequiresReservations(t *testing.T) {
	_, err := ParseProblem([]byte(`{"ProblemId":"p1","Rooms":[{"RoomNumber":"101"}]}`))
	require.ErrorIs(t, err, ErrMissingReservations)
}

func TestParseProblemRejectsLockedWithoutRoom(t *testing.T) {
	doc := `{
		"ProblemId":"p1",
		"Rooms":[{"RoomNumber":"101"}],
		"Reservations":[{"Name":"A","Arrival":"2026-01-01","Length":2,"IsLocked":true}]
	}`
	_, err := ParseProblem([]byte(doc))
	require.ErrorIs(t, err, ErrLockedWithoutRoom)
}

func TestParseProblemRejectsUnknownAdjacentRoom(t *testing.T) {
	doc := `{
		"ProblemId":"p1",
		"Rooms":[{"RoomNumber":"101","AdjacentRooms":["999"]}],
		"Reservations":[{"Name":"A","Arrival":"2026-01-01","Length":1}]
	}`
	_, err := ParseProblem([]byte(doc))
	require.ErrorIs(t, err, ErrUnknownAdjacentRoom)
}

func TestParseProblemDefaultsMinimumStay(t *testing.T) {
	doc := `{
		"ProblemId":"p1",
		"Rooms":[{"RoomNumber":"101"}],
		"Reservations":[{"Name":"A","Arrival":"2026-01-01","Length":1}]
	}`
	p, err := ParseProblem([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, DefaultMinimumStay, p.MinimumStay)
}

func TestParseProblemMinimumStayByDate(t *testing.T) {
	doc := `{
		"ProblemId":"p1",
		"Rooms":[{"RoomNumber":"101"}],
		"Reservations":[{"Name":"A","Arrival":"2026-01-01","Length":1}],
		"MinimumStayByDate":[{"Start":"2026-05-01","End":"2026-05-07","MinimumStay":7}]
	}`
	p, err := ParseProblem([]byte(doc))
	require.NoError(t, err)
	require.Len(t, p.MinimumStayByDate, 1)
	require.Equal(t, 7, p.MinimumStayByDate[0].MinimumStay)
}

func TestParseProblemRejectsReversedDateRange(t *testing.T) {
	doc := `{
		"ProblemId":"p1",
		"Rooms":[{"RoomNumber":"101"}],
		"Reservations":[{"Name":"A","Arrival":"2026-01-01","Length":1}],
		"MinimumStayByDate":[{"Start":"2026-05-07","End":"2026-05-01","MinimumStay":7}]
	}`
	_, err := ParseProblem([]byte(doc))
	require.ErrorIs(t, err, ErrDateRangeOrder)
}

// genProblem builds an arbitrary, internally consistent Problem: enough
// rooms and reservations to exercise MarshalJSON/ParseProblem without
// tripping any validation rule.
func genProblem(t *rapid.T) Problem {
	numRooms := rapid.IntRange(1, 3).Draw(t, "numRooms")
	rooms := make([]Room, numRooms)
	for i := range rooms {
		rooms[i] = Room{Number: fmt.Sprintf("R%d", i+1), Type: DefaultRoomType, Adjacent: map[string]struct{}{}}
	}

	start, err := ParseDate("2026-01-01")
	require.NoError(t, err)

	numRes := rapid.IntRange(1, 4).Draw(t, "numRes")
	reservations := make([]Reservation, numRes)
	for i := range reservations {
		arrival := start.Add(rapid.IntRange(0, 20).Draw(t, fmt.Sprintf("arrival%d", i)))
		length := rapid.IntRange(1, 5).Draw(t, fmt.Sprintf("length%d", i))
		reservations[i] = Reservation{
			Name:    fmt.Sprintf("Guest%d", i),
			ID:      fmt.Sprintf("id-%d", i),
			Arrival: arrival,
			Length:  length,
			Type:    DefaultRoomType,
		}
	}

	return Problem{
		ProblemID:        "prob-1",
		Reservations:     reservations,
		Rooms:            rooms,
		MinimumStay:      rapid.IntRange(1, 7).Draw(t, "minStay"),
		MinimumStayByDay: map[int]int{},
	}
}

func TestProblemRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := genProblem(t)

		b1, err := json.Marshal(p)
		require.NoError(t, err)
		p1, err := ParseProblem(b1)
		require.NoError(t, err)

		b2, err := json.Marshal(p1)
		require.NoError(t, err)
		p2, err := ParseProblem(b2)
		require.NoError(t, err)

		require.Equal(t, p1, p2)
	})
}
