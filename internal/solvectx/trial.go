package solvectx

import "github.com/tolga/roomopt/internal/model"

// WithExtraStay returns a shallow copy of ctx with one additional real stay
// appended, covering [start, start+length). Used by the Restriction Solver
// Runner (spec §4.6) to probe whether a trial stay can be placed at all, independent of room
// type: the trial stay is allowable in every room type that exists in the
// problem, since it stands in for "is there any room free here", not for a
// guest with a type preference.
//
// The returned Context shares every map with ctx except Stays and
// AllowableTypes; callers must not mutate those shared maps through the
// copy. dummygen.Generate must be re-run against the returned Context, since
// the trial stay changes which days are idle.
func (c *Context) WithExtraStay(start model.Date, length int) *Context {
	cp := *c
	extra := Stay{
		Index:  len(c.Stays),
		Name:   "trial",
		Start:  start,
		End:    start.Add(length),
		Length: length,
	}
	cp.Stays = append(append([]Stay(nil), c.Stays...), extra)
	cp.AllowableTypes = append(append([][]string(nil), c.AllowableTypes...), c.allRoomTypes())
	return &cp
}

// TrialStayIndex returns the index WithExtraStay assigns its appended stay,
// i.e. the index of the last stay in the returned Context.
func (c *Context) TrialStayIndex() int {
	return len(c.Stays) - 1
}

func (c *Context) allRoomTypes() []string {
	seen := make(map[string]bool, len(c.Rooms))
	var out []string
	for _, r := range c.Rooms {
		if !seen[r.Type] {
			seen[r.Type] = true
			out = append(out, r.Type)
		}
	}
	return out
}
