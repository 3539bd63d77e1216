package model

import (
	"encoding/json"
	"fmt"
)

// DefaultMinimumStay is used when the input document omits MinimumStay.
const DefaultMinimumStay = 5

// DateRangeMinStay is a MinimumStayByDate entry: an inclusive date range
// with a minimum-stay override.
type DateRangeMinStay struct {
	Start       Date
	End         Date
	MinimumStay int
}

// Problem is the immutable, parsed representation of an input document. It
// is read-only from the moment ParseProblem returns it.
type Problem struct {
	ProblemID                  string
	Reservations               []Reservation
	NewReservations            []Reservation
	Rooms                      []Room
	MinimumStay                int
	MinimumStayByDay           map[int]int // time.Weekday -> min stay
	MinimumStayByDate          []DateRangeMinStay
	RequestStartDate           *Date
	RequestEndDate             *Date
	RestrictionsForInitialPlan bool
	TestNewBooking             bool
}

// problemDoc is the wire shape of the full input document.
type problemDoc struct {
	ProblemId                  string           `json:"ProblemId"`
	Reservations               []reservationDoc `json:"Reservations"`
	NewReservations            []reservationDoc `json:"NewReservations,omitempty"`
	Rooms                      []roomDoc        `json:"Rooms"`
	MinimumStay                *int             `json:"MinimumStay,omitempty"`
	MinimumStayByDay           map[string]int   `json:"MinimumStayByDay,omitempty"`
	MinimumStayByDate          []dateRangeDoc   `json:"MinimumStayByDate,omitempty"`
	RequestStartDate           string           `json:"RequestStartDate,omitempty"`
	RequestEndDate             string           `json:"RequestEndDate,omitempty"`
	RestrictionsForInitialPlan bool             `json:"RestrictionsForInitialPlan,omitempty"`
	TestNewBooking             bool             `json:"TestNewBooking,omitempty"`
}

type dateRangeDoc struct {
	Start       string `json:"Start"`
	End         string `json:"End"`
	MinimumStay int    `json:"MinimumStay"`
}

var weekdayNames = map[string]int{
	"Sun": 0, "Mon": 1, "Tue": 2, "Wed": 3, "Thu": 4, "Fri": 5, "Sat": 6,
}

// ParseProblem parses and validates a JSON input document into a Problem.
func ParseProblem(data []byte) (Problem, error) {
	var doc problemDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Problem{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return problemFromDoc(doc)
}

func problemFromDoc(doc problemDoc) (Problem, error) {
	if doc.ProblemId == "" {
		return Problem{}, ErrMissingProblemID
	}
	if len(doc.Reservations) == 0 {
		return Problem{}, ErrMissingReservations
	}

	rooms := make([]Room, 0, len(doc.Rooms))
	roomNumbers := make(map[string]struct{}, len(doc.Rooms))
	for _, rd := range doc.Rooms {
		r, err := roomFromDoc(rd)
		if err != nil {
			return Problem{}, err
		}
		rooms = append(rooms, r)
		roomNumbers[r.Number] = struct{}{}
	}
	for _, r := range rooms {
		for a := range r.Adjacent {
			if _, ok := roomNumbers[a]; !ok {
				return Problem{}, fmt.Errorf("%w: room %s references %s", ErrUnknownAdjacentRoom, r.Number, a)
			}
		}
	}

	reservations, err := parseReservations(doc.Reservations, roomNumbers)
	if err != nil {
		return Problem{}, err
	}
	newReservations, err := parseReservations(doc.NewReservations, roomNumbers)
	if err != nil {
		return Problem{}, err
	}

	minStay := DefaultMinimumStay
	if doc.MinimumStay != nil {
		if *doc.MinimumStay < 1 {
			return Problem{}, ErrNonIntegerMinimumStay
		}
		minStay = *doc.MinimumStay
	}

	byDay := make(map[int]int, len(doc.MinimumStayByDay))
	for k, v := range doc.MinimumStayByDay {
		wd, ok := weekdayNames[k]
		if !ok {
			return Problem{}, fmt.Errorf("%w: %q", ErrUnknownDayOfWeek, k)
		}
		if v < 1 {
			return Problem{}, ErrNonIntegerMinimumStay
		}
		byDay[wd] = v
	}

	byDate := make([]DateRangeMinStay, 0, len(doc.MinimumStayByDate))
	for _, rd := range doc.MinimumStayByDate {
		start, err := ParseDate(rd.Start)
		if err != nil {
			return Problem{}, err
		}
		end, err := ParseDate(rd.End)
		if err != nil {
			return Problem{}, err
		}
		if end.Before(start) {
			return Problem{}, ErrDateRangeOrder
		}
		if rd.MinimumStay < 1 {
			return Problem{}, ErrNonIntegerMinimumStay
		}
		byDate = append(byDate, DateRangeMinStay{Start: start, End: end, MinimumStay: rd.MinimumStay})
	}

	var reqStart, reqEnd *Date
	if doc.RequestStartDate != "" {
		d, err := ParseDate(doc.RequestStartDate)
		if err != nil {
			return Problem{}, err
		}
		reqStart = &d
	}
	if doc.RequestEndDate != "" {
		d, err := ParseDate(doc.RequestEndDate)
		if err != nil {
			return Problem{}, err
		}
		reqEnd = &d
	}

	return Problem{
		ProblemID:                  doc.ProblemId,
		Reservations:               reservations,
		NewReservations:            newReservations,
		Rooms:                      rooms,
		MinimumStay:                minStay,
		MinimumStayByDay:           byDay,
		MinimumStayByDate:          byDate,
		RequestStartDate:           reqStart,
		RequestEndDate:             reqEnd,
		RestrictionsForInitialPlan: doc.RestrictionsForInitialPlan,
		TestNewBooking:             doc.TestNewBooking,
	}, nil
}

func parseReservations(docs []reservationDoc, roomNumbers map[string]struct{}) ([]Reservation, error) {
	out := make([]Reservation, 0, len(docs))
	for _, rd := range docs {
		r, err := reservationFromDoc(rd)
		if err != nil {
			return nil, err
		}
		if r.Locked {
			if _, ok := roomNumbers[r.AssignedRoom]; !ok {
				return nil, fmt.Errorf("%w: %s -> %s", ErrLockedRoomNotInProblem, r.Name, r.AssignedRoom)
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// MarshalJSON round-trips a Problem back into its wire document shape.
func (p Problem) MarshalJSON() ([]byte, error) {
	doc := problemDoc{
		ProblemId:                  p.ProblemID,
		Rooms:                      make([]roomDoc, len(p.Rooms)),
		RestrictionsForInitialPlan: p.RestrictionsForInitialPlan,
		TestNewBooking:             p.TestNewBooking,
	}
	for i, r := range p.Rooms {
		doc.Rooms[i] = r.toDoc()
	}
	doc.Reservations = make([]reservationDoc, len(p.Reservations))
	for i, r := range p.Reservations {
		doc.Reservations[i] = r.toDoc()
	}
	if len(p.NewReservations) > 0 {
		doc.NewReservations = make([]reservationDoc, len(p.NewReservations))
		for i, r := range p.NewReservations {
			doc.NewReservations[i] = r.toDoc()
		}
	}
	minStay := p.MinimumStay
	doc.MinimumStay = &minStay
	if len(p.MinimumStayByDay) > 0 {
		names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
		doc.MinimumStayByDay = make(map[string]int, len(p.MinimumStayByDay))
		for wd, v := range p.MinimumStayByDay {
			doc.MinimumStayByDay[names[wd]] = v
		}
	}
	for _, dr := range p.MinimumStayByDate {
		doc.MinimumStayByDate = append(doc.MinimumStayByDate, dateRangeDoc{
			Start: dr.Start.String(), End: dr.End.String(), MinimumStay: dr.MinimumStay,
		})
	}
	if p.RequestStartDate != nil {
		doc.RequestStartDate = p.RequestStartDate.String()
	}
	if p.RequestEndDate != nil {
		doc.RequestEndDate = p.RequestEndDate.String()
	}
	return json.Marshal(doc)
}
