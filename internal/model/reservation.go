package model

import "github.com/google/uuid"

// Reservation is a single booking: an existing stay, a reservation to be
// (re)placed by the solver, or — when split by the Feasibility Runner — a
// one-night fragment of a candidate new reservation.
type Reservation struct {
	Name           string
	ID             string
	Arrival        Date
	Length         int
	Type           string
	AllowableTypes []string // explicit request; solvectx.Context.AllowableTypes extends this
	TypeOrder      []string
	AdjGroup       string // "" means no group
	Locked         bool
	AssignedRoom   string // "" means unassigned
	Test           bool
	SplitGroup     *int
}

// HasAdjGroup reports whether the reservation belongs to a named adjacency
// group.
func (r Reservation) HasAdjGroup() bool {
	return r.AdjGroup != "" && r.AdjGroup != "None"
}

// End returns the exclusive departure ordinal (Arrival + Length).
func (r Reservation) End() Date {
	return r.Arrival.Add(r.Length)
}

// reservationDoc is the wire shape of a reservation entry.
type reservationDoc struct {
	Name               string   `json:"Name"`
	Id                 string   `json:"Id,omitempty"`
	Arrival            string   `json:"Arrival"`
	Length             int      `json:"Length"`
	AdjacencyGroup     string   `json:"AdjacencyGroup,omitempty"`
	IsLocked           bool     `json:"IsLocked,omitempty"`
	AssignedRoom       string   `json:"AssignedRoom,omitempty"`
	RoomType           string   `json:"RoomType,omitempty"`
	AllowableRoomTypes []string `json:"AllowableRoomTypes,omitempty"`
	TypeOrder          []string `json:"TypeOrder,omitempty"`
	SplitGroup         *int     `json:"SplitGroup,omitempty"`
	Test               bool     `json:"Test,omitempty"`
}

func reservationFromDoc(d reservationDoc) (Reservation, error) {
	if d.Length < 1 {
		return Reservation{}, ErrNegativeLength
	}
	arrival, err := ParseDate(d.Arrival)
	if err != nil {
		return Reservation{}, err
	}
	if d.IsLocked && d.AssignedRoom == "" {
		return Reservation{}, ErrLockedWithoutRoom
	}
	id := d.Id
	if id == "" {
		id = uuid.NewString()
	}
	return Reservation{
		Name:           d.Name,
		ID:             id,
		Arrival:        arrival,
		Length:         d.Length,
		Type:           d.RoomType,
		AllowableTypes: append([]string(nil), d.AllowableRoomTypes...),
		TypeOrder:      append([]string(nil), d.TypeOrder...),
		AdjGroup:       d.AdjacencyGroup,
		Locked:         d.IsLocked,
		AssignedRoom:   d.AssignedRoom,
		Test:           d.Test,
		SplitGroup:     d.SplitGroup,
	}, nil
}

func (r Reservation) toDoc() reservationDoc {
	return reservationDoc{
		Name:               r.Name,
		Id:                 r.ID,
		Arrival:            r.Arrival.String(),
		Length:             r.Length,
		AdjacencyGroup:     r.AdjGroup,
		IsLocked:           r.Locked,
		AssignedRoom:       r.AssignedRoom,
		RoomType:           r.Type,
		AllowableRoomTypes: r.AllowableTypes,
		TypeOrder:          r.TypeOrder,
		SplitGroup:         r.SplitGroup,
		Test:               r.Test,
	}
}
