package model

// PlanEntry is one labelled room assignment in an output plan.
type PlanEntry struct {
	Name       string `json:"Name"`
	Id         string `json:"Id,omitempty"`
	Room       string `json:"Room"`
	Arrival    string `json:"Arrival"`
	Length     int    `json:"Length"`
	AdjGroup   string `json:"AdjacencyGroup,omitempty"`
	Test       bool   `json:"Test,omitempty"`
	SplitGroup *int   `json:"SplitGroup,omitempty"`
}

// ReOptimizedPlan is one newly-proved-feasible (day, length) alternative,
// carrying the full plan that places the trial stay.
type ReOptimizedPlan struct {
	Day    string      `json:"Day"`
	Length int         `json:"Length"`
	Plan   []PlanEntry `json:"Plan"`
}

// QualityHistogram tallies how many horizon days fall at each
// minimum-stay-covering value, for the initial vs. optimized plan, plus
// the weighted-mean covering value of each histogram (spec §4.8 step 5's
// comparison, summarized to a single number per plan).
type QualityHistogram struct {
	Initial       map[int]int `json:"Initial"`
	Optimized     map[int]int `json:"Optimized"`
	MeanInitial   float64     `json:"MeanInitial"`
	MeanOptimized float64     `json:"MeanOptimized"`
}

// RoomChangeCount is the number of room changes (count(split)-1) a new
// reservation incurred in each plan; -1 means "not placeable".
type RoomChangeCount struct {
	Initial   int `json:"Initial"`
	Optimized int `json:"Optimized"`
}

// Result is the output document: see spec §4.9.
type Result struct {
	ProblemId                 string                     `json:"ProblemId"`
	Succeeded                 bool                       `json:"Succeeded"`
	Message                   string                     `json:"Message,omitempty"`
	CurrentScheduleInfeasible bool                       `json:"CurrentScheduleInfeasible,omitempty"`
	NewReservationInfeasible  bool                       `json:"NewReservationInfeasible,omitempty"`
	InitialOptimizationTime   float64                    `json:"InitialOptimizationTime"`
	TotalTime                 float64                    `json:"TotalTime"`
	ScheduleStart             string                     `json:"ScheduleStart"`
	ScheduleEnd               string                     `json:"ScheduleEnd"`
	Rooms                     []string                   `json:"Rooms"`
	OptimizedPlan             []PlanEntry                `json:"OptimizedPlan,omitempty"`
	InitialPlan               []PlanEntry                `json:"InitialPlan,omitempty"`
	ReOptimizedPlans          []ReOptimizedPlan           `json:"ReOptimizedPlans,omitempty"`
	ClosedArrivals            map[string]bool            `json:"ClosedArrivals,omitempty"`
	ClosedDepartures          map[string]bool            `json:"ClosedDepartures,omitempty"`
	MinStays                  map[string]int             `json:"MinStays,omitempty"`
	MaxStays                  map[string]int             `json:"MaxStays,omitempty"`
	InitialMinStays           map[string]int             `json:"InitialMinStays,omitempty"`
	NonAdjacentAssignments    map[string][]string         `json:"NonAdjacentAssignments,omitempty"`
	StaysAvoidedByCA          map[string][]int            `json:"StaysAvoidedByCa,omitempty"`
	StaysAvoidedByCD          map[string][]int            `json:"StaysAvoidedByCd,omitempty"`
	StaysAvoidedByMax         map[string][]int            `json:"StaysAvoidedByMax,omitempty"`
	QualityComparison         *QualityHistogram           `json:"QualityComparison,omitempty"`
	RoomChangeComparison      map[string]RoomChangeCount  `json:"RoomChangeComparison,omitempty"`
}
