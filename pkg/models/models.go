package models

import "time"

// AssignmentType classifies the role a worker plays on a shift.
type AssignmentType string

const (
	AssignmentLead     AssignmentType = "lead"
	AssignmentRegular  AssignmentType = "regular"
	AssignmentTraining AssignmentType = "training"
)

// Valid reports whether t is one of the known assignment types.
func (t AssignmentType) Valid() bool {
	switch t {
	case AssignmentLead, AssignmentRegular, AssignmentTraining:
		return true
	}
	return false
}

// LeadDesignation marks a template as requiring a lead-capable worker.
// The empty value means no lead requirement.
type LeadDesignation string

const (
	LeadNone    LeadDesignation = ""
	LeadOpening LeadDesignation = "opening"
	LeadClosing LeadDesignation = "closing"
)

// RequiresLead reports whether the designation demands a lead-capable worker.
func (d LeadDesignation) RequiresLead() bool {
	return d == LeadOpening || d == LeadClosing
}

// Availability describes which part of a day a worker can cover.
type Availability string

const (
	AvailabilityNone      Availability = "none"
	AvailabilityMorning   Availability = "morning"
	AvailabilityAfternoon Availability = "afternoon"
	AvailabilityAllDay    Availability = "all_day"
)

// Weekday is a day-of-week label. Weeks start on Monday.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists all days in schedule order (Monday first).
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Index returns the day's offset from Monday (0..6), or -1 if unknown.
func (w Weekday) Index() int {
	for i, d := range Weekdays {
		if d == w {
			return i
		}
	}
	return -1
}

// WeekdayOf maps a concrete date to its Weekday label.
func WeekdayOf(t time.Time) Weekday {
	// time.Weekday counts from Sunday
	return Weekdays[(int(t.Weekday())+6)%7]
}

// ShiftTemplate is a recurring staffing requirement for a location.
type ShiftTemplate struct {
	ID              string          `json:"id"`
	LocationID      string          `json:"location_id"`
	Position        string          `json:"position"`
	Weekdays        []Weekday       `json:"weekdays"`
	StartTime       string          `json:"start_time"` // "HH:MM"
	EndTime         string          `json:"end_time"`   // "HH:MM"
	LeadDesignation LeadDesignation `json:"lead_designation,omitempty"`
	PairTag         string          `json:"pair_tag,omitempty"`
}

// AppliesOn reports whether the template generates an instance on the given weekday.
func (t *ShiftTemplate) AppliesOn(day Weekday) bool {
	for _, d := range t.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// Worker is a schedulable person.
type Worker struct {
	ID           string                   `json:"id"`
	Name         string                   `json:"name"`
	JobLevel     int                      `json:"job_level"`
	IsLead       bool                     `json:"is_lead"`
	Inactive     bool                     `json:"inactive"`
	IsManager    bool                     `json:"is_manager"`
	Positions    []string                 `json:"positions"`
	LocationIDs  []string                 `json:"location_ids"`
	Availability map[Weekday]Availability `json:"availability"`
}

// QualifiedFor reports whether the worker can hold the given position.
func (w *Worker) QualifiedFor(position string) bool {
	for _, p := range w.Positions {
		if p == position {
			return true
		}
	}
	return false
}

// AssignedTo reports whether the worker belongs to the given location.
func (w *Worker) AssignedTo(locationID string) bool {
	for _, id := range w.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// AvailabilityOn returns the worker's availability window for a weekday.
// Missing entries mean the worker is unavailable that day.
func (w *Worker) AvailabilityOn(day Weekday) Availability {
	if a, ok := w.Availability[day]; ok {
		return a
	}
	return AvailabilityNone
}

// RecurringShiftAssignment is a standing weekly preference: this worker
// normally works this slot every week.
type RecurringShiftAssignment struct {
	ID         string         `json:"id"`
	WorkerID   string         `json:"worker_id"`
	Weekday    Weekday        `json:"weekday"`
	LocationID string         `json:"location_id"`
	Position   string         `json:"position"`
	StartTime  string         `json:"start_time"`
	EndTime    string         `json:"end_time"`
	Type       AssignmentType `json:"type"`
}

// ScheduledShift is one concrete dated occurrence of a template.
type ScheduledShift struct {
	ID                   string    `json:"id"`
	Date                 time.Time `json:"date"`
	TemplateID           string    `json:"template_id"`
	LocationID           string    `json:"location_id"`
	Position             string    `json:"position"`
	StartTime            string    `json:"start_time"`
	EndTime              string    `json:"end_time"`
	IsRecurringGenerated bool      `json:"is_recurring_generated"`
}

// ShiftAssignment binds one worker to one scheduled shift. AssignedStart and
// AssignedEnd, when set, narrow the worked window inside the shift's bounds.
type ShiftAssignment struct {
	ID             string         `json:"id"`
	ShiftID        string         `json:"shift_id"`
	WorkerID       string         `json:"worker_id"`
	Type           AssignmentType `json:"type"`
	ManualOverride bool           `json:"manual_override"`
	AssignedStart  string         `json:"assigned_start,omitempty"`
	AssignedEnd    string         `json:"assigned_end,omitempty"`
}

// OperatingHours gives the per-weekday cutoff separating the morning and
// afternoon availability windows at a location.
type OperatingHours struct {
	LocationID    string  `json:"location_id"`
	Weekday       Weekday `json:"weekday"`
	MorningCutoff string  `json:"morning_cutoff"` // "HH:MM"
}

// ExistingShift is a pre-existing commitment used purely for conflict
// detection when seeding a generation run.
type ExistingShift struct {
	WorkerID   string    `json:"worker_id"`
	LocationID string    `json:"location_id"`
	Date       time.Time `json:"date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
}

// GenerateRequest asks for a schedule for one location and week.
type GenerateRequest struct {
	LocationID      string `json:"location_id" binding:"required"`
	WeekStart       string `json:"week_start" binding:"required"` // "2006-01-02", a Monday
	ExcludeWorkerID string `json:"exclude_worker_id,omitempty"`
}

// GenerateResult is the outcome of one generation run. Shifts and Assignments
// carry the complete generated sets so the caller can persist or roll back as
// a unit.
type GenerateResult struct {
	Success             bool              `json:"success"`
	Warnings            []string          `json:"warnings"`
	UnassignedTemplates []ShiftTemplate   `json:"unassigned_templates"`
	Shifts              []ScheduledShift  `json:"shifts"`
	Assignments         []ShiftAssignment `json:"assignments"`
}
