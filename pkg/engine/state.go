package engine

import (
	"fmt"
	"time"

	"github.com/arnavshah/rostergen-go/pkg/models"
)

// TemplateInstance is one (template, date) slot in the target week.
type TemplateInstance struct {
	Template *models.ShiftTemplate
	Date     time.Time
}

// GenerationState is the ledger of a single generation run. Every phase
// reads occupancy through it and commits new shifts and assignments through
// it; nothing else mutates the run's output.
//
// Occupancy is tracked per worker per date: a worker with any commitment on
// a date, from this run, from pre-seeded cross-location shifts, or from
// recurring assignments at other locations, is unavailable for that whole
// date. Slot fill is tracked per (template, date): one primary assignment
// (lead or regular) fills a slot, and at most one training assignment may
// ride along on a filled slot.
type GenerationState struct {
	shifts      []models.ScheduledShift
	assignments []models.ShiftAssignment

	slotShift    map[string]int  // slot key -> index into shifts
	slotPrimary  map[string]bool // slot has a lead/regular assignment
	slotTraining map[string]bool // slot has a training assignment

	filledTemplates map[string]bool            // template id -> any primary this week
	workerDays      map[string]map[string]bool // worker id -> date key -> busy
	workerHours     map[string]float64
}

// NewGenerationState creates an empty ledger for one run.
func NewGenerationState() *GenerationState {
	return &GenerationState{
		slotShift:       make(map[string]int),
		slotPrimary:     make(map[string]bool),
		slotTraining:    make(map[string]bool),
		filledTemplates: make(map[string]bool),
		workerDays:      make(map[string]map[string]bool),
		workerHours:     make(map[string]float64),
	}
}

func slotKey(templateID string, date time.Time) string {
	return templateID + "|" + dateKey(date)
}

// SeedWorkerCommitment records a pre-existing commitment so the worker is
// treated as busy on that date for the whole run.
func (s *GenerationState) SeedWorkerCommitment(workerID string, date time.Time) {
	s.markBusy(workerID, date)
}

func (s *GenerationState) markBusy(workerID string, date time.Time) {
	days, ok := s.workerDays[workerID]
	if !ok {
		days = make(map[string]bool)
		s.workerDays[workerID] = days
	}
	days[dateKey(date)] = true
}

// IsWorkerAssignedOnDate reports whether the worker already has any
// commitment on the given date.
func (s *GenerationState) IsWorkerAssignedOnDate(workerID string, date time.Time) bool {
	return s.workerDays[workerID][dateKey(date)]
}

// IsTemplateSlotFilled reports whether the (template, date) slot already has
// a primary assignment.
func (s *GenerationState) IsTemplateSlotFilled(templateID string, date time.Time) bool {
	return s.slotPrimary[slotKey(templateID, date)]
}

// TemplateFilled reports whether the template has at least one filled
// instance anywhere in the week.
func (s *GenerationState) TemplateFilled(templateID string) bool {
	return s.filledTemplates[templateID]
}

// WorkerHours returns the hours committed to the worker so far in this run.
func (s *GenerationState) WorkerHours(workerID string) float64 {
	return s.workerHours[workerID]
}

// AddAssignment commits one shift and its assignment. Callers are expected
// to have checked IsWorkerAssignedOnDate and IsTemplateSlotFilled first; the
// error returns here are a backstop, not a control-flow mechanism.
//
// A training assignment does not fill the slot: it attaches to the slot's
// existing shift when one exists, and otherwise creates the shift while
// leaving the slot open for a later primary. Lead qualification is the
// caller's check since the ledger holds no worker data.
func (s *GenerationState) AddAssignment(shift models.ScheduledShift, asgn models.ShiftAssignment) error {
	key := slotKey(shift.TemplateID, shift.Date)

	if s.IsWorkerAssignedOnDate(asgn.WorkerID, shift.Date) {
		return fmt.Errorf("worker %s is already assigned on %s", asgn.WorkerID, dateKey(shift.Date))
	}

	switch asgn.Type {
	case models.AssignmentTraining:
		if s.slotTraining[key] {
			return fmt.Errorf("template %s already has a training assignment on %s", shift.TemplateID, dateKey(shift.Date))
		}
		s.commit(key, shift, asgn)
		s.slotTraining[key] = true
	case models.AssignmentLead, models.AssignmentRegular:
		if s.slotPrimary[key] {
			return fmt.Errorf("template %s is already filled on %s", shift.TemplateID, dateKey(shift.Date))
		}
		s.commit(key, shift, asgn)
		s.slotPrimary[key] = true
		s.filledTemplates[shift.TemplateID] = true
	default:
		return fmt.Errorf("unknown assignment type %q", asgn.Type)
	}
	return nil
}

// AddPairedAssignments commits two linked half-shifts for one worker as a
// unit: either both land in the ledger or neither does.
func (s *GenerationState) AddPairedAssignments(first models.ScheduledShift, firstAsgn models.ShiftAssignment, second models.ScheduledShift, secondAsgn models.ShiftAssignment) error {
	if firstAsgn.WorkerID != secondAsgn.WorkerID {
		return fmt.Errorf("paired halves must share one worker, got %s and %s", firstAsgn.WorkerID, secondAsgn.WorkerID)
	}
	if s.IsWorkerAssignedOnDate(firstAsgn.WorkerID, first.Date) {
		return fmt.Errorf("worker %s is already assigned on %s", firstAsgn.WorkerID, dateKey(first.Date))
	}
	firstKey := slotKey(first.TemplateID, first.Date)
	secondKey := slotKey(second.TemplateID, second.Date)
	if s.slotPrimary[firstKey] || s.slotPrimary[secondKey] {
		return fmt.Errorf("paired templates %s/%s already filled on %s", first.TemplateID, second.TemplateID, dateKey(first.Date))
	}

	s.commit(firstKey, first, firstAsgn)
	s.slotPrimary[firstKey] = true
	s.filledTemplates[first.TemplateID] = true

	// The worker is intentionally busy after the first half; commit does not
	// re-check occupancy, and it reuses the slot's shift if a trainee
	// already created one.
	s.commit(secondKey, second, secondAsgn)
	s.slotPrimary[secondKey] = true
	s.filledTemplates[second.TemplateID] = true
	return nil
}

func (s *GenerationState) commit(key string, shift models.ScheduledShift, asgn models.ShiftAssignment) {
	if idx, ok := s.slotShift[key]; ok {
		// Slot already has a shift record (e.g. a training assignment
		// arrived first); reuse it instead of duplicating.
		asgn.ShiftID = s.shifts[idx].ID
	} else {
		s.shifts = append(s.shifts, shift)
		s.slotShift[key] = len(s.shifts) - 1
		asgn.ShiftID = shift.ID
	}
	s.assignments = append(s.assignments, asgn)
	s.markBusy(asgn.WorkerID, shift.Date)
	start, end := shift.StartTime, shift.EndTime
	if asgn.AssignedStart != "" && asgn.AssignedEnd != "" {
		start, end = asgn.AssignedStart, asgn.AssignedEnd
	}
	s.workerHours[asgn.WorkerID] += DurationHours(start, end)
}

// UnfilledTemplateInstances produces every (template, applicable date) slot
// in the week that has no primary assignment yet, in template order then
// date order. This is the worklist later phases consume.
func (s *GenerationState) UnfilledTemplateInstances(templates []*models.ShiftTemplate, weekDates []time.Time) []TemplateInstance {
	var out []TemplateInstance
	for _, tmpl := range templates {
		for _, date := range weekDates {
			if !tmpl.AppliesOn(models.WeekdayOf(date)) {
				continue
			}
			if !s.slotPrimary[slotKey(tmpl.ID, date)] {
				out = append(out, TemplateInstance{Template: tmpl, Date: date})
			}
		}
	}
	return out
}

// Shifts returns the generated shifts in creation order.
func (s *GenerationState) Shifts() []models.ScheduledShift {
	return s.shifts
}

// Assignments returns the generated assignments in creation order.
func (s *GenerationState) Assignments() []models.ShiftAssignment {
	return s.assignments
}
