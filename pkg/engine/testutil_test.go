package engine

import (
	"time"

	"github.com/arnavshah/rostergen-go/pkg/config"
	"github.com/arnavshah/rostergen-go/pkg/models"
)

// Monday 2026-01-05, the base week for engine tests.
var testWeekStart = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

const testLocation = "downtown"

func newTestEnv(workers []*models.Worker, templates []*models.ShiftTemplate, pairings []config.PairingRule) *phaseEnv {
	byID := make(map[string]*models.Worker, len(workers))
	for _, w := range workers {
		byID[w.ID] = w
	}
	return &phaseEnv{
		LocationID:    testLocation,
		WeekStart:     testWeekStart,
		WeekDates:     WeekDates(testWeekStart),
		Workers:       byID,
		Ordered:       workers,
		Templates:     templates,
		Cutoffs:       map[models.Weekday]string{},
		DefaultCutoff: "12:00",
		Pairings:      pairings,
	}
}

func allDayWorker(id, name string, positions ...string) *models.Worker {
	avail := make(map[models.Weekday]models.Availability)
	for _, d := range models.Weekdays {
		avail[d] = models.AvailabilityAllDay
	}
	return &models.Worker{
		ID:           id,
		Name:         name,
		Positions:    positions,
		LocationIDs:  []string{testLocation},
		Availability: avail,
	}
}

func weekdayTemplate(id, position, start, end string, days ...models.Weekday) *models.ShiftTemplate {
	if len(days) == 0 {
		days = []models.Weekday{models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday}
	}
	return &models.ShiftTemplate{
		ID:         id,
		LocationID: testLocation,
		Position:   position,
		Weekdays:   days,
		StartTime:  start,
		EndTime:    end,
	}
}

func recurringFor(id, workerID string, tmpl *models.ShiftTemplate, day models.Weekday, typ models.AssignmentType) models.RecurringShiftAssignment {
	return models.RecurringShiftAssignment{
		ID:         id,
		WorkerID:   workerID,
		Weekday:    day,
		LocationID: tmpl.LocationID,
		Position:   tmpl.Position,
		StartTime:  tmpl.StartTime,
		EndTime:    tmpl.EndTime,
		Type:       typ,
	}
}

// assignmentsByWorker maps worker id to the number of assignments committed.
func assignmentsByWorker(state *GenerationState) map[string]int {
	out := make(map[string]int)
	for _, a := range state.Assignments() {
		out[a.WorkerID]++
	}
	return out
}
