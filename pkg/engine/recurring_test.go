package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/rostergen-go/pkg/config"
	"github.com/arnavshah/rostergen-go/pkg/models"
)

func TestProcessRecurring_ExactMatch(t *testing.T) {
	tmpl := weekdayTemplate("t1", "barista", "09:00", "17:00")
	alice := allDayWorker("w1", "Alice", "barista")
	env := newTestEnv([]*models.Worker{alice}, []*models.ShiftTemplate{tmpl}, nil)
	state := NewGenerationState()

	recs := []models.RecurringShiftAssignment{
		recurringFor("r1", "w1", tmpl, models.Monday, models.AssignmentRegular),
	}
	warnings := processRecurring(env, state, recs)

	assert.Empty(t, warnings)
	require.Len(t, state.Shifts(), 1)
	require.Len(t, state.Assignments(), 1)

	shift := state.Shifts()[0]
	assert.Equal(t, testWeekStart, shift.Date)
	assert.Equal(t, "t1", shift.TemplateID)
	assert.True(t, shift.IsRecurringGenerated)
	assert.Equal(t, "09:00", shift.StartTime)

	asgn := state.Assignments()[0]
	assert.Equal(t, "w1", asgn.WorkerID)
	assert.Equal(t, models.AssignmentRegular, asgn.Type)
}

func TestProcessRecurring_NoMatchingTemplate(t *testing.T) {
	tmpl := weekdayTemplate("t1", "barista", "09:00", "17:00")
	alice := allDayWorker("w1", "Alice", "barista")
	env := newTestEnv([]*models.Worker{alice}, []*models.ShiftTemplate{tmpl}, nil)
	state := NewGenerationState()

	rec := recurringFor("r1", "w1", tmpl, models.Monday, models.AssignmentRegular)
	rec.StartTime = "10:00" // no template starts at 10:00

	warnings := processRecurring(env, state, []models.RecurringShiftAssignment{rec})

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no matching template")
	assert.Empty(t, state.Shifts())
}

func TestProcessRecurring_ConflictingCommitment(t *testing.T) {
	tmpl := weekdayTemplate("t1", "barista", "09:00", "17:00")
	alice := allDayWorker("w1", "Alice", "barista")
	env := newTestEnv([]*models.Worker{alice}, []*models.ShiftTemplate{tmpl}, nil)
	state := NewGenerationState()
	// Cross-location commitment seeded before the run.
	state.SeedWorkerCommitment("w1", testWeekStart)

	warnings := processRecurring(env, state, []models.RecurringShiftAssignment{
		recurringFor("r1", "w1", tmpl, models.Monday, models.AssignmentRegular),
	})

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "already committed")
	assert.Empty(t, state.Shifts())
}

func TestProcessRecurring_UnknownWorker(t *testing.T) {
	tmpl := weekdayTemplate("t1", "barista", "09:00", "17:00")
	env := newTestEnv(nil, []*models.ShiftTemplate{tmpl}, nil)
	state := NewGenerationState()

	warnings := processRecurring(env, state, []models.RecurringShiftAssignment{
		recurringFor("r1", "ghost", tmpl, models.Monday, models.AssignmentRegular),
	})

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "inactive or not schedulable")
}

func TestProcessRecurring_LeadTemplateNeedsLeadWorker(t *testing.T) {
	tmpl := weekdayTemplate("t1", "barista", "09:00", "17:00")
	tmpl.LeadDesignation = models.LeadOpening
	alice := allDayWorker("w1", "Alice", "barista") // not lead-capable
	env := newTestEnv([]*models.Worker{alice}, []*models.ShiftTemplate{tmpl}, nil)
	state := NewGenerationState()

	warnings := processRecurring(env, state, []models.RecurringShiftAssignment{
		recurringFor("r1", "w1", tmpl, models.Monday, models.AssignmentLead),
	})

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "lead-capable")
	assert.Empty(t, state.Shifts())
}

func TestProcessRecurring_PairedPreferenceFillsBothHalves(t *testing.T) {
	prep := weekdayTemplate("p1", "prep", "09:30", "12:00")
	prep.PairTag = "prep-half"
	counter := weekdayTemplate("p2", "barista", "12:00", "17:00")
	counter.PairTag = "counter-half"
	rule := config.PairingRule{LocationID: testLocation, FirstTag: "prep-half", SecondTag: "counter-half"}

	alice := allDayWorker("w1", "Alice", "prep", "barista")
	env := newTestEnv([]*models.Worker{alice}, []*models.ShiftTemplate{prep, counter}, []config.PairingRule{rule})
	state := NewGenerationState()

	// Alice holds a preference for the prep half only.
	warnings := processRecurring(env, state, []models.RecurringShiftAssignment{
		recurringFor("r1", "w1", prep, models.Monday, models.AssignmentRegular),
	})

	assert.Empty(t, warnings)
	require.Len(t, state.Shifts(), 2, "both halves must materialize together")
	require.Len(t, state.Assignments(), 2)
	assert.Equal(t, "w1", state.Assignments()[0].WorkerID)
	assert.Equal(t, "w1", state.Assignments()[1].WorkerID)
	assert.True(t, state.IsTemplateSlotFilled("p1", testWeekStart))
	assert.True(t, state.IsTemplateSlotFilled("p2", testWeekStart))
}

func TestProcessRecurring_ConsumesPartnerPreference(t *testing.T) {
	prep := weekdayTemplate("p1", "prep", "09:30", "12:00")
	prep.PairTag = "prep-half"
	counter := weekdayTemplate("p2", "barista", "12:00", "17:00")
	counter.PairTag = "counter-half"
	rule := config.PairingRule{LocationID: testLocation, FirstTag: "prep-half", SecondTag: "counter-half"}

	alice := allDayWorker("w1", "Alice", "prep", "barista")
	env := newTestEnv([]*models.Worker{alice}, []*models.ShiftTemplate{prep, counter}, []config.PairingRule{rule})
	state := NewGenerationState()

	warnings := processRecurring(env, state, []models.RecurringShiftAssignment{
		recurringFor("r1", "w1", prep, models.Monday, models.AssignmentRegular),
		recurringFor("r2", "w1", counter, models.Monday, models.AssignmentRegular),
	})

	// The partner preference is consumed by the pair, not double-processed
	// and not warned about.
	assert.Empty(t, warnings)
	assert.Len(t, state.Shifts(), 2)
	assert.Len(t, state.Assignments(), 2)
}

func TestProcessRecurring_PartnerPreferenceOtherWeekdaySurvives(t *testing.T) {
	prep := weekdayTemplate("p1", "prep", "09:30", "12:00")
	prep.PairTag = "prep-half"
	counter := weekdayTemplate("p2", "barista", "12:00", "17:00")
	counter.PairTag = "counter-half"
	rule := config.PairingRule{LocationID: testLocation, FirstTag: "prep-half", SecondTag: "counter-half"}

	alice := allDayWorker("w1", "Alice", "prep", "barista")
	bob := allDayWorker("w2", "Bob", "prep", "barista")
	env := newTestEnv([]*models.Worker{alice, bob}, []*models.ShiftTemplate{prep, counter}, []config.PairingRule{rule})
	state := NewGenerationState()

	warnings := processRecurring(env, state, []models.RecurringShiftAssignment{
		recurringFor("r1", "w1", prep, models.Monday, models.AssignmentRegular),
		// Bob's Tuesday counter preference is a different slot and must be
		// processed on its own.
		recurringFor("r2", "w2", counter, models.Tuesday, models.AssignmentRegular),
	})

	assert.Empty(t, warnings)
	assert.Len(t, state.Shifts(), 4, "Monday pair plus Bob's Tuesday pair")
	byWorker := assignmentsByWorker(state)
	assert.Equal(t, 2, byWorker["w1"])
	assert.Equal(t, 2, byWorker["w2"])
}

func TestProcessRecurring_SlotAlreadyFilled(t *testing.T) {
	tmpl := weekdayTemplate("t1", "barista", "09:00", "17:00")
	alice := allDayWorker("w1", "Alice", "barista")
	bob := allDayWorker("w2", "Bob", "barista")
	env := newTestEnv([]*models.Worker{alice, bob}, []*models.ShiftTemplate{tmpl}, nil)
	state := NewGenerationState()

	warnings := processRecurring(env, state, []models.RecurringShiftAssignment{
		recurringFor("r1", "w1", tmpl, models.Monday, models.AssignmentRegular),
		recurringFor("r2", "w2", tmpl, models.Monday, models.AssignmentRegular),
	})

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "already filled")
	assert.Len(t, state.Assignments(), 1)
	assert.Equal(t, "w1", state.Assignments()[0].WorkerID, "first preference in input order wins")
}

func TestProcessRecurring_TrainingRidesFilledSlot(t *testing.T) {
	tmpl := weekdayTemplate("t1", "barista", "09:00", "17:00")
	alice := allDayWorker("w1", "Alice", "barista")
	bob := allDayWorker("w2", "Bob", "barista")
	env := newTestEnv([]*models.Worker{alice, bob}, []*models.ShiftTemplate{tmpl}, nil)
	state := NewGenerationState()

	warnings := processRecurring(env, state, []models.RecurringShiftAssignment{
		recurringFor("r1", "w1", tmpl, models.Monday, models.AssignmentRegular),
		recurringFor("r2", "w2", tmpl, models.Monday, models.AssignmentTraining),
	})

	assert.Empty(t, warnings)
	assert.Len(t, state.Shifts(), 1, "trainee shares the primary's shift")
	assert.Len(t, state.Assignments(), 2)
	assert.Equal(t, models.AssignmentTraining, state.Assignments()[1].Type)
}

func TestProcessRecurring_UnknownWeekday(t *testing.T) {
	tmpl := weekdayTemplate("t1", "barista", "09:00", "17:00")
	alice := allDayWorker("w1", "Alice", "barista")
	env := newTestEnv([]*models.Worker{alice}, []*models.ShiftTemplate{tmpl}, nil)
	state := NewGenerationState()

	rec := recurringFor("r1", "w1", tmpl, models.Weekday("funday"), models.AssignmentRegular)
	warnings := processRecurring(env, state, []models.RecurringShiftAssignment{rec})

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "unknown weekday")
}
