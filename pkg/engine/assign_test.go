package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/rostergen-go/pkg/config"
	"github.com/arnavshah/rostergen-go/pkg/models"
)

func TestProcessLeads_OnlyLeadCapableWorkers(t *testing.T) {
	opening := weekdayTemplate("t1", "barista", "08:00", "12:00", models.Monday)
	opening.LeadDesignation = models.LeadOpening

	alice := allDayWorker("w1", "Alice", "barista")
	lena := allDayWorker("w2", "Lena", "barista")
	lena.IsLead = true
	env := newTestEnv([]*models.Worker{alice, lena}, []*models.ShiftTemplate{opening}, nil)
	state := NewGenerationState()

	warnings := processLeads(env, state)

	assert.Empty(t, warnings)
	require.Len(t, state.Assignments(), 1)
	assert.Equal(t, "w2", state.Assignments()[0].WorkerID)
	assert.Equal(t, models.AssignmentLead, state.Assignments()[0].Type)
}

func TestProcessLeads_NoCandidateLeavesSlotUnfilled(t *testing.T) {
	closing := weekdayTemplate("t1", "barista", "13:00", "21:00", models.Monday)
	closing.LeadDesignation = models.LeadClosing

	alice := allDayWorker("w1", "Alice", "barista") // not lead-capable
	env := newTestEnv([]*models.Worker{alice}, []*models.ShiftTemplate{closing}, nil)
	state := NewGenerationState()

	warnings := processLeads(env, state)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no lead-capable worker")
	assert.False(t, state.IsTemplateSlotFilled("t1", testWeekStart))
	assert.False(t, state.TemplateFilled("t1"))
}

func TestProcessLeads_IgnoresOrdinaryTemplates(t *testing.T) {
	plain := weekdayTemplate("t1", "barista", "09:00", "17:00", models.Monday)
	lena := allDayWorker("w1", "Lena", "barista")
	lena.IsLead = true
	env := newTestEnv([]*models.Worker{lena}, []*models.ShiftTemplate{plain}, nil)
	state := NewGenerationState()

	warnings := processLeads(env, state)

	assert.Empty(t, warnings)
	assert.Empty(t, state.Assignments(), "non-lead templates belong to the dynamic phase")
}

func TestProcessDynamic_FillsRemainingSlots(t *testing.T) {
	tmpl := weekdayTemplate("t1", "barista", "09:00", "17:00", models.Monday, models.Tuesday)
	alice := allDayWorker("w1", "Alice", "barista")
	bob := allDayWorker("w2", "Bob", "barista")
	env := newTestEnv([]*models.Worker{alice, bob}, []*models.ShiftTemplate{tmpl}, nil)
	state := NewGenerationState()

	warnings := processDynamic(env, state)

	assert.Empty(t, warnings)
	assert.Len(t, state.Assignments(), 2)
	assert.True(t, state.IsTemplateSlotFilled("t1", testWeekStart))
	assert.True(t, state.IsTemplateSlotFilled("t1", testWeekStart.AddDate(0, 0, 1)))
}

func TestProcessDynamic_BalancesHours(t *testing.T) {
	t1 := weekdayTemplate("t1", "barista", "09:00", "17:00", models.Monday)
	t2 := weekdayTemplate("t2", "barista", "09:00", "17:00", models.Tuesday)
	alice := allDayWorker("w1", "Alice", "barista")
	bob := allDayWorker("w2", "Bob", "barista")
	env := newTestEnv([]*models.Worker{alice, bob}, []*models.ShiftTemplate{t1, t2}, nil)
	state := NewGenerationState()

	warnings := processDynamic(env, state)

	assert.Empty(t, warnings)
	byWorker := assignmentsByWorker(state)
	assert.Equal(t, 1, byWorker["w1"])
	assert.Equal(t, 1, byWorker["w2"], "second slot goes to the worker with fewer hours")
}

func TestProcessDynamic_RespectsAvailability(t *testing.T) {
	tmpl := weekdayTemplate("t1", "barista", "13:00", "17:00", models.Monday)
	alice := allDayWorker("w1", "Alice", "barista")
	alice.Availability[models.Monday] = models.AvailabilityMorning
	bob := allDayWorker("w2", "Bob", "barista")
	bob.Availability[models.Monday] = models.AvailabilityAfternoon
	env := newTestEnv([]*models.Worker{alice, bob}, []*models.ShiftTemplate{tmpl}, nil)
	state := NewGenerationState()

	warnings := processDynamic(env, state)

	assert.Empty(t, warnings)
	require.Len(t, state.Assignments(), 1)
	assert.Equal(t, "w2", state.Assignments()[0].WorkerID)
}

func TestProcessDynamic_RespectsQualification(t *testing.T) {
	tmpl := weekdayTemplate("t1", "prep", "09:00", "12:00", models.Monday)
	alice := allDayWorker("w1", "Alice", "barista") // wrong position
	env := newTestEnv([]*models.Worker{alice}, []*models.ShiftTemplate{tmpl}, nil)
	state := NewGenerationState()

	warnings := processDynamic(env, state)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no worker available")
}

func TestProcessDynamic_DoesNotTouchRecurringFills(t *testing.T) {
	tmpl := weekdayTemplate("t1", "barista", "09:00", "17:00", models.Monday)
	alice := allDayWorker("w1", "Alice", "barista")
	bob := allDayWorker("w2", "Bob", "barista")
	env := newTestEnv([]*models.Worker{alice, bob}, []*models.ShiftTemplate{tmpl}, nil)
	state := NewGenerationState()

	// Bob took the slot in the recurring phase.
	warnings := processRecurring(env, state, []models.RecurringShiftAssignment{
		recurringFor("r1", "w2", tmpl, models.Monday, models.AssignmentRegular),
	})
	require.Empty(t, warnings)

	warnings = processDynamic(env, state)

	assert.Empty(t, warnings)
	assert.Len(t, state.Assignments(), 1, "filled slot must not be reassigned")
	assert.Equal(t, "w2", state.Assignments()[0].WorkerID)
}

func TestProcessDynamic_SkipsPairedTemplates(t *testing.T) {
	prep := weekdayTemplate("p1", "prep", "09:30", "12:00", models.Monday)
	prep.PairTag = "prep-half"
	counter := weekdayTemplate("p2", "barista", "12:00", "17:00", models.Monday)
	counter.PairTag = "counter-half"
	rule := config.PairingRule{LocationID: testLocation, FirstTag: "prep-half", SecondTag: "counter-half"}

	// Alice can only work the prep half, so the paired phase cannot place
	// her, and the dynamic phase must not staff the half alone.
	alice := allDayWorker("w1", "Alice", "prep")
	env := newTestEnv([]*models.Worker{alice}, []*models.ShiftTemplate{prep, counter}, []config.PairingRule{rule})
	state := NewGenerationState()

	pairWarnings := processPaired(env, state)
	require.Len(t, pairWarnings, 1)

	warnings := processDynamic(env, state)

	assert.Empty(t, warnings)
	assert.Empty(t, state.Assignments(), "pair halves are never staffed alone")
}

func TestProcessDynamic_SkipsLeadTemplates(t *testing.T) {
	opening := weekdayTemplate("t1", "barista", "08:00", "12:00", models.Monday)
	opening.LeadDesignation = models.LeadOpening
	alice := allDayWorker("w1", "Alice", "barista")
	env := newTestEnv([]*models.Worker{alice}, []*models.ShiftTemplate{opening}, nil)
	state := NewGenerationState()

	warnings := processDynamic(env, state)

	assert.Empty(t, warnings)
	assert.Empty(t, state.Assignments())
}
