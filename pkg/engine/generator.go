// Package engine generates a week of shift assignments for one location.
//
// A run is a fixed pipeline: load prerequisites, filter the worker pool,
// seed a GenerationState with cross-location conflicts, then fill slots in
// four phases (recurring, paired, leads, dynamic) before persisting. Phases
// never overwrite each other's work; every per-slot failure becomes a
// warning and the run continues.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/arnavshah/rostergen-go/pkg/config"
	"github.com/arnavshah/rostergen-go/pkg/models"
)

// Store supplies generation prerequisites and persists the result.
type Store interface {
	LoadWorkers(ctx context.Context) ([]models.Worker, error)
	LoadTemplates(ctx context.Context, locationID string) ([]models.ShiftTemplate, error)
	LoadRecurring(ctx context.Context, locationID string) ([]models.RecurringShiftAssignment, error)
	LoadAllRecurring(ctx context.Context, workerIDs []string) ([]models.RecurringShiftAssignment, error)
	LoadOperatingHours(ctx context.Context, locationID string) ([]models.OperatingHours, error)
	// LoadWeekShifts returns existing commitments for the workers in the
	// target week across all locations, excluding the location being
	// regenerated so a rerun does not conflict with its own prior output.
	LoadWeekShifts(ctx context.Context, workerIDs []string, weekStart time.Time, excludeLocationID string) ([]models.ExistingShift, error)
	SaveSchedule(ctx context.Context, locationID string, weekStart time.Time, shifts []models.ScheduledShift, assignments []models.ShiftAssignment) error
}

// Generator runs the weekly generation pipeline. Each call owns an
// independent GenerationState, so generators are safe for concurrent use
// across locations and weeks.
type Generator struct {
	store    Store
	settings *config.Settings
}

// New creates a generator backed by the given store and settings.
func New(store Store, settings *config.Settings) *Generator {
	if settings == nil {
		settings = config.Default()
	}
	return &Generator{store: store, settings: settings}
}

// phaseEnv is the read-only context every phase works against.
type phaseEnv struct {
	LocationID    string
	WeekStart     time.Time
	WeekDates     []time.Time
	Workers       map[string]*models.Worker
	Ordered       []*models.Worker // deterministic scan order
	Templates     []*models.ShiftTemplate
	Cutoffs       map[models.Weekday]string
	DefaultCutoff string
	Pairings      []config.PairingRule
}

func (env *phaseEnv) cutoffFor(day models.Weekday) string {
	if c, ok := env.Cutoffs[day]; ok && c != "" {
		return c
	}
	return env.DefaultCutoff
}

func (env *phaseEnv) pairingFor(tag string) (config.PairingRule, bool) {
	for _, r := range env.Pairings {
		if r.Matches(tag) {
			return r, true
		}
	}
	return config.PairingRule{}, false
}

func (env *phaseEnv) isPaired(tmpl *models.ShiftTemplate) bool {
	_, ok := env.pairingFor(tmpl.PairTag)
	return ok
}

// partnerTemplate finds the other half of a pair: the template carrying the
// rule's partner tag that also applies on the given weekday.
func (env *phaseEnv) partnerTemplate(rule config.PairingRule, tmpl *models.ShiftTemplate, day models.Weekday) *models.ShiftTemplate {
	partnerTag, ok := rule.PartnerTag(tmpl.PairTag)
	if !ok {
		return nil
	}
	for _, t := range env.Templates {
		if t.ID != tmpl.ID && t.PairTag == partnerTag && t.AppliesOn(day) {
			return t
		}
	}
	return nil
}

// matchTemplate resolves a recurring preference to the unique template with
// identical location, position, weekday membership, times, and lead status.
func (env *phaseEnv) matchTemplate(rec *models.RecurringShiftAssignment) *models.ShiftTemplate {
	for _, t := range env.Templates {
		if t.LocationID == rec.LocationID &&
			t.Position == rec.Position &&
			t.AppliesOn(rec.Weekday) &&
			t.StartTime == rec.StartTime &&
			t.EndTime == rec.EndTime &&
			t.LeadDesignation.RequiresLead() == (rec.Type == models.AssignmentLead) {
			return t
		}
	}
	return nil
}

// availableFor checks a worker's weekly availability profile against a clock
// window on a weekday.
func (env *phaseEnv) availableFor(w *models.Worker, day models.Weekday, start, end string) bool {
	return AvailabilityCovers(w.AvailabilityOn(day), env.cutoffFor(day), start, end)
}

func newShift(tmpl *models.ShiftTemplate, date time.Time, recurring bool) models.ScheduledShift {
	return models.ScheduledShift{
		ID:                   uuid.New().String(),
		Date:                 date,
		TemplateID:           tmpl.ID,
		LocationID:           tmpl.LocationID,
		Position:             tmpl.Position,
		StartTime:            tmpl.StartTime,
		EndTime:              tmpl.EndTime,
		IsRecurringGenerated: recurring,
	}
}

func newAssignment(shiftID, workerID string, typ models.AssignmentType) models.ShiftAssignment {
	return models.ShiftAssignment{
		ID:       uuid.New().String(),
		ShiftID:  shiftID,
		WorkerID: workerID,
		Type:     typ,
	}
}

// primaryType is the assignment type a template's primary slot takes when
// filled outside the recurring phase.
func primaryType(tmpl *models.ShiftTemplate) models.AssignmentType {
	if tmpl.LeadDesignation.RequiresLead() {
		return models.AssignmentLead
	}
	return models.AssignmentRegular
}

// GenerateWeeklySchedule produces and persists the schedule for one location
// and the week starting at weekStart (a Monday). excludeWorkerID, when
// non-empty, removes that worker from the pool for this run.
//
// A non-nil error is fatal (prerequisites or persistence); everything else
// is reported through the result's warnings. Partial coverage is a normal
// outcome: Success is true even when templates remain unassigned.
func (g *Generator) GenerateWeeklySchedule(ctx context.Context, locationID string, weekStart time.Time, excludeWorkerID string) (*models.GenerateResult, error) {
	res := &models.GenerateResult{Warnings: []string{}}

	templates, err := g.store.LoadTemplates(ctx, locationID)
	if err != nil {
		return res, fmt.Errorf("load shift templates: %w", err)
	}
	if len(templates) == 0 {
		return res, fmt.Errorf("no shift templates configured for location %s", locationID)
	}

	allWorkers, err := g.store.LoadWorkers(ctx)
	if err != nil {
		return res, fmt.Errorf("load workers: %w", err)
	}

	workers := make(map[string]*models.Worker)
	var ordered []*models.Worker
	var workerIDs []string
	for i := range allWorkers {
		w := &allWorkers[i]
		if w.Inactive || w.IsManager || !w.AssignedTo(locationID) || w.ID == excludeWorkerID {
			continue
		}
		workers[w.ID] = w
		ordered = append(ordered, w)
		workerIDs = append(workerIDs, w.ID)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Name != ordered[j].Name {
			return ordered[i].Name < ordered[j].Name
		}
		return ordered[i].ID < ordered[j].ID
	})

	recurring, err := g.store.LoadRecurring(ctx, locationID)
	if err != nil {
		return res, fmt.Errorf("load recurring assignments: %w", err)
	}
	allRecurring, err := g.store.LoadAllRecurring(ctx, workerIDs)
	if err != nil {
		return res, fmt.Errorf("load cross-location recurring assignments: %w", err)
	}
	hours, err := g.store.LoadOperatingHours(ctx, locationID)
	if err != nil {
		return res, fmt.Errorf("load operating hours: %w", err)
	}
	existing, err := g.store.LoadWeekShifts(ctx, workerIDs, weekStart, locationID)
	if err != nil {
		return res, fmt.Errorf("load existing shifts: %w", err)
	}

	cutoffs := make(map[models.Weekday]string, len(hours))
	for _, h := range hours {
		cutoffs[h.Weekday] = h.MorningCutoff
	}

	tmplPtrs := make([]*models.ShiftTemplate, len(templates))
	for i := range templates {
		tmplPtrs[i] = &templates[i]
	}

	env := &phaseEnv{
		LocationID:    locationID,
		WeekStart:     weekStart,
		WeekDates:     WeekDates(weekStart),
		Workers:       workers,
		Ordered:       ordered,
		Templates:     tmplPtrs,
		Cutoffs:       cutoffs,
		DefaultCutoff: g.settings.DefaultMorningCutoff,
		Pairings:      g.settings.PairingsFor(locationID),
	}

	state := NewGenerationState()
	for _, ex := range existing {
		state.SeedWorkerCommitment(ex.WorkerID, ex.Date)
	}
	for _, rec := range allRecurring {
		if rec.LocationID == locationID || rec.Weekday.Index() < 0 {
			continue
		}
		if _, ok := workers[rec.WorkerID]; ok {
			state.SeedWorkerCommitment(rec.WorkerID, DateForWeekday(weekStart, rec.Weekday))
		}
	}

	res.Warnings = append(res.Warnings, processRecurring(env, state, recurring)...)
	if len(env.Pairings) > 0 {
		res.Warnings = append(res.Warnings, processPaired(env, state)...)
	}
	res.Warnings = append(res.Warnings, processLeads(env, state)...)
	res.Warnings = append(res.Warnings, processDynamic(env, state)...)

	shifts := state.Shifts()
	assignments := state.Assignments()
	if err := g.store.SaveSchedule(ctx, locationID, weekStart, shifts, assignments); err != nil {
		return res, fmt.Errorf("persist schedule: %w", err)
	}

	res.Success = true
	res.Shifts = shifts
	res.Assignments = assignments
	for _, t := range templates {
		if !state.TemplateFilled(t.ID) {
			res.UnassignedTemplates = append(res.UnassignedTemplates, t)
		}
	}
	return res, nil
}
