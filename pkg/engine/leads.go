package engine

import (
	"fmt"

	"github.com/arnavshah/rostergen-go/pkg/models"
)

// processLeads fills the unfilled instances whose template carries an
// opening or closing lead designation, selecting only lead-capable workers.
// Runs after the recurring and paired phases so standing preferences keep
// their slots.
func processLeads(env *phaseEnv, state *GenerationState) []string {
	var warnings []string
	for _, inst := range state.UnfilledTemplateInstances(env.Templates, env.WeekDates) {
		if !inst.Template.LeadDesignation.RequiresLead() || env.isPaired(inst.Template) {
			continue
		}
		if !fillInstance(env, state, inst, true) {
			warnings = append(warnings, fmt.Sprintf("no lead-capable worker available for %s %s shift (%s) on %s",
				inst.Template.Position, inst.Template.LeadDesignation, inst.Template.StartTime, dateKey(inst.Date)))
		}
	}
	return warnings
}

// fillInstance commits one unfilled slot to the best eligible worker, or
// reports false when nobody fits. Among eligible workers it prefers the one
// with the fewest hours committed so far; ties keep the stable scan order,
// so identical inputs always produce identical schedules.
func fillInstance(env *phaseEnv, state *GenerationState, inst TemplateInstance, needLead bool) bool {
	day := models.WeekdayOf(inst.Date)

	var best *models.Worker
	bestHours := 0.0
	for _, w := range env.Ordered {
		if needLead && !w.IsLead {
			continue
		}
		if !w.QualifiedFor(inst.Template.Position) {
			continue
		}
		if state.IsWorkerAssignedOnDate(w.ID, inst.Date) {
			continue
		}
		if !env.availableFor(w, day, inst.Template.StartTime, inst.Template.EndTime) {
			continue
		}
		h := state.WorkerHours(w.ID)
		if best == nil || h < bestHours {
			best = w
			bestHours = h
		}
	}
	if best == nil {
		return false
	}

	shift := newShift(inst.Template, inst.Date, false)
	if err := state.AddAssignment(shift, newAssignment(shift.ID, best.ID, primaryType(inst.Template))); err != nil {
		return false
	}
	return true
}
