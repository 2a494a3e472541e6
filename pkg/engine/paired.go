package engine

import (
	"fmt"
	"time"

	"github.com/arnavshah/rostergen-go/pkg/models"
)

// processPaired fills the remaining instances of pair-configured templates.
// For each date both halves are open, it looks for one worker who can cover
// both windows and commits the two halves atomically. Slots it cannot fill
// stay open and are reported; the later phases leave paired templates alone
// so a half is never staffed on its own.
func processPaired(env *phaseEnv, state *GenerationState) []string {
	var warnings []string

	for _, rule := range env.Pairings {
		for _, first := range env.Templates {
			if first.PairTag != rule.FirstTag {
				continue
			}
			warnedNoPartner := false
			for _, date := range env.WeekDates {
				day := models.WeekdayOf(date)
				if !first.AppliesOn(day) || state.IsTemplateSlotFilled(first.ID, date) {
					continue
				}
				second := env.partnerTemplate(rule, first, day)
				if second == nil {
					if !warnedNoPartner {
						warnings = append(warnings, fmt.Sprintf("paired template %s has no partner tagged %q", first.Position, rule.SecondTag))
						warnedNoPartner = true
					}
					continue
				}
				if state.IsTemplateSlotFilled(second.ID, date) {
					continue
				}

				worker := pickPairWorker(env, state, first, second, date)
				if worker == nil {
					warnings = append(warnings, fmt.Sprintf("no worker available for paired shifts %s/%s on %s", first.Position, second.Position, dateKey(date)))
					continue
				}

				s1 := newShift(first, date, false)
				s2 := newShift(second, date, false)
				err := state.AddPairedAssignments(
					s1, newAssignment(s1.ID, worker.ID, primaryType(first)),
					s2, newAssignment(s2.ID, worker.ID, primaryType(second)),
				)
				if err != nil {
					warnings = append(warnings, fmt.Sprintf("paired shifts %s/%s on %s skipped: %v", first.Position, second.Position, dateKey(date), err))
				}
			}
		}
	}
	return warnings
}

// pickPairWorker scans the deterministic worker order for the first worker
// qualified for both positions, lead-capable where either half demands it,
// available for both windows, and free on the date.
func pickPairWorker(env *phaseEnv, state *GenerationState, first, second *models.ShiftTemplate, date time.Time) *models.Worker {
	day := models.WeekdayOf(date)
	for _, w := range env.Ordered {
		if state.IsWorkerAssignedOnDate(w.ID, date) {
			continue
		}
		if !w.QualifiedFor(first.Position) || !w.QualifiedFor(second.Position) {
			continue
		}
		if (first.LeadDesignation.RequiresLead() || second.LeadDesignation.RequiresLead()) && !w.IsLead {
			continue
		}
		if !env.availableFor(w, day, first.StartTime, first.EndTime) ||
			!env.availableFor(w, day, second.StartTime, second.EndTime) {
			continue
		}
		return w
	}
	return nil
}
