package engine

import (
	"fmt"

	"github.com/arnavshah/rostergen-go/pkg/models"
)

// processRecurring materializes standing weekly preferences into concrete
// shifts and assignments, in input order. A preference whose matched
// template is half of a configured pair pulls in the partner half for the
// same worker and date in one step, consuming any separate preference for
// that partner so it is not processed twice. Every reject path appends a
// warning and moves on.
func processRecurring(env *phaseEnv, state *GenerationState, recs []models.RecurringShiftAssignment) []string {
	var warnings []string
	consumed := make(map[string]bool)

	for i := range recs {
		rec := &recs[i]
		if consumed[rec.ID] {
			continue
		}
		if rec.Weekday.Index() < 0 {
			warnings = append(warnings, fmt.Sprintf("recurring assignment for worker %s skipped: unknown weekday %q", rec.WorkerID, rec.Weekday))
			continue
		}
		date := DateForWeekday(env.WeekStart, rec.Weekday)

		worker, ok := env.Workers[rec.WorkerID]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("recurring assignment for worker %s on %s skipped: worker is inactive or not schedulable at this location", rec.WorkerID, dateKey(date)))
			continue
		}
		if state.IsWorkerAssignedOnDate(worker.ID, date) {
			warnings = append(warnings, fmt.Sprintf("conflicting recurring assignments: %s is already committed on %s", worker.Name, dateKey(date)))
			continue
		}

		tmpl := env.matchTemplate(rec)
		if tmpl == nil {
			warnings = append(warnings, fmt.Sprintf("no matching template for recurring assignment (worker %s, %s %s-%s, position %s)", worker.Name, rec.Weekday, rec.StartTime, rec.EndTime, rec.Position))
			continue
		}
		if tmpl.LeadDesignation.RequiresLead() && !worker.IsLead {
			warnings = append(warnings, fmt.Sprintf("recurring assignment for %s on %s skipped: template requires a lead-capable worker", worker.Name, dateKey(date)))
			continue
		}

		// Paired template: materialize both halves together. Training
		// preferences ride along on a primary, so they never drive a pair.
		if rec.Type != models.AssignmentTraining {
			if rule, ok := env.pairingFor(tmpl.PairTag); ok {
				if partner := env.partnerTemplate(rule, tmpl, rec.Weekday); partner != nil {
					if !worker.QualifiedFor(partner.Position) {
						warnings = append(warnings, fmt.Sprintf("recurring assignment for %s on %s skipped: not qualified for paired position %s", worker.Name, dateKey(date), partner.Position))
						continue
					}
					if state.IsTemplateSlotFilled(partner.ID, date) {
						warnings = append(warnings, fmt.Sprintf("recurring assignment for %s on %s skipped: paired slot %s is already filled", worker.Name, dateKey(date), partner.Position))
						continue
					}
					first := newShift(tmpl, date, true)
					second := newShift(partner, date, true)
					err := state.AddPairedAssignments(
						first, newAssignment(first.ID, worker.ID, rec.Type),
						second, newAssignment(second.ID, worker.ID, primaryType(partner)),
					)
					if err != nil {
						warnings = append(warnings, fmt.Sprintf("recurring assignment for %s on %s skipped: %v", worker.Name, dateKey(date), err))
						continue
					}
					for j := range recs {
						if recs[j].ID != rec.ID && recs[j].Weekday == rec.Weekday && matchesTemplate(&recs[j], partner) {
							consumed[recs[j].ID] = true
						}
					}
					continue
				}
			}
		}

		if rec.Type != models.AssignmentTraining && state.IsTemplateSlotFilled(tmpl.ID, date) {
			warnings = append(warnings, fmt.Sprintf("recurring assignment for %s on %s skipped: slot is already filled", worker.Name, dateKey(date)))
			continue
		}

		// The shift copies the template's own times, not the preference's,
		// so template edits win over stale standing preferences.
		shift := newShift(tmpl, date, true)
		if err := state.AddAssignment(shift, newAssignment(shift.ID, worker.ID, rec.Type)); err != nil {
			warnings = append(warnings, fmt.Sprintf("recurring assignment for %s on %s skipped: %v", worker.Name, dateKey(date), err))
		}
	}
	return warnings
}

// matchesTemplate reports whether a recurring preference targets the given
// template's slot on the template's location.
func matchesTemplate(rec *models.RecurringShiftAssignment, tmpl *models.ShiftTemplate) bool {
	return rec.LocationID == tmpl.LocationID &&
		rec.Position == tmpl.Position &&
		tmpl.AppliesOn(rec.Weekday) &&
		rec.StartTime == tmpl.StartTime &&
		rec.EndTime == tmpl.EndTime
}
