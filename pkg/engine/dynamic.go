package engine

import (
	"fmt"
)

// processDynamic fills whatever ordinary slots remain after the recurring,
// paired, and lead phases, from the full eligible pool. Pair-configured
// templates are skipped: a pair half left open by the paired phase stays
// open rather than being staffed alone, and surfaces through the
// unassigned-template report instead.
func processDynamic(env *phaseEnv, state *GenerationState) []string {
	var warnings []string
	for _, inst := range state.UnfilledTemplateInstances(env.Templates, env.WeekDates) {
		if inst.Template.LeadDesignation.RequiresLead() || env.isPaired(inst.Template) {
			continue
		}
		if !fillInstance(env, state, inst, false) {
			warnings = append(warnings, fmt.Sprintf("no worker available for %s shift (%s-%s) on %s",
				inst.Template.Position, inst.Template.StartTime, inst.Template.EndTime, dateKey(inst.Date)))
		}
	}
	return warnings
}
