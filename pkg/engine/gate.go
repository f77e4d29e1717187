package engine

import (
	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

// GateStatus is the outcome of the eligibility and red-flag gate.
type GateStatus int

const (
	// GatePass means the patient is eligible and no red flag fired.
	GatePass GateStatus = iota
	// GateNotEligible means the pathway does not apply at all. Terminal.
	GateNotEligible
	// GateEscalate means one or more red flags fired.
	GateEscalate
)

// GateResult carries the gate outcome plus, for GateEscalate, one escalation
// message per fired red flag in declaration order.
type GateResult struct {
	Status      GateStatus
	Escalations []string
}

// redFlag is a named urgent condition with its escalation instruction.
type redFlag struct {
	name    string
	present func(*models.PatientContext) bool
	message string
}

// redFlags is the fixed red-flag set. Declaration order determines the order
// of escalation messages in the result; it is not configurable.
var redFlags = []redFlag{
	{
		name:    "visible_haematuria",
		present: func(c *models.PatientContext) bool { return c.VisibleHaematuria },
		message: "Visible haematuria: refer urgently on the suspected-cancer pathway.",
	},
	{
		name:    "suspected_retention",
		present: func(c *models.PatientContext) bool { return c.SuspectedRetention },
		message: "Suspected urinary retention (palpable bladder): arrange same-day urology assessment.",
	},
	{
		name:    "abnormal_prostate_exam",
		present: func(c *models.PatientContext) bool { return c.AbnormalProstateExam },
		message: "Abnormal prostate examination or raised age-specific PSA: refer on the suspected-cancer pathway.",
	},
	{
		name:    "recurrent_uti",
		present: func(c *models.PatientContext) bool { return c.RecurrentUTI },
		message: "Recurrent urinary tract infection: refer to urology for investigation.",
	},
	{
		name:    "neurological_symptoms",
		present: func(c *models.PatientContext) bool { return c.NeurologicalSymptoms },
		message: "New neurological symptoms with urinary disturbance: urgent neurology or urology review.",
	},
}

// EvaluateGate checks eligibility first, then every red-flag predicate.
// Ineligibility bypasses red-flag evaluation entirely. Red flags are not
// short-circuited: every fired flag contributes its escalation message.
func EvaluateGate(input *models.PatientContext) GateResult {
	if !input.AdultMale {
		return GateResult{Status: GateNotEligible}
	}

	var escalations []string
	for _, flag := range redFlags {
		if flag.present(input) {
			escalations = append(escalations, flag.message)
		}
	}
	if len(escalations) > 0 {
		return GateResult{Status: GateEscalate, Escalations: escalations}
	}
	return GateResult{Status: GatePass}
}

// RedFlagNames returns the fixed red-flag identifiers in declaration order.
// Used by introspection commands, never by the decision path.
func RedFlagNames() []string {
	names := make([]string, 0, len(redFlags))
	for _, flag := range redFlags {
		names = append(names, flag.name)
	}
	return names
}
