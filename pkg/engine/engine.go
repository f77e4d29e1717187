// Package engine implements the deterministic signposting recommendation
// pipeline for lower urinary tract symptoms in adult men.
//
// The pipeline is strictly linear and synchronous:
//
//	normalize -> gate -> classify -> resolve -> format
//
// Ineligibility terminates before classification. Red flags terminate after
// the gate with an escalate result. Every possible input produces a defined
// result; there are no error returns on the evaluation path.
package engine

import (
	"github.com/danrwr-web/signposting-sub009/pkg/config"
	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

// Engine is the default Evaluator. It carries no state beyond construction
// and is safe for concurrent use.
type Engine struct{}

// New creates a new signposting engine.
func New() *Engine {
	return &Engine{}
}

// Evaluate runs the full pipeline for one patient context against one
// tenant's local configuration. The input is read only; a nil config is
// treated as the built-in default tenant.
func (e *Engine) Evaluate(input *models.PatientContext, cfg *config.TenantConfig) *models.RecommendationResult {
	if cfg == nil {
		cfg = config.DefaultTenantConfig()
	}
	in := normalize(input)

	gate := EvaluateGate(&in)
	if gate.Status == GateNotEligible {
		return Format(gate, models.CategoryUnclear, Resolution{})
	}

	category := Classify(&in)
	if gate.Status == GateEscalate {
		return Format(gate, category, Resolution{})
	}

	res := Resolve(category, &in, cfg)
	return Format(gate, category, res)
}

// normalize returns a canonical copy of the input. The type system already
// guarantees field shapes; the only canonicalisation needed is zeroing the
// score of an unassessed severity so identical clinical states are
// bit-for-bit identical inputs.
func normalize(input *models.PatientContext) models.PatientContext {
	in := *input
	if !in.Severity.Assessed {
		in.Severity = models.SeverityUnassessed()
	}
	return in
}
