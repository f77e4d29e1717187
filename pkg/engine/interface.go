package engine

import (
	"github.com/danrwr-web/signposting-sub009/pkg/config"
	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

// Evaluator defines the interface for producing a signposting recommendation
// from a patient context and a tenant's local configuration.
//
// Implementations must be pure: no I/O, no shared mutable state, identical
// output for identical input and config. Callers may invoke Evaluate
// concurrently as long as the config value is not mutated in place.
type Evaluator interface {
	// Evaluate runs the full pipeline: gate, classify, resolve, format.
	Evaluate(input *models.PatientContext, cfg *config.TenantConfig) *models.RecommendationResult
}
