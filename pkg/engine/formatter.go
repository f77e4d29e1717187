package engine

import (
	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

// Format assembles the final result from whichever upstream stage produced
// the outcome. Pure assembly: no decision logic beyond selecting the variant.
func Format(gate GateResult, category models.Category, res Resolution) *models.RecommendationResult {
	out := &models.RecommendationResult{
		Alternatives: []models.Recommendation{},
		Checks:       []string{},
		Escalation:   []string{},
		Consider:     []string{},
		Metadata: models.ResultMetadata{
			LogicVersion: models.LogicVersion,
			BasedOn:      models.BasedOn,
		},
	}

	switch gate.Status {
	case GateNotEligible:
		// Terminal: no category, no guidance of any kind.
		out.Status = models.StatusNotEligible
		out.Category = models.CategoryUnclear
		out.Primary = models.Recommendation{
			Class:     models.ClassReferral,
			Rationale: []string{"This signposting pathway applies to adult men only."},
		}

	case GateEscalate:
		out.Status = models.StatusOK
		out.Category = category
		out.Primary = models.Recommendation{
			Class:     models.ClassEscalate,
			Rationale: []string{"One or more red flags are present; escalation overrides all other guidance."},
		}
		out.Escalation = append(out.Escalation, gate.Escalations...)

	case GatePass:
		out.Status = models.StatusOK
		out.Category = category
		out.Primary = res.Primary
		if len(res.Alternatives) > 0 {
			out.Alternatives = append(out.Alternatives, res.Alternatives...)
		}
		if len(res.Checks) > 0 {
			out.Checks = append(out.Checks, res.Checks...)
		}
		if len(res.Consider) > 0 {
			out.Consider = append(out.Consider, res.Consider...)
		}
	}

	if out.Primary.Rationale == nil {
		out.Primary.Rationale = []string{}
	}
	return out
}
