package engine

import (
	"fmt"

	"github.com/danrwr-web/signposting-sub009/pkg/config"
	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

// Resolution is the resolver's output before formatting: the primary
// recommendation, ordered alternatives, follow-up checks, and any soft
// "consider" hints. Red-flag escalations never originate here.
type Resolution struct {
	Primary      models.Recommendation
	Alternatives []models.Recommendation
	Checks       []string
	Consider     []string
}

// resolveContext bundles the inputs every rule guard and producer sees.
type resolveContext struct {
	category models.Category
	input    *models.PatientContext
	cfg      *config.TenantConfig
}

// rule is one entry of the ordered rule list. The first rule whose guard
// holds produces the resolution; the list structure itself enforces the
// first-match-wins contract.
type rule struct {
	name    string
	guard   func(*resolveContext) bool
	produce func(*resolveContext) Resolution
}

// rules is the fixed, ordered rule list. Order is part of the clinical
// contract and is not configurable. The trailing fallback guard is always
// true, so resolution is total.
var rules = []rule{
	{
		name:    "conservative_first",
		guard:   guardConservativeFirst,
		produce: produceConservativeFirst,
	},
	{
		name:    "voiding_first_line",
		guard:   guardVoidingFirstLine,
		produce: produceVoidingFirstLine,
	},
	{
		name:    "voiding_second_line",
		guard:   guardVoidingSecondLine,
		produce: produceVoidingSecondLine,
	},
	{
		name:    "storage_first_line",
		guard:   guardStorageFirstLine,
		produce: produceStorageFirstLine,
	},
	{
		name:    "storage_second_line",
		guard:   guardStorageSecondLine,
		produce: produceStorageSecondLine,
	},
	{
		name:    "mixed_dominant",
		guard:   guardMixedDominant,
		produce: produceMixedDominant,
	},
	{
		name:    "optimize_and_review",
		guard:   func(*resolveContext) bool { return true },
		produce: produceFallback,
	},
}

// Resolve selects the first matching rule for a gated, classified context.
// Only invoked when the gate returned GatePass.
func Resolve(category models.Category, input *models.PatientContext, cfg *config.TenantConfig) Resolution {
	rctx := &resolveContext{category: category, input: input, cfg: cfg}
	for _, r := range rules {
		if r.guard(rctx) {
			return r.produce(rctx)
		}
	}
	// Unreachable: the trailing fallback guard is always true.
	return produceFallback(rctx)
}

// RuleNames returns the fixed rule identifiers in evaluation order. Used by
// introspection commands, never by the decision path.
func RuleNames() []string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.name)
	}
	return names
}

// contraindicated reports whether a drug class must not be recommended for
// this patient, combining the fixed clinical contraindications with the
// tenant's exclusion switches.
func contraindicated(class models.InterventionClass, input *models.PatientContext, cfg *config.TenantConfig) bool {
	if cfg.Excluded(class) {
		return true
	}
	switch class {
	case models.ClassAlphaBlocker:
		return input.PosturalHypotension
	case models.ClassAntimuscarinic:
		return input.AnticholinergicRisk
	case models.ClassBeta3Agonist:
		return input.UncontrolledHypertension
	default:
		return false
	}
}

// drugRecommendation builds a Recommendation for a drug class with the
// tenant's preferred option resolved.
func drugRecommendation(class models.InterventionClass, cfg *config.TenantConfig, rationale ...string) models.Recommendation {
	return models.Recommendation{
		Class:     class,
		Preferred: cfg.PreferredOption(class),
		Rationale: rationale,
	}
}

// appendCaution adds the tenant's caution note for a class, if configured.
func appendCaution(checks []string, class models.InterventionClass, cfg *config.TenantConfig) []string {
	if note := cfg.Caution(class); note != "" {
		checks = append(checks, note)
	}
	return checks
}

// Rule 1: mild or unclear symptoms get conservative management before any
// drug treatment, preventing over-intervention on marginal presentations.

func guardConservativeFirst(rctx *resolveContext) bool {
	return rctx.input.Severity.IsMild() || rctx.category == models.CategoryUnclear
}

func produceConservativeFirst(rctx *resolveContext) Resolution {
	var rationale []string
	if rctx.input.Severity.IsMild() {
		rationale = append(rationale, fmt.Sprintf(
			"IPSS %d is at or below the mild cutoff of %d; conservative management comes first.",
			rctx.input.Severity.Score, models.MildSeverityCutoff))
	}
	if rctx.category == models.CategoryUnclear {
		rationale = append(rationale, "Symptom pattern is unclear; drug treatment is not indicated yet.")
	}

	res := Resolution{
		Primary: models.Recommendation{
			Class:     models.ClassLifestyle,
			Rationale: rationale,
		},
		Checks: []string{
			"Offer fluid, caffeine and alcohol advice and a bladder diary.",
			"Reassess symptoms and IPSS at next routine review.",
		},
	}

	// Partial signals below or above threshold still inform the alternatives:
	// name the tier-1 option the patient would step to if symptoms progress.
	if rctx.input.VoidingCount() >= 1 && !rctx.input.OnAlphaBlocker &&
		!contraindicated(models.ClassAlphaBlocker, rctx.input, rctx.cfg) {
		res.Alternatives = append(res.Alternatives, drugRecommendation(
			models.ClassAlphaBlocker, rctx.cfg,
			"Voiding symptoms present; an alpha-blocker is the step-up option if symptoms progress."))
	}
	if rctx.input.StorageCount() >= 1 && !rctx.input.OnAntimuscarinic && !rctx.input.OnBeta3Agonist &&
		!contraindicated(models.ClassAntimuscarinic, rctx.input, rctx.cfg) {
		res.Alternatives = append(res.Alternatives, drugRecommendation(
			models.ClassAntimuscarinic, rctx.cfg,
			"Storage symptoms present; an antimuscarinic is the step-up option if symptoms progress."))
	}
	return res
}

// Rules 2–3: the voiding ladder. Tier-1 is an alpha-blocker; tier-2 adds a
// 5-alpha-reductase inhibitor only when prostate enlargement is confirmed.

func guardVoidingFirstLine(rctx *resolveContext) bool {
	return rctx.category == models.CategoryVoiding &&
		!rctx.input.OnAlphaBlocker &&
		!contraindicated(models.ClassAlphaBlocker, rctx.input, rctx.cfg)
}

func produceVoidingFirstLine(rctx *resolveContext) Resolution {
	res := Resolution{
		Primary: drugRecommendation(models.ClassAlphaBlocker, rctx.cfg,
			"Voiding symptoms predominate and no alpha-blocker is in place; an alpha-blocker is first line."),
		Checks: []string{
			"Review symptoms and side-effects at 4-6 weeks.",
			"Warn about postural dizziness, especially with the first dose.",
		},
	}
	if rctx.input.CataractSurgeryPlanned {
		res.Checks = append(res.Checks,
			"Cataract surgery planned: inform ophthalmology before starting (floppy iris risk).")
	}
	res.Checks = appendCaution(res.Checks, models.ClassAlphaBlocker, rctx.cfg)
	return res
}

func guardVoidingSecondLine(rctx *resolveContext) bool {
	in := rctx.input
	return rctx.category == models.CategoryVoiding &&
		in.OnAlphaBlocker &&
		!in.OnFiveAlphaReductase &&
		in.EnlargedProstate &&
		!contraindicated(models.ClassFiveAlphaReductase, in, rctx.cfg)
}

func produceVoidingSecondLine(rctx *resolveContext) Resolution {
	res := Resolution{
		Primary: drugRecommendation(models.ClassFiveAlphaReductase, rctx.cfg,
			"Voiding symptoms persist on an alpha-blocker with confirmed prostate enlargement; add a 5-alpha-reductase inhibitor."),
		Checks: []string{
			"Explain that full effect can take up to 6 months.",
			"Recheck PSA before starting; 5-alpha-reductase inhibitors roughly halve PSA.",
		},
	}
	res.Checks = appendCaution(res.Checks, models.ClassFiveAlphaReductase, rctx.cfg)
	return res
}

// Rules 4–5: the storage ladder. Tier-1 has two candidates (antimuscarinic
// preferred, beta-3 agonist alternate); tier-2 moves to the beta-3 agonist
// once bladder training has been completed.

func storageFirstLinePick(rctx *resolveContext) (models.InterventionClass, bool) {
	for _, class := range []models.InterventionClass{models.ClassAntimuscarinic, models.ClassBeta3Agonist} {
		if !contraindicated(class, rctx.input, rctx.cfg) {
			return class, true
		}
	}
	return "", false
}

func guardStorageFirstLine(rctx *resolveContext) bool {
	if rctx.category != models.CategoryStorage {
		return false
	}
	if rctx.input.OnAntimuscarinic || rctx.input.OnBeta3Agonist {
		return false
	}
	_, ok := storageFirstLinePick(rctx)
	return ok
}

func produceStorageFirstLine(rctx *resolveContext) Resolution {
	pick, _ := storageFirstLinePick(rctx)

	var res Resolution
	switch pick {
	case models.ClassAntimuscarinic:
		res.Primary = drugRecommendation(models.ClassAntimuscarinic, rctx.cfg,
			"Storage symptoms predominate; an antimuscarinic is first line alongside bladder training.")
		res.Checks = []string{
			"Offer supervised bladder training for at least 6 weeks.",
			"Review anticholinergic burden and side-effects at 4 weeks.",
		}
		if !contraindicated(models.ClassBeta3Agonist, rctx.input, rctx.cfg) {
			res.Alternatives = append(res.Alternatives, drugRecommendation(
				models.ClassBeta3Agonist, rctx.cfg,
				"A beta-3 agonist is the alternative if antimuscarinic side-effects are limiting."))
		}
	case models.ClassBeta3Agonist:
		res.Primary = drugRecommendation(models.ClassBeta3Agonist, rctx.cfg,
			"Storage symptoms predominate and antimuscarinics are contraindicated; a beta-3 agonist is the first-line alternative.")
		res.Checks = []string{
			"Offer supervised bladder training for at least 6 weeks.",
			"Check blood pressure before starting and periodically during treatment.",
		}
	}
	res.Checks = appendCaution(res.Checks, pick, rctx.cfg)
	return res
}

func guardStorageSecondLine(rctx *resolveContext) bool {
	in := rctx.input
	return rctx.category == models.CategoryStorage &&
		in.OnAntimuscarinic &&
		!in.OnBeta3Agonist &&
		in.BladderTrainingDone &&
		!contraindicated(models.ClassBeta3Agonist, in, rctx.cfg)
}

func produceStorageSecondLine(rctx *resolveContext) Resolution {
	res := Resolution{
		Primary: drugRecommendation(models.ClassBeta3Agonist, rctx.cfg,
			"Storage symptoms persist on an antimuscarinic after completed bladder training; switch to or add a beta-3 agonist."),
		Checks: []string{
			"Check blood pressure before starting and periodically during treatment.",
			"Review combined treatment at 4-6 weeks and stop the less effective agent.",
		},
	}
	res.Checks = appendCaution(res.Checks, models.ClassBeta3Agonist, rctx.cfg)
	return res
}

// Rule 6: mixed pattern. The locally dominant sub-group (by raw indicator
// count, ties to voiding per CG97's first-line preference) supplies the
// primary; the other sub-group's tier-1 option is offered as an alternative.

func mixedOrder(rctx *resolveContext) (first, second models.InterventionClass) {
	if rctx.input.VoidingCount() >= rctx.input.StorageCount() {
		return models.ClassAlphaBlocker, models.ClassAntimuscarinic
	}
	return models.ClassAntimuscarinic, models.ClassAlphaBlocker
}

func mixedViable(class models.InterventionClass, rctx *resolveContext) bool {
	if contraindicated(class, rctx.input, rctx.cfg) {
		return false
	}
	switch class {
	case models.ClassAlphaBlocker:
		return !rctx.input.OnAlphaBlocker
	case models.ClassAntimuscarinic:
		return !rctx.input.OnAntimuscarinic && !rctx.input.OnBeta3Agonist
	default:
		return false
	}
}

func guardMixedDominant(rctx *resolveContext) bool {
	if rctx.category != models.CategoryMixed {
		return false
	}
	first, second := mixedOrder(rctx)
	return mixedViable(first, rctx) || mixedViable(second, rctx)
}

func produceMixedDominant(rctx *resolveContext) Resolution {
	first, second := mixedOrder(rctx)
	pick := first
	if !mixedViable(first, rctx) {
		pick = second
	}

	dominant := "voiding"
	if pick == models.ClassAntimuscarinic {
		dominant = "storage"
	}

	res := Resolution{
		Primary: drugRecommendation(pick, rctx.cfg, fmt.Sprintf(
			"Mixed symptom pattern with %s symptoms locally dominant; treat the dominant component first.", dominant)),
		Checks: []string{
			"Review which symptom group responds at 4-6 weeks before treating the other.",
		},
	}
	if pick == first && mixedViable(second, rctx) {
		res.Alternatives = append(res.Alternatives, drugRecommendation(second, rctx.cfg,
			"Tier-1 option for the other symptom component if it becomes dominant."))
	}
	res.Checks = appendCaution(res.Checks, pick, rctx.cfg)
	return res
}

// Rule 7: trailing fallback. Everyone who exhausted the ladder, or whose
// next tier is blocked, gets regimen optimization with a soft referral hint.
// The hint lives in Consider, never in Escalation.

func produceFallback(rctx *resolveContext) Resolution {
	return Resolution{
		Primary: models.Recommendation{
			Class: models.ClassLifestyle,
			Rationale: []string{
				"No further tier of the treatment ladder applies; optimize the current regimen.",
			},
		},
		Checks: []string{
			"Review adherence, dosing and side-effects of current treatment.",
			"Repeat bladder diary and IPSS to quantify persisting symptoms.",
		},
		Consider: []string{
			"Consider routine urology referral if bothersome symptoms persist despite optimized management.",
		},
	}
}
