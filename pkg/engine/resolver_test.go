package engine

import (
	"strings"
	"testing"

	"github.com/danrwr-web/signposting-sub009/pkg/config"
	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

func defaultCfg() *config.TenantConfig {
	return config.DefaultTenantConfig()
}

func TestResolveConservativeFirstOnMildSeverity(t *testing.T) {
	// Severity gate takes precedence over classification: three voiding
	// indicators meet the threshold, but a mild IPSS keeps treatment
	// conservative.
	input := contextWithCounts(3, 0)
	input.Severity = models.SeverityOf(5)

	res := Resolve(models.CategoryVoiding, input, defaultCfg())
	if res.Primary.Class != models.ClassLifestyle {
		t.Fatalf("expected lifestyle primary for mild severity, got %v", res.Primary.Class)
	}
	if len(res.Primary.Rationale) == 0 {
		t.Error("primary recommendation must carry a rationale")
	}
	// Voiding signal present: the step-up option must be named as an alternative.
	found := false
	for _, alt := range res.Alternatives {
		if alt.Class == models.ClassAlphaBlocker {
			found = true
		}
	}
	if !found {
		t.Errorf("expected alpha-blocker step-up alternative, got %v", res.Alternatives)
	}
}

func TestResolveConservativeFirstOnUnclear(t *testing.T) {
	input := contextWithCounts(1, 1)
	res := Resolve(models.CategoryUnclear, input, defaultCfg())
	if res.Primary.Class != models.ClassLifestyle {
		t.Fatalf("expected lifestyle primary for unclear category, got %v", res.Primary.Class)
	}
	if len(res.Alternatives) != 2 {
		t.Errorf("one partial signal per group should yield two step-up alternatives, got %d", len(res.Alternatives))
	}
}

func TestResolveUnassessedSeverityIsNotMild(t *testing.T) {
	// An unassessed severity must not trigger the conservative branch.
	input := contextWithCounts(2, 0)
	res := Resolve(models.CategoryVoiding, input, defaultCfg())
	if res.Primary.Class != models.ClassAlphaBlocker {
		t.Fatalf("expected alpha-blocker tier-1, got %v", res.Primary.Class)
	}
}

func TestResolveVoidingLadder(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.PatientContext)
		wantClass models.InterventionClass
	}{
		{
			name:      "tier 1 when untreated",
			mutate:    func(c *models.PatientContext) {},
			wantClass: models.ClassAlphaBlocker,
		},
		{
			name: "tier 2 when on alpha-blocker with enlarged prostate",
			mutate: func(c *models.PatientContext) {
				c.OnAlphaBlocker = true
				c.EnlargedProstate = true
			},
			wantClass: models.ClassFiveAlphaReductase,
		},
		{
			name: "fallback when on alpha-blocker without upgrade condition",
			mutate: func(c *models.PatientContext) {
				c.OnAlphaBlocker = true
			},
			wantClass: models.ClassLifestyle,
		},
		{
			name: "fallback when ladder exhausted",
			mutate: func(c *models.PatientContext) {
				c.OnAlphaBlocker = true
				c.OnFiveAlphaReductase = true
				c.EnlargedProstate = true
			},
			wantClass: models.ClassLifestyle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := contextWithCounts(3, 0)
			tt.mutate(input)
			res := Resolve(models.CategoryVoiding, input, defaultCfg())
			if res.Primary.Class != tt.wantClass {
				t.Errorf("expected %v, got %v", tt.wantClass, res.Primary.Class)
			}
			if len(res.Checks) == 0 {
				t.Error("every branch must produce follow-up checks")
			}
		})
	}
}

func TestResolveFallbackHasSoftReferralHint(t *testing.T) {
	input := contextWithCounts(3, 0)
	input.OnAlphaBlocker = true

	res := Resolve(models.CategoryVoiding, input, defaultCfg())
	if len(res.Consider) == 0 {
		t.Fatal("fallback branch must carry a soft referral hint")
	}
	if !strings.Contains(res.Consider[0], "referral") {
		t.Errorf("hint should mention referral, got %q", res.Consider[0])
	}
}

func TestResolveStorageLadder(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.PatientContext)
		wantClass models.InterventionClass
	}{
		{
			name:      "antimuscarinic tier 1 when untreated",
			mutate:    func(c *models.PatientContext) {},
			wantClass: models.ClassAntimuscarinic,
		},
		{
			name: "beta-3 primary when antimuscarinic contraindicated",
			mutate: func(c *models.PatientContext) {
				c.AnticholinergicRisk = true
			},
			wantClass: models.ClassBeta3Agonist,
		},
		{
			name: "beta-3 tier 2 after bladder training",
			mutate: func(c *models.PatientContext) {
				c.OnAntimuscarinic = true
				c.BladderTrainingDone = true
			},
			wantClass: models.ClassBeta3Agonist,
		},
		{
			name: "fallback when on antimuscarinic without bladder training",
			mutate: func(c *models.PatientContext) {
				c.OnAntimuscarinic = true
			},
			wantClass: models.ClassLifestyle,
		},
		{
			name: "fallback when both storage classes contraindicated",
			mutate: func(c *models.PatientContext) {
				c.AnticholinergicRisk = true
				c.UncontrolledHypertension = true
			},
			wantClass: models.ClassLifestyle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := contextWithCounts(0, 3)
			tt.mutate(input)
			res := Resolve(models.CategoryStorage, input, defaultCfg())
			if res.Primary.Class != tt.wantClass {
				t.Errorf("expected %v, got %v", tt.wantClass, res.Primary.Class)
			}
		})
	}
}

func TestResolveStorageFirstLineOffersAlternative(t *testing.T) {
	input := contextWithCounts(0, 3)
	res := Resolve(models.CategoryStorage, input, defaultCfg())
	if len(res.Alternatives) != 1 || res.Alternatives[0].Class != models.ClassBeta3Agonist {
		t.Errorf("expected beta-3 agonist alternative, got %v", res.Alternatives)
	}
}

func TestResolveContraindicationRespected(t *testing.T) {
	// Storage has two tier-1 candidates: whenever the first choice is
	// contraindicated the primary class must differ from it.
	input := contextWithCounts(0, 3)
	input.AnticholinergicRisk = true
	res := Resolve(models.CategoryStorage, input, defaultCfg())
	if res.Primary.Class == models.ClassAntimuscarinic {
		t.Error("contraindicated class must not be the primary recommendation")
	}
}

func TestResolveTenantExclusionActsAsContraindication(t *testing.T) {
	cfg := defaultCfg()
	cfg.Exclude[models.ClassAntimuscarinic] = true

	input := contextWithCounts(0, 3)
	res := Resolve(models.CategoryStorage, input, cfg)
	if res.Primary.Class != models.ClassBeta3Agonist {
		t.Errorf("tenant exclusion should divert to beta-3 agonist, got %v", res.Primary.Class)
	}
}

func TestResolveTenantPreferredOptionApplied(t *testing.T) {
	cfg := defaultCfg()
	cfg.Preferred[models.ClassAlphaBlocker] = "alfuzosin XL 10 mg once daily"

	input := contextWithCounts(3, 0)
	res := Resolve(models.CategoryVoiding, input, cfg)
	if res.Primary.Preferred != "alfuzosin XL 10 mg once daily" {
		t.Errorf("expected tenant preferred option, got %q", res.Primary.Preferred)
	}
}

func TestResolvePreferredOptionFallsBackOnEmptyOverride(t *testing.T) {
	cfg := defaultCfg()
	cfg.Preferred[models.ClassAlphaBlocker] = ""

	input := contextWithCounts(3, 0)
	res := Resolve(models.CategoryVoiding, input, cfg)
	if res.Primary.Preferred == "" {
		t.Error("empty tenant override must degrade to the built-in default option")
	}
}

func TestResolveMixedDominantSubgroup(t *testing.T) {
	tests := []struct {
		name      string
		voiding   int
		storage   int
		wantClass models.InterventionClass
	}{
		{name: "voiding dominant", voiding: 3, storage: 2, wantClass: models.ClassAlphaBlocker},
		{name: "storage dominant", voiding: 2, storage: 3, wantClass: models.ClassAntimuscarinic},
		{name: "tie resolves to voiding", voiding: 2, storage: 2, wantClass: models.ClassAlphaBlocker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := contextWithCounts(tt.voiding, tt.storage)
			res := Resolve(models.CategoryMixed, input, defaultCfg())
			if res.Primary.Class != tt.wantClass {
				t.Errorf("expected %v, got %v", tt.wantClass, res.Primary.Class)
			}
			if len(res.Alternatives) != 1 {
				t.Errorf("expected the other component's tier-1 as alternative, got %v", res.Alternatives)
			}
		})
	}
}

func TestResolveMixedSkipsTreatedComponent(t *testing.T) {
	input := contextWithCounts(3, 2)
	input.OnAlphaBlocker = true

	res := Resolve(models.CategoryMixed, input, defaultCfg())
	if res.Primary.Class != models.ClassAntimuscarinic {
		t.Errorf("dominant component already treated: expected antimuscarinic, got %v", res.Primary.Class)
	}
}

func TestResolveCautionFlagAddsCheck(t *testing.T) {
	input := contextWithCounts(3, 0)
	input.CataractSurgeryPlanned = true

	res := Resolve(models.CategoryVoiding, input, defaultCfg())
	found := false
	for _, check := range res.Checks {
		if strings.Contains(check, "ataract") {
			found = true
		}
	}
	if !found {
		t.Errorf("cataract caution should add a monitoring check, got %v", res.Checks)
	}
}

func TestResolveTenantCautionAppended(t *testing.T) {
	cfg := defaultCfg()
	cfg.Cautions[models.ClassAlphaBlocker] = "Local protocol: recheck lying and standing BP at 2 weeks."

	input := contextWithCounts(3, 0)
	res := Resolve(models.CategoryVoiding, input, cfg)
	found := false
	for _, check := range res.Checks {
		if strings.Contains(check, "Local protocol") {
			found = true
		}
	}
	if !found {
		t.Errorf("tenant caution note should be appended to checks, got %v", res.Checks)
	}
}

func TestRuleNamesOrder(t *testing.T) {
	names := RuleNames()
	if len(names) == 0 || names[0] != "conservative_first" {
		t.Errorf("conservative rule must be evaluated first, got %v", names)
	}
	if names[len(names)-1] != "optimize_and_review" {
		t.Errorf("fallback rule must be last, got %v", names)
	}
}
