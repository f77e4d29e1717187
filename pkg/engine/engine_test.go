package engine

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danrwr-web/signposting-sub009/pkg/config"
	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

// randomContext builds a pseudo-random but reproducible patient context.
func randomContext(r *rand.Rand) *models.PatientContext {
	b := func() bool { return r.Intn(2) == 1 }
	c := &models.PatientContext{
		AdultMale:                b(),
		VisibleHaematuria:        b(),
		SuspectedRetention:       b(),
		AbnormalProstateExam:     b(),
		RecurrentUTI:             b(),
		NeurologicalSymptoms:     b(),
		Hesitancy:                b(),
		WeakStream:               b(),
		Straining:                b(),
		IncompleteEmptying:       b(),
		PostMicturitionDribble:   b(),
		Urgency:                  b(),
		Frequency:                b(),
		Nocturia:                 b(),
		UrgeIncontinence:         b(),
		OnAlphaBlocker:           b(),
		OnFiveAlphaReductase:     b(),
		OnAntimuscarinic:         b(),
		OnBeta3Agonist:           b(),
		EnlargedProstate:         b(),
		BladderTrainingDone:      b(),
		PosturalHypotension:      b(),
		AnticholinergicRisk:      b(),
		UncontrolledHypertension: b(),
		CataractSurgeryPlanned:   b(),
	}
	if b() {
		c.Severity = models.SeverityOf(r.Intn(models.MaxIPSS + 1))
	}
	return c
}

func TestEvaluateDeterminism(t *testing.T) {
	eng := New()
	cfg := config.DefaultTenantConfig()
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		input := randomContext(r)
		first := eng.Evaluate(input, cfg)
		second := eng.Evaluate(input, cfg)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("repeated evaluation differed (-first +second):\n%s", diff)
		}
	}
}

func TestEvaluateTotality(t *testing.T) {
	eng := New()
	cfg := config.DefaultTenantConfig()
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		out := eng.Evaluate(randomContext(r), cfg)
		if !out.Status.IsValid() {
			t.Fatalf("invalid status %q", out.Status)
		}
		if !out.Category.IsValid() {
			t.Fatalf("invalid category %q", out.Category)
		}
		if !out.Primary.Class.IsValid() {
			t.Fatalf("invalid primary class %q", out.Primary.Class)
		}
		if out.Metadata.LogicVersion != models.LogicVersion {
			t.Fatalf("missing logic version stamp")
		}
	}
}

func TestEvaluateEscalationInvariant(t *testing.T) {
	// Escalation is non-empty exactly when the primary class is the
	// escalate sentinel, for every representable input.
	eng := New()
	cfg := config.DefaultTenantConfig()
	r := rand.New(rand.NewSource(99))

	for i := 0; i < 2000; i++ {
		out := eng.Evaluate(randomContext(r), cfg)
		escalating := out.Primary.Class == models.ClassEscalate
		if escalating != (len(out.Escalation) > 0) {
			t.Fatalf("escalation invariant violated: class=%v escalations=%v", out.Primary.Class, out.Escalation)
		}
	}
}

func TestEvaluateIneligibilityTerminality(t *testing.T) {
	eng := New()
	cfg := config.DefaultTenantConfig()
	r := rand.New(rand.NewSource(13))

	for i := 0; i < 500; i++ {
		input := randomContext(r)
		input.AdultMale = false
		out := eng.Evaluate(input, cfg)
		if out.Status != models.StatusNotEligible {
			t.Fatalf("expected not_eligible, got %v", out.Status)
		}
		if out.Category != models.CategoryUnclear {
			t.Errorf("ineligible result must have unclear category, got %v", out.Category)
		}
		if len(out.Alternatives) != 0 || len(out.Checks) != 0 || len(out.Escalation) != 0 || len(out.Consider) != 0 {
			t.Errorf("ineligibility is terminal and carries no further guidance: %+v", out)
		}
	}
}

func TestEvaluateNilConfigUsesDefaults(t *testing.T) {
	eng := New()
	input := contextWithCounts(3, 0)
	out := eng.Evaluate(input, nil)
	if out.Primary.Class != models.ClassAlphaBlocker {
		t.Fatalf("expected alpha-blocker, got %v", out.Primary.Class)
	}
	if out.Primary.Preferred == "" {
		t.Error("nil config should resolve the built-in preferred option")
	}
}

func TestEvaluateUnassessedSeverityScoreIgnored(t *testing.T) {
	// Two inputs that differ only in the score carried by an unassessed
	// severity are the same clinical state and must produce identical output.
	eng := New()
	a := contextWithCounts(3, 0)
	a.Severity = models.Severity{Assessed: false, Score: 20}
	b := contextWithCounts(3, 0)
	b.Severity = models.SeverityUnassessed()

	if diff := cmp.Diff(eng.Evaluate(a, nil), eng.Evaluate(b, nil)); diff != "" {
		t.Errorf("unassessed score must be canonicalised away:\n%s", diff)
	}
}

// Concrete scenarios from the clinical sign-off sheet.

func TestScenarioUntreatedVoiding(t *testing.T) {
	eng := New()
	input := contextWithCounts(2, 0)
	out := eng.Evaluate(input, nil)

	if out.Status != models.StatusOK {
		t.Fatalf("expected ok, got %v", out.Status)
	}
	if out.Category != models.CategoryVoiding {
		t.Fatalf("expected voiding category, got %v", out.Category)
	}
	if out.Primary.Class != models.ClassAlphaBlocker {
		t.Fatalf("expected alpha-blocker tier-1, got %v", out.Primary.Class)
	}
	if len(out.Escalation) != 0 {
		t.Errorf("no red flag fired: escalation must be empty, got %v", out.Escalation)
	}
}

func TestScenarioSingleRedFlagOverridesClassification(t *testing.T) {
	eng := New()
	input := contextWithCounts(2, 0)
	input.VisibleHaematuria = true
	out := eng.Evaluate(input, nil)

	if out.Status != models.StatusOK {
		t.Fatalf("expected ok, got %v", out.Status)
	}
	if out.Primary.Class != models.ClassEscalate {
		t.Fatalf("expected escalate sentinel, got %v", out.Primary.Class)
	}
	if len(out.Escalation) != 1 || !strings.Contains(out.Escalation[0], "haematuria") {
		t.Fatalf("expected exactly one escalation naming the flag, got %v", out.Escalation)
	}
}

func TestScenarioMildSeverityBeatsClassification(t *testing.T) {
	eng := New()
	input := contextWithCounts(3, 0)
	input.Severity = models.SeverityOf(4)
	out := eng.Evaluate(input, nil)

	if out.Primary.Class != models.ClassLifestyle {
		t.Fatalf("mild severity must keep management conservative, got %v", out.Primary.Class)
	}
}

func TestScenarioTierUpgradeWithConfirmation(t *testing.T) {
	eng := New()
	input := contextWithCounts(3, 0)
	input.OnAlphaBlocker = true
	input.EnlargedProstate = true
	out := eng.Evaluate(input, nil)

	if out.Primary.Class != models.ClassFiveAlphaReductase {
		t.Fatalf("expected tier-2 upgrade, got %v", out.Primary.Class)
	}
}

func TestScenarioNoUpgradeWithoutConfirmation(t *testing.T) {
	eng := New()
	input := contextWithCounts(3, 0)
	input.OnAlphaBlocker = true
	out := eng.Evaluate(input, nil)

	if out.Primary.Class != models.ClassLifestyle {
		t.Fatalf("expected fallback without upgrade confirmation, got %v", out.Primary.Class)
	}
	if len(out.Consider) == 0 {
		t.Error("fallback must carry the soft referral hint")
	}
	if len(out.Escalation) != 0 {
		t.Errorf("soft hint must not appear in escalation, got %v", out.Escalation)
	}
}
