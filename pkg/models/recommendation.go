package models

import (
	"time"
)

// LogicVersion identifies the revision of the fixed decision logic. It is
// stamped into every result so audit records can be tied to the rules that
// produced them.
const LogicVersion = "luts-1.2.0"

// BasedOn lists the evidence sources the fixed decision logic encodes.
var BasedOn = []string{
	"NICE CG97: Lower urinary tract symptoms in men",
	"NICE NG12: Suspected cancer: recognition and referral",
	"BNF treatment summary: urinary retention and incontinence",
}

// Status is the top-level outcome discriminator of an evaluation.
type Status string

const (
	StatusOK          Status = "ok"
	StatusNotEligible Status = "not_eligible"
)

// IsValid checks if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOK, StatusNotEligible:
		return true
	default:
		return false
	}
}

// Category is the symptom-pattern classification outcome.
type Category string

const (
	CategoryVoiding Category = "voiding"
	CategoryStorage Category = "storage"
	CategoryMixed   Category = "mixed"
	CategoryUnclear Category = "unclear"
)

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// IsValid checks if the category is a known value.
func (c Category) IsValid() bool {
	switch c {
	case CategoryVoiding, CategoryStorage, CategoryMixed, CategoryUnclear:
		return true
	default:
		return false
	}
}

// InterventionClass is the closed set of recommendation classes the resolver
// can select. ClassEscalate is the sentinel used when a red flag fired.
type InterventionClass string

const (
	ClassLifestyle          InterventionClass = "lifestyle"
	ClassAlphaBlocker       InterventionClass = "alpha_blocker"
	ClassFiveAlphaReductase InterventionClass = "five_alpha_reductase"
	ClassAntimuscarinic     InterventionClass = "antimuscarinic"
	ClassBeta3Agonist       InterventionClass = "beta3_agonist"
	ClassReferral           InterventionClass = "referral"
	ClassEscalate           InterventionClass = "escalate"
)

// String returns the string representation of the intervention class.
func (ic InterventionClass) String() string {
	return string(ic)
}

// IsValid checks if the intervention class is a known value.
func (ic InterventionClass) IsValid() bool {
	switch ic {
	case ClassLifestyle, ClassAlphaBlocker, ClassFiveAlphaReductase,
		ClassAntimuscarinic, ClassBeta3Agonist, ClassReferral, ClassEscalate:
		return true
	default:
		return false
	}
}

// IsDrugClass reports whether the class names a prescribable drug class, as
// opposed to lifestyle advice, referral, or the escalate sentinel.
func (ic InterventionClass) IsDrugClass() bool {
	switch ic {
	case ClassAlphaBlocker, ClassFiveAlphaReductase, ClassAntimuscarinic, ClassBeta3Agonist:
		return true
	default:
		return false
	}
}

// Recommendation is one concrete recommendation: a class, the locally
// preferred option within that class (empty for non-drug classes), and the
// rationale explaining why it was selected.
type Recommendation struct {
	Class     InterventionClass `yaml:"class" json:"class"`
	Preferred string            `yaml:"preferred,omitempty" json:"preferred,omitempty"`
	Rationale []string          `yaml:"rationale" json:"rationale"`
}

// ResultMetadata tags a result with the logic revision and evidence basis.
type ResultMetadata struct {
	LogicVersion string   `yaml:"logicVersion" json:"logicVersion"`
	BasedOn      []string `yaml:"basedOn" json:"basedOn"`
}

// RecommendationResult is the complete output of one evaluation.
//
// Invariants:
//   - Status == StatusNotEligible implies Category == CategoryUnclear and
//     Alternatives, Checks, Escalation and Consider are all empty.
//   - Escalation is non-empty exactly when Primary.Class == ClassEscalate.
//     The soft "consider referral" hint of the fallback branch lives in
//     Consider, never in Escalation.
type RecommendationResult struct {
	Status       Status           `yaml:"status" json:"status"`
	Category     Category         `yaml:"category" json:"category"`
	Primary      Recommendation   `yaml:"primary" json:"primary"`
	Alternatives []Recommendation `yaml:"alternatives" json:"alternatives"`
	Checks       []string         `yaml:"checks" json:"checks"`
	Escalation   []string         `yaml:"escalation" json:"escalation"`
	Consider     []string         `yaml:"consider" json:"consider"`
	Metadata     ResultMetadata   `yaml:"metadata" json:"metadata"`
}

// IsEscalation reports whether the result demands urgent escalation.
func (r *RecommendationResult) IsEscalation() bool {
	return r.Primary.Class == ClassEscalate
}

// EvaluationRecord is the audit tuple published per evaluation: the exact
// input, the tenant config version in force, and the produced output.
type EvaluationRecord struct {
	Tenant        string               `json:"tenant"`
	ConfigVersion string               `json:"configVersion"`
	Input         PatientContext       `json:"input"`
	Output        RecommendationResult `json:"output"`
	EvaluatedAt   time.Time            `json:"evaluatedAt"`
}
