package models

// PatientContext is the structured input to the signposting engine. It is
// constructed fresh per evaluation, fully specified, and never mutated.
// Absent optional booleans mean "false"/"unknown" rather than an error.
type PatientContext struct {
	// Eligibility. The LUTS pathway applies to adult men only.
	AdultMale bool `yaml:"adultMale" json:"adultMale"`

	// Red flags. Checked before any classification; all fired flags are reported.
	VisibleHaematuria    bool `yaml:"visibleHaematuria" json:"visibleHaematuria"`
	SuspectedRetention   bool `yaml:"suspectedRetention" json:"suspectedRetention"`
	AbnormalProstateExam bool `yaml:"abnormalProstateExam" json:"abnormalProstateExam"`
	RecurrentUTI         bool `yaml:"recurrentUTI" json:"recurrentUTI"`
	NeurologicalSymptoms bool `yaml:"neurologicalSymptoms" json:"neurologicalSymptoms"`

	// Voiding indicators.
	Hesitancy              bool `yaml:"hesitancy" json:"hesitancy"`
	WeakStream             bool `yaml:"weakStream" json:"weakStream"`
	Straining              bool `yaml:"straining" json:"straining"`
	IncompleteEmptying     bool `yaml:"incompleteEmptying" json:"incompleteEmptying"`
	PostMicturitionDribble bool `yaml:"postMicturitionDribble" json:"postMicturitionDribble"`

	// Storage indicators.
	Urgency          bool `yaml:"urgency" json:"urgency"`
	Frequency        bool `yaml:"frequency" json:"frequency"`
	Nocturia         bool `yaml:"nocturia" json:"nocturia"`
	UrgeIncontinence bool `yaml:"urgeIncontinence" json:"urgeIncontinence"`

	// Symptom severity (IPSS). Distinguishes "not yet assessed" from a score.
	Severity Severity `yaml:"severity" json:"severity"`

	// Current treatment state.
	OnAlphaBlocker        bool `yaml:"onAlphaBlocker" json:"onAlphaBlocker"`
	OnFiveAlphaReductase  bool `yaml:"onFiveAlphaReductase" json:"onFiveAlphaReductase"`
	OnAntimuscarinic      bool `yaml:"onAntimuscarinic" json:"onAntimuscarinic"`
	OnBeta3Agonist        bool `yaml:"onBeta3Agonist" json:"onBeta3Agonist"`
	EnlargedProstate      bool `yaml:"enlargedProstate" json:"enlargedProstate"`
	BladderTrainingDone   bool `yaml:"bladderTrainingDone" json:"bladderTrainingDone"`

	// Cautions and contraindications.
	PosturalHypotension      bool `yaml:"posturalHypotension" json:"posturalHypotension"`
	AnticholinergicRisk      bool `yaml:"anticholinergicRisk" json:"anticholinergicRisk"`
	UncontrolledHypertension bool `yaml:"uncontrolledHypertension" json:"uncontrolledHypertension"`
	CataractSurgeryPlanned   bool `yaml:"cataractSurgeryPlanned" json:"cataractSurgeryPlanned"`
}

// VoidingCount returns the number of positive voiding indicators.
func (c *PatientContext) VoidingCount() int {
	return countTrue(c.Hesitancy, c.WeakStream, c.Straining, c.IncompleteEmptying, c.PostMicturitionDribble)
}

// StorageCount returns the number of positive storage indicators.
func (c *PatientContext) StorageCount() int {
	return countTrue(c.Urgency, c.Frequency, c.Nocturia, c.UrgeIncontinence)
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

// MaxIPSS is the upper bound of the International Prostate Symptom Score.
const MaxIPSS = 35

// MildSeverityCutoff is the IPSS value at or below which symptoms count as
// mild and conservative management is recommended before drug treatment.
const MildSeverityCutoff = 7

// Severity is an explicit assessed/unassessed variant of the IPSS score, so
// "not yet scored" is a distinct case rather than a nil comparison.
type Severity struct {
	Assessed bool `yaml:"assessed" json:"assessed"`
	Score    int  `yaml:"score,omitempty" json:"score,omitempty"`
}

// SeverityUnassessed returns a Severity recording that no score was taken.
func SeverityUnassessed() Severity {
	return Severity{}
}

// SeverityOf returns an assessed Severity with the given IPSS score.
func SeverityOf(score int) Severity {
	return Severity{Assessed: true, Score: score}
}

// IsMild reports whether the score was assessed and falls at or below the
// mild cutoff. An unassessed severity is never mild.
func (s Severity) IsMild() bool {
	return s.Assessed && s.Score <= MildSeverityCutoff
}
