// Package editorial implements the deterministic review gate for Daily Dose
// learning cards: given a card's workflow state and review flags, it decides
// the next editorial action. Same ordered first-match-wins shape as the
// clinical engine, with a safety flag taking absolute precedence.
package editorial

// CardState is the editorial workflow state of a Daily Dose card.
type CardState string

const (
	StateDraft     CardState = "draft"
	StateInReview  CardState = "in_review"
	StateApproved  CardState = "approved"
	StatePublished CardState = "published"
	StateArchived  CardState = "archived"
)

// IsValid checks if the card state is a known value.
func (s CardState) IsValid() bool {
	switch s {
	case StateDraft, StateInReview, StateApproved, StatePublished, StateArchived:
		return true
	default:
		return false
	}
}

// NextAction is the gate's verdict on what should happen to a card next.
type NextAction string

const (
	ActionHold           NextAction = "hold"
	ActionClinicalReview NextAction = "clinical_review"
	ActionRevise         NextAction = "revise"
	ActionPublish        NextAction = "publish"
	ActionNone           NextAction = "none"
)

// CardContext is the input to the review gate. Constructed per call, never
// mutated.
type CardContext struct {
	State              CardState `yaml:"state" json:"state"`
	AIGenerated        bool      `yaml:"aiGenerated" json:"aiGenerated"`
	ClinicalReviewDone bool      `yaml:"clinicalReviewDone" json:"clinicalReviewDone"`
	SafetyFlagged      bool      `yaml:"safetyFlagged" json:"safetyFlagged"`
	EditsPending       bool      `yaml:"editsPending" json:"editsPending"`
}

// Verdict is the gate output: the next action plus the rationale for it.
type Verdict struct {
	Action    NextAction `yaml:"action" json:"action"`
	Rationale []string   `yaml:"rationale" json:"rationale"`
}

// gateRule is one entry of the ordered editorial rule list.
type gateRule struct {
	name    string
	guard   func(CardContext) bool
	produce func(CardContext) Verdict
}

// gateRules is the fixed, ordered editorial rule list. The safety rule is
// first and cannot be pre-empted by any later rule.
var gateRules = []gateRule{
	{
		name:  "safety_hold",
		guard: func(c CardContext) bool { return c.SafetyFlagged && c.State != StateArchived },
		produce: func(c CardContext) Verdict {
			return Verdict{
				Action:    ActionHold,
				Rationale: []string{"A safety concern was raised; the card is held until it is resolved."},
			}
		},
	},
	{
		name: "ai_needs_clinical_review",
		guard: func(c CardContext) bool {
			return (c.State == StateDraft || c.State == StateInReview) &&
				c.AIGenerated && !c.ClinicalReviewDone
		},
		produce: func(c CardContext) Verdict {
			return Verdict{
				Action:    ActionClinicalReview,
				Rationale: []string{"AI-generated content cannot progress without a recorded clinical review."},
			}
		},
	},
	{
		name:  "edits_pending",
		guard: func(c CardContext) bool { return c.State != StateArchived && c.EditsPending },
		produce: func(c CardContext) Verdict {
			return Verdict{
				Action:    ActionRevise,
				Rationale: []string{"Factual edits are outstanding; the card returns to the author."},
			}
		},
	},
	{
		name:  "approved_ready",
		guard: func(c CardContext) bool { return c.State == StateApproved },
		produce: func(c CardContext) Verdict {
			return Verdict{
				Action:    ActionPublish,
				Rationale: []string{"The card is approved with no outstanding blocks; it can be published."},
			}
		},
	},
	{
		name:  "no_action",
		guard: func(CardContext) bool { return true },
		produce: func(c CardContext) Verdict {
			return Verdict{
				Action:    ActionNone,
				Rationale: []string{"No editorial action is required in the current state."},
			}
		},
	},
}

// NextActionFor runs the ordered editorial rules for one card. Pure and
// total: every card context yields a verdict.
func NextActionFor(card CardContext) Verdict {
	for _, r := range gateRules {
		if r.guard(card) {
			return r.produce(card)
		}
	}
	// Unreachable: the trailing rule's guard is always true.
	return Verdict{Action: ActionNone, Rationale: []string{}}
}

// transitions is the closed table of legal state changes.
var transitions = map[CardState][]CardState{
	StateDraft:     {StateInReview, StateArchived},
	StateInReview:  {StateDraft, StateApproved, StateArchived},
	StateApproved:  {StatePublished, StateInReview, StateArchived},
	StatePublished: {StateArchived},
	StateArchived:  {},
}

// CanTransitionTo checks if a state change is legal.
func (s CardState) CanTransitionTo(next CardState) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
