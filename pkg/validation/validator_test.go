package validation

import (
	"testing"

	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

func TestValidatePatientContext(t *testing.T) {
	tests := []struct {
		name      string
		input     *models.PatientContext
		wantValid bool
		wantField string
	}{
		{
			name:      "nil context",
			input:     nil,
			wantValid: false,
			wantField: "context",
		},
		{
			name:      "all-false context is valid",
			input:     &models.PatientContext{},
			wantValid: true,
		},
		{
			name: "assessed severity in range",
			input: &models.PatientContext{
				AdultMale: true,
				Severity:  models.SeverityOf(20),
			},
			wantValid: true,
		},
		{
			name: "assessed severity at upper bound",
			input: &models.PatientContext{
				Severity: models.SeverityOf(models.MaxIPSS),
			},
			wantValid: true,
		},
		{
			name: "assessed severity above bound",
			input: &models.PatientContext{
				Severity: models.SeverityOf(models.MaxIPSS + 1),
			},
			wantValid: false,
			wantField: "severity.score",
		},
		{
			name: "assessed severity negative",
			input: &models.PatientContext{
				Severity: models.SeverityOf(-1),
			},
			wantValid: false,
			wantField: "severity.score",
		},
		{
			name: "unassessed severity with stray score",
			input: &models.PatientContext{
				Severity: models.Severity{Assessed: false, Score: 9},
			},
			wantValid: false,
			wantField: "severity.score",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePatientContext(tt.input)
			if got.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (errors: %v)", got.Valid, tt.wantValid, got.Errors)
			}
			if !tt.wantValid {
				if len(got.Errors) == 0 {
					t.Fatal("invalid result must carry errors")
				}
				if got.Errors[0].Field != tt.wantField {
					t.Errorf("error field = %q, want %q", got.Errors[0].Field, tt.wantField)
				}
			}
		})
	}
}

func TestValidateTenantID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"", true},
		{"default", true},
		{"beacon-health", true},
		{"surgery42", true},
		{"a", true},
		{"-leading", false},
		{"trailing-", false},
		{"UPPER", false},
		{"has space", false},
		{"dot.dot", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := ValidateTenantID(tt.id); got.Valid != tt.valid {
				t.Errorf("ValidateTenantID(%q) = %v, want %v", tt.id, got.Valid, tt.valid)
			}
		})
	}
}
