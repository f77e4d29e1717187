// Package validation is the contract-violation firewall in front of the
// engine: callers build a PatientContext from untrusted request data and
// must pass it through here before evaluation. The engine itself assumes a
// well-formed input and never re-validates.
package validation

import (
	"fmt"
	"regexp"

	"github.com/danrwr-web/signposting-sub009/pkg/models"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

var tenantIDPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,62}[a-z0-9])?$`)

// ValidatePatientContext checks the bounds the type system cannot express.
func ValidatePatientContext(input *models.PatientContext) ValidationResult {
	var errors []ValidationError

	if input == nil {
		return ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "context", Message: "context is required"}},
		}
	}

	if input.Severity.Assessed {
		if input.Severity.Score < 0 || input.Severity.Score > models.MaxIPSS {
			errors = append(errors, ValidationError{
				Field:   "severity.score",
				Message: fmt.Sprintf("must be between 0 and %d", models.MaxIPSS),
			})
		}
	} else if input.Severity.Score != 0 {
		errors = append(errors, ValidationError{
			Field:   "severity.score",
			Message: "must be omitted when severity is not assessed",
		})
	}

	return ValidationResult{Valid: len(errors) == 0, Errors: errors}
}

// ValidateTenantID checks the shape of a tenant identifier.
func ValidateTenantID(tenantID string) ValidationResult {
	if tenantID == "" {
		// Empty means "use the default tenant"; that is well-formed.
		return ValidationResult{Valid: true}
	}
	if !tenantIDPattern.MatchString(tenantID) {
		return ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "tenant",
				Message: "must be lowercase alphanumeric with hyphens, at most 64 characters",
			}},
		}
	}
	return ValidationResult{Valid: true}
}
