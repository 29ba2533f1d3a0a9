package audit

import (
	"strings"

	"github.com/audittrail/audittrail/pkg/domain"
)

// Validator validates incoming questions before any provider is contacted
type Validator struct {
	minLength int
}

// NewValidator creates a question validator with the given minimum length
func NewValidator(minLength int) *Validator {
	return &Validator{minLength: minLength}
}

// Validate trims the question and checks it against the minimum length.
// Returns the trimmed question, or domain.ErrInputTooShort.
func (v *Validator) Validate(question string) (string, error) {
	trimmed := strings.TrimSpace(question)
	if len(trimmed) < v.minLength {
		return "", domain.ErrInputTooShort
	}
	return trimmed, nil
}
