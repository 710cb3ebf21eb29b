package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// InvalidRequirementError reports a malformed RequirementSet. It is raised
// before scoring; callers must correct the request and resubmit.
type InvalidRequirementError struct {
	Reason string
}

func (e *InvalidRequirementError) Error() string {
	return "invalid requirement set: " + e.Reason
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag, which is a programming error.
	if err := v.RegisterValidation("education_level", func(fl validator.FieldLevel) bool {
		return ValidEducationLevel(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate normalizes the set and checks it against the requirement
// constraints: non-negative minimum experience, a known education level, a
// 0-100 score threshold and a recognized mode.
func (r *RequirementSet) Validate() error {
	r.Normalize()

	if err := validate.Struct(r); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			return &InvalidRequirementError{Reason: describeViolations(errs)}
		}
		return &InvalidRequirementError{Reason: err.Error()}
	}
	return nil
}

func describeViolations(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Field() {
		case "MinExperience":
			parts = append(parts, "min_experience must be non-negative")
		case "MinScore":
			parts = append(parts, "min_score must be between 0 and 100")
		case "Education":
			parts = append(parts, fmt.Sprintf("unknown education level %q", fe.Value()))
		case "Mode":
			parts = append(parts, fmt.Sprintf("mode must be %q or %q", ModeStrict, ModeRanking))
		default:
			parts = append(parts, fe.Error())
		}
	}
	return strings.Join(parts, "; ")
}
