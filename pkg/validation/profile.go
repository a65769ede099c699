package validation

import (
	"strings"

	"go-profile-backend/internal/domain"
)

const (
	minNameLen  = 2
	minPhoneLen = 6
	maxBioLen   = 500
)

// ValidateProfileForm applies the structural rules to a raw profile update and
// collects every violation keyed by field, so the caller can report all
// problems in one response. All fields are optional; bounds apply only when a
// field is present. Education and certificates must be structured or valid
// JSON; skills is deliberately lenient and a raw string is handled downstream.
func ValidateProfileForm(form *domain.ProfileForm) map[string]string {
	problems := map[string]string{}

	checkMin := func(field string, value *string, min int, message string) {
		if value != nil && len(strings.TrimSpace(*value)) > 0 && len(strings.TrimSpace(*value)) < min {
			problems[field] = message
		}
	}

	checkMin("firstName", form.FirstName, minNameLen, "First name must be at least 2 characters")
	checkMin("lastName", form.LastName, minNameLen, "Last name must be at least 2 characters")
	checkMin("phone", form.Phone, minPhoneLen, "Phone must be at least 6 characters")

	if form.Bio != nil && len(strings.TrimSpace(*form.Bio)) > maxBioLen {
		problems["bio"] = "Bio must not exceed 500 characters"
	}

	if form.Education.Kind == domain.FlexRaw {
		problems["education"] = "Education must be valid JSON"
	}
	if form.Certificates.Kind == domain.FlexRaw {
		problems["certificates"] = "Certificates must be valid JSON"
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}
