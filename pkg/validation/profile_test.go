package validation_test

import (
	"strings"
	"testing"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestValidateProfileForm(t *testing.T) {
	t.Run("A clean form yields no problems", func(t *testing.T) {
		form := &domain.ProfileForm{
			FirstName: strPtr("Ada"),
			Phone:     strPtr("123456"),
			Skills:    domain.FlexFromForm("Go, SQL", true),
		}
		assert.Nil(t, validation.ValidateProfileForm(form))
	})

	t.Run("Every violation is collected, keyed by field", func(t *testing.T) {
		longBio := strings.Repeat("x", 501)
		form := &domain.ProfileForm{
			FirstName:    strPtr("A"),
			Phone:        strPtr("123"),
			Bio:          &longBio,
			Education:    domain.FlexFromForm("not json", true),
			Certificates: domain.FlexFromForm("also not json", true),
		}

		problems := validation.ValidateProfileForm(form)
		assert.Len(t, problems, 5)
		assert.Contains(t, problems, "firstName")
		assert.Contains(t, problems, "phone")
		assert.Contains(t, problems, "bio")
		assert.Contains(t, problems, "education")
		assert.Contains(t, problems, "certificates")
	})

	t.Run("Bounds only apply to fields that are present", func(t *testing.T) {
		assert.Nil(t, validation.ValidateProfileForm(&domain.ProfileForm{}))
	})

	t.Run("An empty string does not trip minimum lengths", func(t *testing.T) {
		form := &domain.ProfileForm{FirstName: strPtr(""), Phone: strPtr("   ")}
		assert.Nil(t, validation.ValidateProfileForm(form))
	})

	t.Run("Raw skills pass while raw education fails", func(t *testing.T) {
		form := &domain.ProfileForm{
			Skills:    domain.FlexFromForm("Go, SQL", true),
			Education: domain.FlexFromForm("went to school", true),
		}

		problems := validation.ValidateProfileForm(form)
		assert.Len(t, problems, 1)
		assert.Contains(t, problems, "education")
	})
}
