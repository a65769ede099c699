package usecase_test

import (
	"encoding/json"
	"testing"

	"go-profile-backend/internal/domain"
	"go-profile-backend/internal/usecase"
	"go-profile-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func structured(t *testing.T, v interface{}) domain.FlexValue {
	t.Helper()
	raw, err := json.Marshal(v)
	assert.NoError(t, err)
	return domain.FlexValue{Kind: domain.FlexStructured, JSON: raw}
}

func TestNormalizeSkills(t *testing.T) {
	t.Run("Native array and JSON-encoded string normalize identically", func(t *testing.T) {
		native := &domain.ProfileForm{Skills: structured(t, []string{"Go", "SQL"})}
		encoded := &domain.ProfileForm{Skills: domain.FlexFromForm(`["Go","SQL"]`, true)}

		nativePatch, err := usecase.NormalizeProfileForm(native)
		assert.NoError(t, err)
		encodedPatch, err := usecase.NormalizeProfileForm(encoded)
		assert.NoError(t, err)

		assert.Equal(t, []string{"Go", "SQL"}, nativePatch.Skills)
		assert.Equal(t, nativePatch.Skills, encodedPatch.Skills)
	})

	t.Run("A raw string falls back to a comma split", func(t *testing.T) {
		form := &domain.ProfileForm{Skills: domain.FlexFromForm("Go, SQL", true)}

		patch, err := usecase.NormalizeProfileForm(form)
		assert.NoError(t, err)
		assert.Equal(t, []string{"Go", "SQL"}, patch.Skills)
	})

	t.Run("A comma-free raw string becomes a single-element list", func(t *testing.T) {
		form := &domain.ProfileForm{Skills: domain.FlexFromForm("Go", true)}

		patch, err := usecase.NormalizeProfileForm(form)
		assert.NoError(t, err)
		assert.Equal(t, []string{"Go"}, patch.Skills)
	})

	t.Run("Blank entries are dropped, remaining entries trimmed", func(t *testing.T) {
		form := &domain.ProfileForm{Skills: domain.FlexFromForm(`["  Go  ", "", "  "]`, true)}

		patch, err := usecase.NormalizeProfileForm(form)
		assert.NoError(t, err)
		assert.Equal(t, []string{"Go"}, patch.Skills)
	})

	t.Run("An absent field stays nil so stored skills are retained", func(t *testing.T) {
		patch, err := usecase.NormalizeProfileForm(&domain.ProfileForm{})
		assert.NoError(t, err)
		assert.Nil(t, patch.Skills)
	})

	t.Run("A mixed-type array keeps the stringified items", func(t *testing.T) {
		form := &domain.ProfileForm{Skills: domain.FlexFromForm(`["Go", 7]`, true)}

		patch, err := usecase.NormalizeProfileForm(form)
		assert.NoError(t, err)
		assert.Equal(t, []string{"Go", "7"}, patch.Skills)
	})
}

func TestNormalizeEducation(t *testing.T) {
	t.Run("A structured list replaces the stored block as-is", func(t *testing.T) {
		form := &domain.ProfileForm{
			Education: structured(t, []domain.Education{
				{Degree: "BSc", Institution: "MIT", StartDate: "2020-09"},
			}),
		}

		patch, err := usecase.NormalizeProfileForm(form)
		assert.NoError(t, err)
		assert.Len(t, patch.Education, 1)
		assert.Equal(t, "MIT", patch.Education[0].Institution)
		assert.Equal(t, "2020-09-01", patch.Education[0].StartDate)
	})

	t.Run("Flat fields fold into exactly one entry", func(t *testing.T) {
		form := &domain.ProfileForm{
			EducationLevel: strPtr("MSc"),
			University:     strPtr("ETH"),
			StartDate:      strPtr("2021-02-01"),
			EndDate:        strPtr("2023-06-30"),
		}

		patch, err := usecase.NormalizeProfileForm(form)
		assert.NoError(t, err)
		assert.Len(t, patch.Education, 1)
		assert.Equal(t, "MSc", patch.Education[0].Degree)
		assert.Equal(t, "ETH", patch.Education[0].Institution)
		assert.Equal(t, "2023-06-30", patch.Education[0].EndDate)
	})

	t.Run("Currently studying clears the end date", func(t *testing.T) {
		studying := true
		form := &domain.ProfileForm{
			University:        strPtr("ETH"),
			EndDate:           strPtr("2023-06-30"),
			CurrentlyStudying: &studying,
		}

		patch, err := usecase.NormalizeProfileForm(form)
		assert.NoError(t, err)
		assert.Len(t, patch.Education, 1)
		assert.True(t, patch.Education[0].CurrentlyStudying)
		assert.Empty(t, patch.Education[0].EndDate)
	})

	t.Run("No education input leaves the block untouched", func(t *testing.T) {
		patch, err := usecase.NormalizeProfileForm(&domain.ProfileForm{})
		assert.NoError(t, err)
		assert.Nil(t, patch.Education)
	})

	t.Run("A raw education string is rejected", func(t *testing.T) {
		form := &domain.ProfileForm{Education: domain.FlexFromForm("went to school", true)}

		_, err := usecase.NormalizeProfileForm(form)
		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 422, appErr.Code)
		assert.Contains(t, appErr.Details, "education")
	})
}

func TestNormalizeCertificates(t *testing.T) {
	t.Run("Entries with a blank name are dropped", func(t *testing.T) {
		form := &domain.ProfileForm{
			Certificates: structured(t, []domain.Certificate{
				{CertificateName: "  "},
				{CertificateName: " AWS SAA ", StartDate: "2024-01"},
			}),
		}

		patch, err := usecase.NormalizeProfileForm(form)
		assert.NoError(t, err)
		assert.Len(t, patch.Certificates, 1)
		assert.Equal(t, "AWS SAA", patch.Certificates[0].CertificateName)
		assert.Equal(t, "2024-01-01", patch.Certificates[0].StartDate)
	})

	t.Run("An empty list clears the stored list", func(t *testing.T) {
		form := &domain.ProfileForm{Certificates: domain.FlexFromForm(`[]`, true)}

		patch, err := usecase.NormalizeProfileForm(form)
		assert.NoError(t, err)
		assert.NotNil(t, patch.Certificates)
		assert.Empty(t, patch.Certificates)
	})

	t.Run("A raw certificates string is rejected", func(t *testing.T) {
		form := &domain.ProfileForm{Certificates: domain.FlexFromForm("my certs", true)}

		_, err := usecase.NormalizeProfileForm(form)
		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 422, appErr.Code)
		assert.Contains(t, appErr.Details, "certificates")
	})
}

func TestNormalizeScalars(t *testing.T) {
	t.Run("Present scalars are trimmed, absent ones stay nil", func(t *testing.T) {
		form := &domain.ProfileForm{
			FirstName: strPtr("  Ada  "),
			Bio:       strPtr("builder"),
		}

		patch, err := usecase.NormalizeProfileForm(form)
		assert.NoError(t, err)
		assert.Equal(t, "Ada", *patch.FirstName)
		assert.Equal(t, "builder", *patch.Bio)
		assert.Nil(t, patch.LastName)
		assert.Nil(t, patch.Phone)
	})

	t.Run("An explicit empty string clears the stored value", func(t *testing.T) {
		form := &domain.ProfileForm{Bio: strPtr("")}

		patch, err := usecase.NormalizeProfileForm(form)
		assert.NoError(t, err)
		assert.NotNil(t, patch.Bio)
		assert.Empty(t, *patch.Bio)
	})
}
