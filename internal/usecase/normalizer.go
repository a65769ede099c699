package usecase

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"
)

// NormalizeProfileForm turns a validated raw form into a canonical patch.
// After this point the "array or JSON-string or raw string" ambiguity is gone:
// flex fields are plain Go slices, certificates with blank names are dropped,
// flat education fields are folded into a single education block, and dates
// are ISO calendar dates.
func NormalizeProfileForm(form *domain.ProfileForm) (*domain.ProfilePatch, error) {
	patch := &domain.ProfilePatch{
		FirstName: trimmed(form.FirstName),
		LastName:  trimmed(form.LastName),
		Phone:     trimmed(form.Phone),
		Address:   trimmed(form.Address),
		Bio:       trimmed(form.Bio),
	}

	patch.Skills = normalizeSkills(form.Skills)

	education, err := normalizeEducation(form)
	if err != nil {
		return nil, err
	}
	patch.Education = education

	certificates, err := normalizeCertificates(form.Certificates)
	if err != nil {
		return nil, err
	}
	patch.Certificates = certificates

	return patch, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// normalizeSkills never rejects: a structured or JSON-encoded list is used as
// supplied, and a raw string falls back to a comma-separated split.
func normalizeSkills(v domain.FlexValue) []string {
	switch v.Kind {
	case domain.FlexAbsent:
		return nil
	case domain.FlexStructured, domain.FlexEncoded:
		var skills []string
		if err := json.Unmarshal(v.JSON, &skills); err == nil {
			return cleanStrings(skills)
		}
		// Mixed-type array: keep whatever stringifies
		var loose []interface{}
		if err := json.Unmarshal(v.JSON, &loose); err == nil {
			skills = make([]string, 0, len(loose))
			for _, item := range loose {
				skills = append(skills, fmt.Sprint(item))
			}
			return cleanStrings(skills)
		}
		return splitCommaList(string(v.JSON))
	default:
		return splitCommaList(v.Raw)
	}
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func splitCommaList(raw string) []string {
	return cleanStrings(strings.Split(raw, ","))
}

// normalizeEducation resolves the education field. A structured/encoded list
// replaces the stored block as-is; otherwise the scattered flat fields are
// folded into exactly one entry. Nil means the field was not part of the
// request and the stored block is retained.
func normalizeEducation(form *domain.ProfileForm) ([]domain.Education, error) {
	switch form.Education.Kind {
	case domain.FlexStructured, domain.FlexEncoded:
		var entries []domain.Education
		if err := json.Unmarshal(form.Education.JSON, &entries); err != nil {
			return nil, apperror.Unprocessable("Invalid profile data", map[string]string{
				"education": "Education must be a list of education entries",
			})
		}
		for i := range entries {
			entries[i].StartDate = normalizeDate(entries[i].StartDate)
			if entries[i].CurrentlyStudying {
				entries[i].EndDate = ""
			} else {
				entries[i].EndDate = normalizeDate(entries[i].EndDate)
			}
		}
		if entries == nil {
			entries = []domain.Education{}
		}
		return entries, nil
	case domain.FlexRaw:
		// Validation rejects raw education strings before normalization
		return nil, apperror.Unprocessable("Invalid profile data", map[string]string{
			"education": "Education must be valid JSON",
		})
	}

	if !hasFlatEducation(form) {
		return nil, nil
	}

	entry := domain.Education{
		Degree:          deref(form.EducationLevel),
		Institution:     deref(form.University),
		Course:          deref(form.CourseName),
		FieldOfStudy:    deref(form.FieldOfStudy),
		StartDate:       normalizeDate(deref(form.StartDate)),
		ExperienceLevel: deref(form.ExperienceLevel),
	}
	if form.CurrentlyStudying != nil && *form.CurrentlyStudying {
		entry.CurrentlyStudying = true
	} else {
		entry.EndDate = normalizeDate(deref(form.EndDate))
	}
	return []domain.Education{entry}, nil
}

func hasFlatEducation(form *domain.ProfileForm) bool {
	for _, f := range []*string{
		form.EducationLevel, form.University, form.CourseName,
		form.FieldOfStudy, form.StartDate, form.EndDate, form.ExperienceLevel,
	} {
		if f != nil && strings.TrimSpace(*f) != "" {
			return true
		}
	}
	return form.CurrentlyStudying != nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// normalizeCertificates replaces the whole stored list. Entries with an
// empty or whitespace-only name are dropped, never persisted as blank rows.
func normalizeCertificates(v domain.FlexValue) ([]domain.Certificate, error) {
	switch v.Kind {
	case domain.FlexAbsent:
		return nil, nil
	case domain.FlexRaw:
		return nil, apperror.Unprocessable("Invalid profile data", map[string]string{
			"certificates": "Certificates must be valid JSON",
		})
	}

	var entries []domain.Certificate
	if err := json.Unmarshal(v.JSON, &entries); err != nil {
		return nil, apperror.Unprocessable("Invalid profile data", map[string]string{
			"certificates": "Certificates must be a list of certificate entries",
		})
	}

	kept := make([]domain.Certificate, 0, len(entries))
	for _, c := range entries {
		c.CertificateName = strings.TrimSpace(c.CertificateName)
		if c.CertificateName == "" {
			continue
		}
		c.StartDate = normalizeDate(c.StartDate)
		c.EndDate = normalizeDate(c.EndDate)
		kept = append(kept, c)
	}
	return kept, nil
}

// dateLayouts are the client-supplied granularities accepted for dates.
// Month granularity resolves to the first of the month.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	time.RFC3339,
}

// normalizeDate converts to ISO calendar-date format. Unparseable values pass
// through unchanged rather than failing the whole update.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
