package domain

import (
	"context"
	"time"
)

// Education is one education block. The profile stores a list for
// extensibility but updates replace it with a single current block.
type Education struct {
	Degree            string `json:"degree"`
	Institution       string `json:"institution"`
	Course            string `json:"course"`
	FieldOfStudy      string `json:"fieldOfStudy"`
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate"`
	CurrentlyStudying bool   `json:"currentlyStudying"`
	ExperienceLevel   string `json:"experienceLevel"`
}

type Certificate struct {
	CertificateName string `json:"certificateName"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	Description     string `json:"description"`
}

// Profile is the canonical professional-profile document, one per account.
// Skills, education and certificates are always arrays here regardless of how
// they arrived on the wire.
type Profile struct {
	UserID       string        `json:"userId"`
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	Phone        string        `json:"phone"`
	Address      string        `json:"address"`
	Bio          string        `json:"bio"`
	Skills       []string      `json:"skills"`
	Education    []Education   `json:"education"`
	Certificates []Certificate `json:"certificates"`
	PhotoPath    string        `json:"photoPath"`
	ResumePath   string        `json:"resumePath"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// ProfilePatch is a partial update. Nil fields retain the previously stored
// values (merge-on-write); non-nil fields replace them wholesale.
type ProfilePatch struct {
	FirstName    *string
	LastName     *string
	Phone        *string
	Address      *string
	Bio          *string
	Skills       []string
	Education    []Education
	Certificates []Certificate
	PhotoPath    *string
	ResumePath   *string
}

// ProfileForm is the raw wire shape of a profile update before validation and
// normalization. The flex fields accept a native array, a JSON-encoded string,
// or a raw string; the flat education fields are what multipart clients send
// in place of a structured education list.
type ProfileForm struct {
	FirstName *string   `json:"firstName"`
	LastName  *string   `json:"lastName"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	Bio       *string   `json:"bio"`
	Skills    FlexValue `json:"skills"`

	Education         FlexValue `json:"education"`
	EducationLevel    *string   `json:"educationLevel"`
	University        *string   `json:"university"`
	CourseName        *string   `json:"courseName"`
	FieldOfStudy      *string   `json:"fieldOfStudy"`
	StartDate         *string   `json:"startDate"`
	EndDate           *string   `json:"endDate"`
	CurrentlyStudying *bool     `json:"currentlyStudying"`
	ExperienceLevel   *string   `json:"experienceLevel"`

	Certificates FlexValue `json:"certificates"`
}

type ProfileRepository interface {
	// GetByUserID returns (nil, nil) when no profile row exists yet.
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	// Upsert merges the patch onto the stored row in one atomic statement and
	// returns the resulting document.
	Upsert(ctx context.Context, userID string, patch *ProfilePatch) (*Profile, error)
	// Delete is idempotent; deleting an absent profile is not an error.
	Delete(ctx context.Context, userID string) error
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, patch *ProfilePatch) (*Profile, error)
	DeleteProfile(ctx context.Context, userID string) error
}
