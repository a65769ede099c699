package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

const profileColumns = `user_id, first_name, last_name, phone, address, bio,
	skills, education, certificates, photo_path, resume_path, updated_at`

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	profile, err := scanProfile(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

// Upsert merges the patch onto the stored row in a single statement. NULL
// parameters keep the stored value on conflict and fall back to the column
// default on first insert, so a partial update is atomic and merge-on-write.
func (r *profileRepo) Upsert(ctx context.Context, userID string, patch *domain.ProfilePatch) (*domain.Profile, error) {
	var skillsArg interface{}
	if patch.Skills != nil {
		skillsArg = pq.Array(patch.Skills)
	}

	eduArg, err := marshalNullable(patch.Education != nil, patch.Education)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to encode education: %w", err))
	}
	certArg, err := marshalNullable(patch.Certificates != nil, patch.Certificates)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to encode certificates: %w", err))
	}

	query := `
		INSERT INTO profiles (
			user_id, first_name, last_name, phone, address, bio,
			skills, education, certificates, photo_path, resume_path, updated_at
		) VALUES (
			$1, COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, ''), COALESCE($5, ''), COALESCE($6, ''),
			COALESCE($7::text[], '{}'), COALESCE($8::jsonb, '[]'), COALESCE($9::jsonb, '[]'),
			COALESCE($10, ''), COALESCE($11, ''), NOW()
		)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name   = COALESCE($2, profiles.first_name),
			last_name    = COALESCE($3, profiles.last_name),
			phone        = COALESCE($4, profiles.phone),
			address      = COALESCE($5, profiles.address),
			bio          = COALESCE($6, profiles.bio),
			skills       = COALESCE($7::text[], profiles.skills),
			education    = COALESCE($8::jsonb, profiles.education),
			certificates = COALESCE($9::jsonb, profiles.certificates),
			photo_path   = COALESCE($10, profiles.photo_path),
			resume_path  = COALESCE($11, profiles.resume_path),
			updated_at   = NOW()
		RETURNING ` + profileColumns

	profile, err := scanProfile(r.db.QueryRow(ctx, query,
		userID, patch.FirstName, patch.LastName, patch.Phone, patch.Address, patch.Bio,
		skillsArg, eduArg, certArg, patch.PhotoPath, patch.ResumePath,
	))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

func (r *profileRepo) Delete(ctx context.Context, userID string) error {
	// Idempotent: zero affected rows is fine
	_, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func marshalNullable(present bool, v interface{}) (interface{}, error) {
	if !present {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	var skills []string
	var eduJSON, certJSON []byte

	err := row.Scan(
		&p.UserID, &p.FirstName, &p.LastName, &p.Phone, &p.Address, &p.Bio,
		pq.Array(&skills), &eduJSON, &certJSON, &p.PhotoPath, &p.ResumePath, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Skills = skills
	if p.Skills == nil {
		p.Skills = []string{}
	}

	p.Education = []domain.Education{}
	if len(eduJSON) > 0 {
		if err := json.Unmarshal(eduJSON, &p.Education); err != nil {
			return nil, fmt.Errorf("failed to decode education: %w", err)
		}
	}

	p.Certificates = []domain.Certificate{}
	if len(certJSON) > 0 {
		if err := json.Unmarshal(certJSON, &p.Certificates); err != nil {
			return nil, fmt.Errorf("failed to decode certificates: %w", err)
		}
	}

	return &p, nil
}
