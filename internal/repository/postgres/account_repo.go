package postgres

import (
	"context"
	"errors"
	"time"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

type accountRepo struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) domain.AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) Create(ctx context.Context, account *domain.Account) error {
	query := `INSERT INTO users (id, email, password_hash, created_at)
              VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, account.ID, account.Email, account.PasswordHash, account.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("An account with this email already exists")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT id, email, password_hash, reset_token, reset_expires, created_at
              FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT id, email, password_hash, reset_token, reset_expires, created_at
              FROM users WHERE lower(email) = lower($1)`
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

func (r *accountRepo) scanOne(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID, &account.Email, &account.PasswordHash,
		&account.ResetToken, &account.ResetExpires, &account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Internal(err)
	}
	return &account, nil
}

func (r *accountRepo) SetResetToken(ctx context.Context, email, token string, expires time.Time) (bool, error) {
	query := `UPDATE users SET reset_token = $2, reset_expires = $3
              WHERE lower(email) = lower($1)`
	tag, err := r.db.Exec(ctx, query, email, token, expires)
	if err != nil {
		return false, apperror.Internal(err)
	}
	return tag.RowsAffected() > 0, nil
}

// ConsumeReset is a single conditional UPDATE so that two concurrent reset
// completions cannot both succeed with the same token. A zero-row result is
// classified afterwards as expired vs absent.
func (r *accountRepo) ConsumeReset(ctx context.Context, email, token, newHash string) error {
	query := `UPDATE users SET password_hash = $2, reset_token = NULL, reset_expires = NULL
              WHERE lower(email) = lower($1)
                AND reset_token IS NOT NULL
                AND reset_expires > NOW()`
	args := []interface{}{email, newHash}
	if token != "" {
		query += ` AND reset_token = $3`
		args = append(args, token)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return apperror.Internal(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing consumed: either the token expired or no pending reset exists.
	checkQuery := `SELECT reset_expires FROM users
                   WHERE lower(email) = lower($1) AND reset_token IS NOT NULL`
	checkArgs := []interface{}{email}
	if token != "" {
		checkQuery += ` AND reset_token = $2`
		checkArgs = append(checkArgs, token)
	}

	var expires *time.Time
	err = r.db.QueryRow(ctx, checkQuery, checkArgs...).Scan(&expires)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NotFound("No pending password reset for this account")
		}
		return apperror.Internal(err)
	}

	if expires != nil && !expires.After(time.Now()) {
		// Clear the stale token so it cannot linger
		clearQuery := `UPDATE users SET reset_token = NULL, reset_expires = NULL
                       WHERE lower(email) = lower($1) AND reset_expires <= NOW()`
		if _, clearErr := r.db.Exec(ctx, clearQuery, email); clearErr != nil {
			return apperror.Internal(clearErr)
		}
		return apperror.Gone("Reset token has expired")
	}
	return apperror.NotFound("No pending password reset for this account")
}
