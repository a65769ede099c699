package domain

import (
	"context"
	"time"
)

// Account is the authentication identity. Password and reset state never
// leave the server; the profile path never reads them.
type Account struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	ResetToken   *string    `json:"-"`
	ResetExpires *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}

// HasPendingReset reports whether an unexpired reset token is stored.
func (a *Account) HasPendingReset(now time.Time) bool {
	return a.ResetToken != nil && a.ResetExpires != nil && a.ResetExpires.After(now)
}

type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	// GetByEmail matches case-insensitively and returns (nil, nil) when absent.
	GetByEmail(ctx context.Context, email string) (*Account, error)
	// SetResetToken stores a reset token and its expiry for the account.
	// Returns false when no account matches the email.
	SetResetToken(ctx context.Context, email, token string, expires time.Time) (bool, error)
	// ConsumeReset atomically replaces the password hash and clears the reset
	// token, provided a matching non-expired token exists. An empty token
	// matches any pending reset for the email. Fails with Gone when the token
	// expired and NotFound when no pending reset exists.
	ConsumeReset(ctx context.Context, email, token, newHash string) error
}

type AuthUsecase interface {
	Register(ctx context.Context, email, password string) (*Account, error)
	// Login returns the account and a signed bearer token. Unknown email and
	// wrong password fail identically.
	Login(ctx context.Context, email, password string) (*Account, string, error)
	// RequestReset never reveals whether the email exists.
	RequestReset(ctx context.Context, email string) error
	ResetByEmail(ctx context.Context, email, newPassword, confirmPassword string) error
	ResetByToken(ctx context.Context, email, token, newPassword, confirmPassword string) error
}
