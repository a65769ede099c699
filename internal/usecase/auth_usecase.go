package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"
	"go-profile-backend/pkg/auth"
	"go-profile-backend/pkg/email"
	"go-profile-backend/pkg/security"

	"github.com/google/uuid"
)

const minPasswordLen = 6

type authUsecase struct {
	accountRepo domain.AccountRepository
	tokens      *auth.TokenManager
	mailer      *email.EmailService
	resetTTL    time.Duration
}

func NewAuthUsecase(accountRepo domain.AccountRepository, tokens *auth.TokenManager, mailer *email.EmailService, resetTTL time.Duration) domain.AuthUsecase {
	return &authUsecase{
		accountRepo: accountRepo,
		tokens:      tokens,
		mailer:      mailer,
		resetTTL:    resetTTL,
	}
}

func (u *authUsecase) Register(ctx context.Context, emailAddr, password string) (*domain.Account, error) {
	emailAddr = strings.TrimSpace(emailAddr)
	if len(password) < minPasswordLen {
		return nil, apperror.BadRequest("Password must be at least 6 characters")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	// Duplicate emails (any case variant) surface as Conflict from the repo
	if err := u.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (u *authUsecase) Login(ctx context.Context, emailAddr, password string) (*domain.Account, string, error) {
	account, err := u.accountRepo.GetByEmail(ctx, strings.TrimSpace(emailAddr))
	if err != nil {
		return nil, "", err
	}
	if account == nil {
		// Burn a hash comparison so an unknown email costs the same as a
		// wrong password, and fail with the identical payload
		security.BurnPasswordCheck(password)
		return nil, "", apperror.Unauthorized("Invalid email or password")
	}
	if !security.CheckPassword(account.PasswordHash, password) {
		return nil, "", apperror.Unauthorized("Invalid email or password")
	}

	token, err := u.tokens.Issue(account.ID, account.Email)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	return account, token, nil
}

// RequestReset always reports success to the caller; whether the email exists
// is never revealed.
func (u *authUsecase) RequestReset(ctx context.Context, emailAddr string) error {
	emailAddr = strings.TrimSpace(emailAddr)
	account, err := u.accountRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if account == nil {
		return nil
	}

	token, err := generateResetToken()
	if err != nil {
		return apperror.Internal(err)
	}

	expires := time.Now().Add(u.resetTTL)
	if _, err := u.accountRepo.SetResetToken(ctx, emailAddr, token, expires); err != nil {
		return err
	}

	if u.mailer != nil && u.mailer.IsConfigured() {
		// Delivery is best-effort: a mail failure must not reveal anything
		_ = u.mailer.SendResetEmail(email.ResetEmailData{
			Email: account.Email,
			Token: token,
			TTL:   u.resetTTL.String(),
		})
	}
	return nil
}

func (u *authUsecase) ResetByEmail(ctx context.Context, emailAddr, newPassword, confirmPassword string) error {
	return u.completeReset(ctx, emailAddr, "", newPassword, confirmPassword)
}

func (u *authUsecase) ResetByToken(ctx context.Context, emailAddr, token, newPassword, confirmPassword string) error {
	if token == "" {
		return apperror.BadRequest("Reset token is required")
	}
	return u.completeReset(ctx, emailAddr, token, newPassword, confirmPassword)
}

func (u *authUsecase) completeReset(ctx context.Context, emailAddr, token, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return apperror.BadRequest("Passwords do not match")
	}
	if len(newPassword) < minPasswordLen {
		return apperror.BadRequest("Password must be at least 6 characters")
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return apperror.Internal(err)
	}

	// Single atomic consume: replaces the hash and clears the token, or fails
	// with NotFound/Gone. A token can never be used twice.
	return u.accountRepo.ConsumeReset(ctx, strings.TrimSpace(emailAddr), token, hash)
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
