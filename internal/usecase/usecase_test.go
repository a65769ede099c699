package usecase_test

import (
	"context"
	"testing"
	"time"

	"go-profile-backend/internal/domain"
	"go-profile-backend/internal/usecase"
	"go-profile-backend/pkg/apperror"
	"go-profile-backend/pkg/auth"
	"go-profile-backend/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) SetResetToken(ctx context.Context, email, token string, expires time.Time) (bool, error) {
	args := m.Called(ctx, email, token, expires)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepo) ConsumeReset(ctx context.Context, email, token, newHash string) error {
	return m.Called(ctx, email, token, newHash).Error(0)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) Upsert(ctx context.Context, userID string, patch *domain.ProfilePatch) (*domain.Profile, error) {
	args := m.Called(ctx, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) Delete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func newAuthUsecase(repo domain.AccountRepository) domain.AuthUsecase {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return usecase.NewAuthUsecase(repo, tokens, nil, time.Hour)
}

func TestRegister(t *testing.T) {
	t.Run("Should hash the password before persisting", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		uc := newAuthUsecase(mockRepo)

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil).Run(func(args mock.Arguments) {
			account := args.Get(1).(*domain.Account)
			assert.NotEqual(t, "secret1", account.PasswordHash)
			assert.True(t, security.CheckPassword(account.PasswordHash, "secret1"))
			assert.NotEmpty(t, account.ID)
		})

		account, err := uc.Register(context.Background(), "a@x.com", "secret1")
		assert.NoError(t, err)
		assert.Equal(t, "a@x.com", account.Email)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Should surface Conflict for a duplicate email", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		uc := newAuthUsecase(mockRepo)

		mockRepo.On("Create", mock.Anything, mock.Anything).Return(apperror.Conflict("An account with this email already exists"))

		_, err := uc.Register(context.Background(), "a@x.com", "secret1")
		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 409, appErr.Code)
	})

	t.Run("Should reject short passwords without touching storage", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		uc := newAuthUsecase(mockRepo)

		_, err := uc.Register(context.Background(), "a@x.com", "short")
		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestLogin(t *testing.T) {
	hash, err := security.HashPassword("secret1")
	assert.NoError(t, err)
	stored := &domain.Account{ID: "user1", Email: "a@x.com", PasswordHash: hash}

	t.Run("Should succeed with the right credentials", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		uc := newAuthUsecase(mockRepo)
		mockRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(stored, nil)

		account, token, err := uc.Login(context.Background(), "a@x.com", "secret1")
		assert.NoError(t, err)
		assert.Equal(t, "user1", account.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("Unknown email and wrong password fail identically", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		uc := newAuthUsecase(mockRepo)
		mockRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(stored, nil)
		mockRepo.On("GetByEmail", mock.Anything, "ghost@x.com").Return(nil, nil)

		_, _, wrongPwErr := uc.Login(context.Background(), "a@x.com", "wrong")
		_, _, unknownErr := uc.Login(context.Background(), "ghost@x.com", "whatever")

		assert.Error(t, wrongPwErr)
		assert.Error(t, unknownErr)
		assert.Equal(t, wrongPwErr.Error(), unknownErr.Error())

		wrongApp := wrongPwErr.(*apperror.AppError)
		unknownApp := unknownErr.(*apperror.AppError)
		assert.Equal(t, wrongApp.Code, unknownApp.Code)
		assert.Equal(t, 401, wrongApp.Code)
	})
}

func TestRequestReset(t *testing.T) {
	t.Run("Should not reveal unknown emails", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		uc := newAuthUsecase(mockRepo)
		mockRepo.On("GetByEmail", mock.Anything, "ghost@x.com").Return(nil, nil)

		err := uc.RequestReset(context.Background(), "ghost@x.com")
		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "SetResetToken")
	})

	t.Run("Should store a random token with an expiry", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		uc := newAuthUsecase(mockRepo)
		mockRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.Account{ID: "user1", Email: "a@x.com"}, nil)

		var firstToken string
		mockRepo.On("SetResetToken", mock.Anything, "a@x.com", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return(true, nil).Run(func(args mock.Arguments) {
			token := args.String(2)
			expires := args.Get(3).(time.Time)
			assert.Len(t, token, 64) // 32 random bytes, hex encoded
			assert.True(t, expires.After(time.Now().Add(50*time.Minute)))
			if firstToken == "" {
				firstToken = token
			} else {
				assert.NotEqual(t, firstToken, token)
			}
		})

		assert.NoError(t, uc.RequestReset(context.Background(), "a@x.com"))
		assert.NoError(t, uc.RequestReset(context.Background(), "a@x.com"))
		mockRepo.AssertNumberOfCalls(t, "SetResetToken", 2)
	})
}

func TestResetPassword(t *testing.T) {
	t.Run("Should fail on password mismatch before touching storage", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		uc := newAuthUsecase(mockRepo)

		err := uc.ResetByEmail(context.Background(), "a@x.com", "newpass1", "different")
		appErr := err.(*apperror.AppError)
		assert.Equal(t, 400, appErr.Code)
		mockRepo.AssertNotCalled(t, "ConsumeReset")
	})

	t.Run("Should store the new password as a hash", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		uc := newAuthUsecase(mockRepo)

		mockRepo.On("ConsumeReset", mock.Anything, "a@x.com", "", mock.AnythingOfType("string")).
			Return(nil).Run(func(args mock.Arguments) {
			assert.True(t, security.CheckPassword(args.String(3), "newpass1"))
		})

		assert.NoError(t, uc.ResetByEmail(context.Background(), "a@x.com", "newpass1", "newpass1"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("A consumed token cannot be consumed again", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		uc := newAuthUsecase(mockRepo)

		mockRepo.On("ConsumeReset", mock.Anything, "a@x.com", "tok", mock.Anything).Return(nil).Once()
		mockRepo.On("ConsumeReset", mock.Anything, "a@x.com", "tok", mock.Anything).
			Return(apperror.NotFound("No pending password reset for this account"))

		assert.NoError(t, uc.ResetByToken(context.Background(), "a@x.com", "tok", "newpass1", "newpass1"))

		err := uc.ResetByToken(context.Background(), "a@x.com", "tok", "newpass1", "newpass1")
		appErr := err.(*apperror.AppError)
		assert.Equal(t, 404, appErr.Code)
	})

	t.Run("An expired token fails with Gone", func(t *testing.T) {
		mockRepo := new(MockAccountRepo)
		uc := newAuthUsecase(mockRepo)

		mockRepo.On("ConsumeReset", mock.Anything, "a@x.com", "tok", mock.Anything).
			Return(apperror.Gone("Reset token has expired"))

		err := uc.ResetByToken(context.Background(), "a@x.com", "tok", "newpass1", "newpass1")
		appErr := err.(*apperror.AppError)
		assert.Equal(t, 410, appErr.Code)
	})
}

func TestProfileOwnership(t *testing.T) {
	t.Run("Should fail when context user does not match the target", func(t *testing.T) {
		mockRepo := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(mockRepo)

		ctx := context.WithValue(context.Background(), domain.KeyUserID, "user1")
		_, err := uc.GetProfile(ctx, "user2")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "your own profile")
	})

	t.Run("Should fail safely when context has no user", func(t *testing.T) {
		mockRepo := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(mockRepo)

		_, err := uc.GetProfile(context.Background(), "user1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not authenticated")
	})
}

func TestProfileLifecycle(t *testing.T) {
	ctx := context.WithValue(context.Background(), domain.KeyUserID, "user1")

	t.Run("Missing profile maps to NotFound", func(t *testing.T) {
		mockRepo := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(mockRepo)
		mockRepo.On("GetByUserID", ctx, "user1").Return(nil, nil)

		_, err := uc.GetProfile(ctx, "user1")
		appErr := err.(*apperror.AppError)
		assert.Equal(t, 404, appErr.Code)
	})

	t.Run("Update passes the patch through to the repository", func(t *testing.T) {
		mockRepo := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(mockRepo)

		bio := "x"
		patch := &domain.ProfilePatch{Bio: &bio}
		mockRepo.On("Upsert", ctx, "user1", patch).Return(&domain.Profile{UserID: "user1", Bio: "x"}, nil)

		profile, err := uc.UpdateProfile(ctx, "user1", patch)
		assert.NoError(t, err)
		assert.Equal(t, "x", profile.Bio)
	})

	t.Run("Delete is forwarded and idempotent at the repo", func(t *testing.T) {
		mockRepo := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(mockRepo)
		mockRepo.On("Delete", ctx, "user1").Return(nil)

		assert.NoError(t, uc.DeleteProfile(ctx, "user1"))
	})
}
