package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) GetUserByProvider(ctx context.Context, provider, providerID string) (*types.UserAuth, error) {
	args := m.Called(ctx, provider, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) Register(ctx context.Context, username, email, hashedPassword string) (string, error) {
	args := m.Called(ctx, username, email, hashedPassword)
	return args.String(0), args.Error(1)
}

func (m *MockAuthRepo) CreateProviderUser(ctx context.Context, provider, providerID, username, email string) (string, error) {
	args := m.Called(ctx, provider, providerID, username, email)
	return args.String(0), args.Error(1)
}

func (m *MockAuthRepo) StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

func (m *MockAuthRepo) ValidateRefreshTokenAndGetUserID(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthRepo) InvalidateRefreshToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			Issuer:          "trip-planner",
			Audience:        "trip-planner-web",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	user := &types.UserAuth{ID: "user-1", Username: "ana", Email: "ana@example.com", Role: "user", Password: hashed(t, "correct-horse")}

	t.Run("success issues parseable access token", func(t *testing.T) {
		repo := new(MockAuthRepo)
		service := NewAuthService(repo, testConfig(), testLogger())

		repo.On("GetUserByEmail", ctx, "ana@example.com").Return(user, nil)
		repo.On("StoreRefreshToken", ctx, "user-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

		access, refresh, err := service.Login(ctx, " Ana@Example.com ", "correct-horse")
		require.NoError(t, err)
		assert.NotEmpty(t, refresh)

		claims := &types.Claims{}
		_, err = jwt.ParseWithClaims(access, claims, func(*jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "trip-planner", claims.Issuer)
		assert.Contains(t, claims.Audience, "trip-planner-web")
		repo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockAuthRepo)
		service := NewAuthService(repo, testConfig(), testLogger())
		repo.On("GetUserByEmail", ctx, "ana@example.com").Return(user, nil)

		_, _, err := service.Login(ctx, "ana@example.com", "nope")
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
		repo.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockAuthRepo)
		service := NewAuthService(repo, testConfig(), testLogger())
		repo.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, api.ErrNotFound)

		_, _, err := service.Login(ctx, "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
	})

	t.Run("provider-only account cannot use password", func(t *testing.T) {
		repo := new(MockAuthRepo)
		service := NewAuthService(repo, testConfig(), testLogger())
		repo.On("GetUserByEmail", ctx, "g@example.com").Return(&types.UserAuth{ID: "u2", Email: "g@example.com", Provider: "google"}, nil)

		_, _, err := service.Login(ctx, "g@example.com", "anything")
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
	})

	t.Run("repository failure is not masked", func(t *testing.T) {
		repo := new(MockAuthRepo)
		service := NewAuthService(repo, testConfig(), testLogger())
		dbErr := errors.New("connection reset")
		repo.On("GetUserByEmail", ctx, "ana@example.com").Return(nil, dbErr)

		_, _, err := service.Login(ctx, "ana@example.com", "correct-horse")
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, api.ErrUnauthenticated)
	})
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes password", func(t *testing.T) {
		repo := new(MockAuthRepo)
		service := NewAuthService(repo, testConfig(), testLogger())
		var stored string
		repo.On("Register", ctx, "ana", "ana@example.com", mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { stored = args.String(3) }).
			Return("user-1", nil)

		err := service.Register(ctx, "ana", "Ana@example.com", "long-enough")
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("long-enough")))
	})

	t.Run("validation", func(t *testing.T) {
		repo := new(MockAuthRepo)
		service := NewAuthService(repo, testConfig(), testLogger())

		assert.ErrorIs(t, service.Register(ctx, "", "ana@example.com", "long-enough"), api.ErrValidation)
		assert.ErrorIs(t, service.Register(ctx, "ana", "not-an-email", "long-enough"), api.ErrValidation)
		assert.ErrorIs(t, service.Register(ctx, "ana", "ana@example.com", "short"), api.ErrValidation)
		repo.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockAuthRepo)
		service := NewAuthService(repo, testConfig(), testLogger())
		repo.On("Register", ctx, "ana", "ana@example.com", mock.AnythingOfType("string")).Return("", api.ErrConflict)

		assert.ErrorIs(t, service.Register(ctx, "ana", "ana@example.com", "long-enough"), api.ErrConflict)
	})
}

func TestAuthService_RefreshSession(t *testing.T) {
	ctx := context.Background()
	user := &types.UserAuth{ID: "user-1", Email: "ana@example.com"}

	t.Run("rotates token", func(t *testing.T) {
		repo := new(MockAuthRepo)
		service := NewAuthService(repo, testConfig(), testLogger())
		repo.On("ValidateRefreshTokenAndGetUserID", ctx, "old").Return("user-1", nil)
		repo.On("GetUserByID", ctx, "user-1").Return(user, nil)
		repo.On("InvalidateRefreshToken", ctx, "old").Return(nil)
		repo.On("StoreRefreshToken", ctx, "user-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

		access, refresh, err := service.RefreshSession(ctx, "old")
		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEqual(t, "old", refresh)
		repo.AssertExpectations(t)
	})

	t.Run("empty token", func(t *testing.T) {
		service := NewAuthService(new(MockAuthRepo), testConfig(), testLogger())
		_, _, err := service.RefreshSession(ctx, "")
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
	})

	t.Run("revoked token", func(t *testing.T) {
		repo := new(MockAuthRepo)
		service := NewAuthService(repo, testConfig(), testLogger())
		repo.On("ValidateRefreshTokenAndGetUserID", ctx, "old").Return("", api.ErrUnauthenticated)

		_, _, err := service.RefreshSession(ctx, "old")
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAuthRepo)
	service := NewAuthService(repo, testConfig(), testLogger())
	repo.On("InvalidateRefreshToken", ctx, "tok").Return(nil)

	assert.NoError(t, service.Logout(ctx, "tok"))
	assert.ErrorIs(t, service.Logout(ctx, ""), api.ErrValidation)
	repo.AssertExpectations(t)
}

func TestAuthService_GetOrCreateUserFromProvider(t *testing.T) {
	ctx := context.Background()
	gothUser := goth.User{UserID: "g-123", Email: "Bea@Example.com", Name: "Bea"}

	t.Run("existing provider user", func(t *testing.T) {
		repo := new(MockAuthRepo)
		service := NewAuthService(repo, testConfig(), testLogger())
		existing := &types.UserAuth{ID: "user-9"}
		repo.On("GetUserByProvider", ctx, "google", "g-123").Return(existing, nil)

		user, err := service.GetOrCreateUserFromProvider(ctx, "google", gothUser)
		require.NoError(t, err)
		assert.Same(t, existing, user)
	})

	t.Run("creates new user", func(t *testing.T) {
		repo := new(MockAuthRepo)
		service := NewAuthService(repo, testConfig(), testLogger())
		repo.On("GetUserByProvider", ctx, "google", "g-123").Return(nil, api.ErrNotFound)
		repo.On("GetUserByEmail", ctx, "bea@example.com").Return(nil, api.ErrNotFound)
		repo.On("CreateProviderUser", ctx, "google", "g-123", "Bea", "bea@example.com").Return("user-10", nil)

		user, err := service.GetOrCreateUserFromProvider(ctx, "google", gothUser)
		require.NoError(t, err)
		assert.Equal(t, "user-10", user.ID)
		assert.Equal(t, "google", user.Provider)
	})

	t.Run("email taken by password account", func(t *testing.T) {
		repo := new(MockAuthRepo)
		service := NewAuthService(repo, testConfig(), testLogger())
		repo.On("GetUserByProvider", ctx, "google", "g-123").Return(nil, api.ErrNotFound)
		repo.On("GetUserByEmail", ctx, "bea@example.com").Return(&types.UserAuth{ID: "user-3"}, nil)

		_, err := service.GetOrCreateUserFromProvider(ctx, "google", gothUser)
		assert.ErrorIs(t, err, api.ErrConflict)
	})
}
