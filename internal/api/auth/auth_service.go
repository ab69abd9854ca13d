package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/markbates/goth"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const minPasswordLength = 8

var _ AuthService = (*AuthServiceImpl)(nil)

type AuthService interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	Register(ctx context.Context, username, email, password string) error
	RefreshSession(ctx context.Context, refreshToken string) (accessToken, newRefreshToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error)
	GenerateTokens(ctx context.Context, user *types.UserAuth) (accessToken, refreshToken string, err error)
	GetOrCreateUserFromProvider(ctx context.Context, provider string, providerUser goth.User) (*types.UserAuth, error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	jwtCfg config.JWTConfig
	now    func() time.Time
}

func NewAuthService(repo AuthRepo, cfg *config.Config, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		jwtCfg: cfg.JWT,
		now:    time.Now,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, string, error) {
	l := s.logger.With(slog.String("method", "Login"))

	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			l.WarnContext(ctx, "Login attempt for unknown email")
			return "", "", fmt.Errorf("invalid credentials: %w", api.ErrUnauthenticated)
		}
		return "", "", fmt.Errorf("login: %w", err)
	}

	if user.Password == "" {
		// provider-only account
		return "", "", fmt.Errorf("invalid credentials: %w", api.ErrUnauthenticated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		l.WarnContext(ctx, "Password mismatch", slog.String("userID", user.ID))
		return "", "", fmt.Errorf("invalid credentials: %w", api.ErrUnauthenticated)
	}

	return s.GenerateTokens(ctx, user)
}

func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("username and a valid email are required: %w", api.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, api.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.repo.Register(ctx, username, email, string(hashed))
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "User registered", slog.String("userID", userID))
	return nil
}

// RefreshSession rotates the refresh token: the presented one is revoked and a new pair is issued.
func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", fmt.Errorf("refresh token required: %w", api.ErrUnauthenticated)
	}
	userID, err := s.repo.ValidateRefreshTokenAndGetUserID(ctx, refreshToken)
	if err != nil {
		return "", "", err
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return "", "", fmt.Errorf("user for refresh token no longer exists: %w", api.ErrUnauthenticated)
		}
		return "", "", err
	}
	if err := s.repo.InvalidateRefreshToken(ctx, refreshToken); err != nil {
		return "", "", err
	}
	return s.GenerateTokens(ctx, user)
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return fmt.Errorf("refresh token required: %w", api.ErrValidation)
	}
	return s.repo.InvalidateRefreshToken(ctx, refreshToken)
}

func (s *AuthServiceImpl) GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// GenerateTokens signs an HS256 access token and persists a random opaque refresh token.
func (s *AuthServiceImpl) GenerateTokens(ctx context.Context, user *types.UserAuth) (string, string, error) {
	now := s.now()
	claims := &types.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.jwtCfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.AccessTokenTTL)),
		},
	}
	if s.jwtCfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.jwtCfg.Audience}
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return "", "", err
	}
	if err := s.repo.StoreRefreshToken(ctx, user.ID, refreshToken, now.Add(s.jwtCfg.RefreshTokenTTL)); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// GetOrCreateUserFromProvider resolves an OAuth identity to a local user, creating one on first sign-in.
func (s *AuthServiceImpl) GetOrCreateUserFromProvider(ctx context.Context, provider string, providerUser goth.User) (*types.UserAuth, error) {
	l := s.logger.With(slog.String("method", "GetOrCreateUserFromProvider"), slog.String("provider", provider))

	user, err := s.repo.GetUserByProvider(ctx, provider, providerUser.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, api.ErrNotFound) {
		return nil, err
	}

	email := strings.ToLower(providerUser.Email)
	if email == "" {
		return nil, fmt.Errorf("provider did not return an email: %w", api.ErrValidation)
	}
	if existing, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		l.WarnContext(ctx, "Email already registered with a different login method", slog.String("userID", existing.ID))
		return nil, fmt.Errorf("email already registered: %w", api.ErrConflict)
	} else if !errors.Is(err, api.ErrNotFound) {
		return nil, err
	}

	username := providerUser.NickName
	if username == "" {
		username = providerUser.Name
	}
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	userID, err := s.repo.CreateProviderUser(ctx, provider, providerUser.UserID, username, email)
	if err != nil {
		return nil, err
	}
	l.InfoContext(ctx, "Created user from provider", slog.String("userID", userID))

	return &types.UserAuth{
		ID:         userID,
		Username:   username,
		Email:      email,
		Provider:   provider,
		ProviderID: providerUser.UserID,
		Role:       "user",
		CreatedAt:  s.now(),
		UpdatedAt:  s.now(),
	}, nil
}

func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
