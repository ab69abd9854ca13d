package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

type AuthRepo interface {
	GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error)
	GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error)
	GetUserByProvider(ctx context.Context, provider, providerID string) (*types.UserAuth, error)
	Register(ctx context.Context, username, email, hashedPassword string) (string, error)
	CreateProviderUser(ctx context.Context, provider, providerID, username, email string) (string, error)
	StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	ValidateRefreshTokenAndGetUserID(ctx context.Context, refreshToken string) (string, error)
	InvalidateRefreshToken(ctx context.Context, refreshToken string) error
	InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool database.DBTX
}

func NewPostgresAuthRepo(pgpool database.DBTX, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const userColumns = `id::text, username, email, COALESCE(password_hash, ''), COALESCE(provider, ''), role, created_at, updated_at`

func scanUser(row pgx.Row) (*types.UserAuth, error) {
	var u types.UserAuth
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Provider, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, api.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error) {
	u, err := scanUser(r.pgpool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		return nil, fmt.Errorf("get user by email: query failed: %w", err)
	}
	return u, err
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error) {
	u, err := scanUser(r.pgpool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		return nil, fmt.Errorf("get user by id: query failed: %w", err)
	}
	return u, err
}

func (r *PostgresAuthRepo) GetUserByProvider(ctx context.Context, provider, providerID string) (*types.UserAuth, error) {
	u, err := scanUser(r.pgpool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE provider = $1 AND provider_id = $2`, provider, providerID))
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		return nil, fmt.Errorf("get user by provider: query failed: %w", err)
	}
	return u, err
}

// Register inserts a password user and returns its id. A duplicate email is ErrConflict.
func (r *PostgresAuthRepo) Register(ctx context.Context, username, email, hashedPassword string) (string, error) {
	var userID string
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
         VALUES ($1, $2, $3)
         RETURNING id::text`,
		username, email, hashedPassword).Scan(&userID)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("email %q already registered: %w", email, api.ErrConflict)
		}
		return "", fmt.Errorf("register: db insert failed: %w", err)
	}
	return userID, nil
}

func (r *PostgresAuthRepo) CreateProviderUser(ctx context.Context, provider, providerID, username, email string) (string, error) {
	var userID string
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO users (username, email, provider, provider_id)
         VALUES ($1, $2, $3, $4)
         RETURNING id::text`,
		username, email, provider, providerID).Scan(&userID)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("email %q already registered: %w", email, api.ErrConflict)
		}
		return "", fmt.Errorf("create provider user: db insert failed: %w", err)
	}
	return userID, nil
}

func (r *PostgresAuthRepo) StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := r.pgpool.Exec(ctx,
		`INSERT INTO refresh_tokens (user_id, token, expires_at)
         VALUES ($1, $2, $3)`,
		userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("store refresh token: db insert failed: %w", err)
	}
	return nil
}

// ValidateRefreshTokenAndGetUserID returns ErrUnauthenticated for unknown, expired or revoked tokens.
func (r *PostgresAuthRepo) ValidateRefreshTokenAndGetUserID(ctx context.Context, refreshToken string) (string, error) {
	var userID string
	var expiresAt time.Time
	var revokedAt *time.Time

	err := r.pgpool.QueryRow(ctx,
		`SELECT user_id::text, expires_at, revoked_at
         FROM refresh_tokens
         WHERE token = $1`, refreshToken).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("unknown refresh token: %w", api.ErrUnauthenticated)
		}
		return "", fmt.Errorf("validate refresh token: query failed: %w", err)
	}

	if revokedAt != nil || time.Now().After(expiresAt) {
		return "", fmt.Errorf("refresh token expired or revoked: %w", api.ErrUnauthenticated)
	}
	return userID, nil
}

func (r *PostgresAuthRepo) InvalidateRefreshToken(ctx context.Context, refreshToken string) error {
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW()
         WHERE token = $1 AND revoked_at IS NULL`,
		refreshToken)
	if err != nil {
		return fmt.Errorf("invalidate refresh token: db update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "No active refresh token found to invalidate")
	}
	return nil
}

func (r *PostgresAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error {
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW()
		 WHERE user_id = $1 AND revoked_at IS NULL`,
		userID)
	if err != nil {
		return fmt.Errorf("invalidate all tokens: db update failed: %w", err)
	}
	r.logger.DebugContext(ctx, "Refresh tokens invalidated", slog.String("userID", userID), slog.Int64("count", tag.RowsAffected()))
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
