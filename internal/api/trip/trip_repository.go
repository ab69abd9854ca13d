package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the trip store. Every lookup is scoped by owner.
type Repository interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, req types.TripRequest) (*types.Trip, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error)
	UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, req types.TripRequest) (*types.Trip, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
	CreateInvite(ctx context.Context, tripID, invitedBy uuid.UUID, email string) (*types.TripInvite, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool database.DBTX
}

func NewRepository(pgpool database.DBTX, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

const tripColumns = `id, user_id, title, description, location, budget, travel_partner,
               start_date, end_date, created_at, updated_at`

func scanTrip(row pgx.Row) (*types.Trip, error) {
	var t types.Trip
	var start, end *time.Time
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Location, &t.Budget, &t.TravelPartner,
		&start, &end, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.StartDate = types.FormatDate(start)
	t.EndDate = types.FormatDate(end)
	return &t, nil
}

// tripDates assumes the service already validated the format.
func tripDates(req types.TripRequest) (*time.Time, *time.Time, error) {
	start, err := types.ParseDate(req.StartDate)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", api.ErrValidation, err)
	}
	end, err := types.ParseDate(req.EndDate)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", api.ErrValidation, err)
	}
	return start, end, nil
}

func (r *RepositoryImpl) CreateTrip(ctx context.Context, userID uuid.UUID, req types.TripRequest) (*types.Trip, error) {
	start, end, err := tripDates(req)
	if err != nil {
		return nil, err
	}

	query := `
        INSERT INTO trips (user_id, title, description, location, budget, travel_partner, start_date, end_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + tripColumns
	t, err := scanTrip(r.pgpool.QueryRow(ctx, query,
		userID, req.Title, req.Description, req.Location, req.Budget, req.TravelPartner, start, end))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to create trip", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	return t, nil
}

func (r *RepositoryImpl) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 AND user_id = $2`
	t, err := scanTrip(r.pgpool.QueryRow(ctx, query, tripID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return t, nil
}

func (r *RepositoryImpl) ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := []types.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trips: %w", err)
	}
	return trips, nil
}

func (r *RepositoryImpl) UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, req types.TripRequest) (*types.Trip, error) {
	start, end, err := tripDates(req)
	if err != nil {
		return nil, err
	}

	query := `
        UPDATE trips
        SET title = $3, description = $4, location = $5, budget = $6, travel_partner = $7,
            start_date = $8, end_date = $9, updated_at = NOW()
        WHERE id = $1 AND user_id = $2
        RETURNING ` + tripColumns
	t, err := scanTrip(r.pgpool.QueryRow(ctx, query,
		tripID, userID, req.Title, req.Description, req.Location, req.Budget, req.TravelPartner, start, end))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to update trip", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}
	return t, nil
}

func (r *RepositoryImpl) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM trips WHERE id = $1 AND user_id = $2`, tripID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
	}
	return nil
}

// CreateInvite records a pending invite. Nothing is sent and no access is granted.
func (r *RepositoryImpl) CreateInvite(ctx context.Context, tripID, invitedBy uuid.UUID, email string) (*types.TripInvite, error) {
	query := `
        INSERT INTO trip_partner_invites (trip_id, invited_by, partner_email, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, trip_id, invited_by, partner_email, status, created_at`
	var inv types.TripInvite
	err := r.pgpool.QueryRow(ctx, query, tripID, invitedBy, email, types.InviteStatusPending).
		Scan(&inv.ID, &inv.TripID, &inv.InvitedBy, &inv.PartnerEmail, &inv.Status, &inv.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%s already invited: %w", email, api.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	return &inv, nil
}
