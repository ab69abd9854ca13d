package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Repository = (*PostgresPlannerRepo)(nil)

type Repository interface {
	SaveItinerary(ctx context.Context, tripID uuid.UUID, itinerary types.GeneratedItinerary) error
	GetItinerary(ctx context.Context, tripID uuid.UUID) (*types.GeneratedItinerary, error)
	SaveInteraction(ctx context.Context, interaction types.LlmInteraction) error
}

type PostgresPlannerRepo struct {
	logger *slog.Logger
	pgpool database.DBTX
}

func NewPostgresPlannerRepo(pgpool database.DBTX, logger *slog.Logger) *PostgresPlannerRepo {
	return &PostgresPlannerRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

// SaveItinerary keeps one itinerary per trip; regenerating replaces it.
func (r *PostgresPlannerRepo) SaveItinerary(ctx context.Context, tripID uuid.UUID, itinerary types.GeneratedItinerary) error {
	query := `
        INSERT INTO trip_itineraries (trip_id, destination, start_date, end_date, content)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (trip_id) DO UPDATE
        SET destination = EXCLUDED.destination,
            start_date  = EXCLUDED.start_date,
            end_date    = EXCLUDED.end_date,
            content     = EXCLUDED.content,
            updated_at  = NOW()`
	_, err := r.pgpool.Exec(ctx, query,
		tripID, itinerary.Destination, itinerary.StartDate, itinerary.EndDate, itinerary.Content)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to save itinerary", slog.String("tripID", tripID.String()), slog.Any("error", err))
		return fmt.Errorf("failed to save itinerary: %w", err)
	}
	return nil
}

func (r *PostgresPlannerRepo) GetItinerary(ctx context.Context, tripID uuid.UUID) (*types.GeneratedItinerary, error) {
	query := `
        SELECT COALESCE(destination, ''), COALESCE(start_date, ''), COALESCE(end_date, ''), content
        FROM trip_itineraries
        WHERE trip_id = $1`
	var it types.GeneratedItinerary
	err := r.pgpool.QueryRow(ctx, query, tripID).Scan(&it.Destination, &it.StartDate, &it.EndDate, &it.Content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no itinerary for trip %s: %w", tripID, api.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get itinerary: %w", err)
	}
	return &it, nil
}

func (r *PostgresPlannerRepo) SaveInteraction(ctx context.Context, interaction types.LlmInteraction) error {
	query := `
        INSERT INTO llm_interactions (
            user_id, trip_id, mode, prompt, response_text, model_used, latency_ms
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.pgpool.Exec(ctx, query,
		interaction.UserID, interaction.TripID, interaction.Mode, interaction.Prompt,
		interaction.ResponseText, interaction.ModelUsed, interaction.LatencyMs,
	)
	return err
}
