package tripItem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// ItemParams is a validated item ready for storage.
type ItemParams struct {
	Type        types.ItemType
	Title       string
	Description *string
	Location    *string
	Start       *time.Time
	End         *time.Time
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	CreateItem(ctx context.Context, tripID uuid.UUID, p ItemParams) (*types.TripItem, error)
	GetItem(ctx context.Context, tripID, itemID uuid.UUID) (*types.TripItem, error)
	ListItems(ctx context.Context, tripID uuid.UUID) ([]types.TripItem, error)
	UpdateItem(ctx context.Context, tripID, itemID uuid.UUID, p ItemParams) (*types.TripItem, error)
	DeleteItem(ctx context.Context, tripID, itemID uuid.UUID) error
	BatchInsert(ctx context.Context, tripID uuid.UUID, items []ItemParams) ([]types.TripItem, error)
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

const itemColumns = `id, trip_id, type, title, description, location, start_datetime, end_datetime, created_at, updated_at`

const insertItemQuery = `
        INSERT INTO trip_items (trip_id, type, title, description, location, start_datetime, end_datetime)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + itemColumns

func scanItem(row pgx.Row) (*types.TripItem, error) {
	var it types.TripItem
	var itemType string
	var start, end *time.Time
	err := row.Scan(&it.ID, &it.TripID, &itemType, &it.Title, &it.Description, &it.Location,
		&start, &end, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	it.Type = types.ItemType(itemType)
	it.StartDatetime = types.FormatLocalDateTime(start)
	it.EndDatetime = types.FormatLocalDateTime(end)
	return &it, nil
}

func insertArgs(tripID uuid.UUID, p ItemParams) []any {
	return []any{tripID, string(p.Type), p.Title, p.Description, p.Location, p.Start, p.End}
}

func (r *RepositoryImpl) CreateItem(ctx context.Context, tripID uuid.UUID, p ItemParams) (*types.TripItem, error) {
	it, err := scanItem(r.pgpool.QueryRow(ctx, insertItemQuery, insertArgs(tripID, p)...))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to create trip item", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create trip item: %w", err)
	}
	return it, nil
}

func (r *RepositoryImpl) GetItem(ctx context.Context, tripID, itemID uuid.UUID) (*types.TripItem, error) {
	query := `SELECT ` + itemColumns + ` FROM trip_items WHERE id = $1 AND trip_id = $2`
	it, err := scanItem(r.pgpool.QueryRow(ctx, query, itemID, tripID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trip item %s: %w", itemID, api.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get trip item: %w", err)
	}
	return it, nil
}

// ListItems returns items by start time; undated items come last in creation order.
func (r *RepositoryImpl) ListItems(ctx context.Context, tripID uuid.UUID) ([]types.TripItem, error) {
	query := `SELECT ` + itemColumns + ` FROM trip_items
        WHERE trip_id = $1
        ORDER BY start_datetime ASC NULLS LAST, created_at ASC`
	rows, err := r.pgpool.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip items: %w", err)
	}
	defer rows.Close()

	items := []types.TripItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trip items: %w", err)
	}
	return items, nil
}

func (r *RepositoryImpl) UpdateItem(ctx context.Context, tripID, itemID uuid.UUID, p ItemParams) (*types.TripItem, error) {
	query := `
        UPDATE trip_items
        SET type = $3, title = $4, description = $5, location = $6,
            start_datetime = $7, end_datetime = $8, updated_at = NOW()
        WHERE id = $1 AND trip_id = $2
        RETURNING ` + itemColumns
	it, err := scanItem(r.pgpool.QueryRow(ctx, query,
		itemID, tripID, string(p.Type), p.Title, p.Description, p.Location, p.Start, p.End))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trip item %s: %w", itemID, api.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update trip item: %w", err)
	}
	return it, nil
}

func (r *RepositoryImpl) DeleteItem(ctx context.Context, tripID, itemID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM trip_items WHERE id = $1 AND trip_id = $2`, itemID, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip item %s: %w", itemID, api.ErrNotFound)
	}
	return nil
}

// BatchInsert stores all items in one transaction. Any failure rolls the whole
// batch back and is reported as a single *types.BatchInsertError.
func (r *RepositoryImpl) BatchInsert(ctx context.Context, tripID uuid.UUID, items []ItemParams) (_ []types.TripItem, err error) {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return nil, &types.BatchInsertError{Count: len(items), Err: fmt.Errorf("begin: %w", err)}
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.logger.ErrorContext(ctx, "Failed to roll back trip item batch", slog.Any("error", rbErr))
			}
		}
	}()

	inserted := make([]types.TripItem, 0, len(items))
	for i, p := range items {
		it, scanErr := scanItem(tx.QueryRow(ctx, insertItemQuery, insertArgs(tripID, p)...))
		if scanErr != nil {
			return nil, &types.BatchInsertError{Count: len(items), Err: fmt.Errorf("item %d: %w", i, scanErr)}
		}
		inserted = append(inserted, *it)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &types.BatchInsertError{Count: len(items), Err: fmt.Errorf("commit: %w", err)}
	}
	return inserted, nil
}
