package tripItem

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// TripFinder resolves a trip for its owner. trip.Repository satisfies it.
type TripFinder interface {
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	CreateItem(ctx context.Context, userID, tripID uuid.UUID, req types.TripItemRequest) (*types.TripItem, error)
	GetItem(ctx context.Context, userID, tripID, itemID uuid.UUID) (*types.TripItem, error)
	ListItems(ctx context.Context, userID, tripID uuid.UUID) ([]types.TripItem, error)
	UpdateItem(ctx context.Context, userID, tripID, itemID uuid.UUID, req types.TripItemRequest) (*types.TripItem, error)
	DeleteItem(ctx context.Context, userID, tripID, itemID uuid.UUID) error
	Schedule(ctx context.Context, userID, tripID uuid.UUID) ([]types.DaySchedule, error)
	InsertBatch(ctx context.Context, tripID uuid.UUID, items []ItemParams) ([]types.TripItem, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	trips  TripFinder
}

func NewServiceImpl(repo Repository, trips TripFinder, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		trips:  trips,
	}
}

// ParseItemRequest validates a request body. Unknown or empty types become activity.
func ParseItemRequest(req types.TripItemRequest) (ItemParams, error) {
	p := ItemParams{
		Type:        types.NormalizeItemType(req.Type),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Location:    req.Location,
	}
	if p.Title == "" {
		return ItemParams{}, fmt.Errorf("title is required: %w", api.ErrValidation)
	}

	var err error
	if p.Start, err = types.ParseLocalDateTime(req.StartDatetime); err != nil {
		return ItemParams{}, fmt.Errorf("start_datetime: %s: %w", err, api.ErrValidation)
	}
	if p.End, err = types.ParseLocalDateTime(req.EndDatetime); err != nil {
		return ItemParams{}, fmt.Errorf("end_datetime: %s: %w", err, api.ErrValidation)
	}
	return p, nil
}

func (s *ServiceImpl) ownTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	_, err := s.trips.GetTrip(ctx, userID, tripID)
	return err
}

func (s *ServiceImpl) CreateItem(ctx context.Context, userID, tripID uuid.UUID, req types.TripItemRequest) (*types.TripItem, error) {
	ctx, span := otel.Tracer("TripItemService").Start(ctx, "CreateItem", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	p, err := ParseItemRequest(req)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid item")
		return nil, err
	}
	if err := s.ownTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	it, err := s.repo.CreateItem(ctx, tripID, p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create item")
		return nil, err
	}
	s.logger.InfoContext(ctx, "Trip item created", slog.String("tripID", tripID.String()), slog.String("itemID", it.ID.String()))
	return it, nil
}

func (s *ServiceImpl) GetItem(ctx context.Context, userID, tripID, itemID uuid.UUID) (*types.TripItem, error) {
	ctx, span := otel.Tracer("TripItemService").Start(ctx, "GetItem")
	defer span.End()

	if err := s.ownTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	return s.repo.GetItem(ctx, tripID, itemID)
}

func (s *ServiceImpl) ListItems(ctx context.Context, userID, tripID uuid.UUID) ([]types.TripItem, error) {
	ctx, span := otel.Tracer("TripItemService").Start(ctx, "ListItems", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	if err := s.ownTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list items")
		return nil, err
	}
	return items, nil
}

func (s *ServiceImpl) UpdateItem(ctx context.Context, userID, tripID, itemID uuid.UUID, req types.TripItemRequest) (*types.TripItem, error) {
	ctx, span := otel.Tracer("TripItemService").Start(ctx, "UpdateItem")
	defer span.End()

	p, err := ParseItemRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.ownTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	return s.repo.UpdateItem(ctx, tripID, itemID, p)
}

func (s *ServiceImpl) DeleteItem(ctx context.Context, userID, tripID, itemID uuid.UUID) error {
	ctx, span := otel.Tracer("TripItemService").Start(ctx, "DeleteItem")
	defer span.End()

	if err := s.ownTrip(ctx, userID, tripID); err != nil {
		return err
	}
	return s.repo.DeleteItem(ctx, tripID, itemID)
}

func (s *ServiceImpl) Schedule(ctx context.Context, userID, tripID uuid.UUID) ([]types.DaySchedule, error) {
	items, err := s.ListItems(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	return GroupByDay(items), nil
}

// InsertBatch stores items for a trip whose ownership the caller already checked.
// An empty batch is a no-op.
func (s *ServiceImpl) InsertBatch(ctx context.Context, tripID uuid.UUID, items []ItemParams) ([]types.TripItem, error) {
	ctx, span := otel.Tracer("TripItemService").Start(ctx, "InsertBatch", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.Int("items.count", len(items)),
	))
	defer span.End()

	if len(items) == 0 {
		return []types.TripItem{}, nil
	}
	inserted, err := s.repo.BatchInsert(ctx, tripID, items)
	if err != nil {
		s.logger.ErrorContext(ctx, "Trip item batch insert failed", slog.Int("count", len(items)), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Batch insert failed")
		return nil, err
	}
	return inserted, nil
}

// GroupByDay groups items, already ordered by start, into calendar days. Items
// without a start go into a trailing group with no date.
func GroupByDay(items []types.TripItem) []types.DaySchedule {
	days := []types.DaySchedule{}
	var unscheduled []types.TripItem
	for _, it := range items {
		if it.StartDatetime == nil || len(*it.StartDatetime) < len(types.DateLayout) {
			unscheduled = append(unscheduled, it)
			continue
		}
		date := (*it.StartDatetime)[:len(types.DateLayout)]
		if n := len(days); n > 0 && days[n-1].Date == date {
			days[n-1].Items = append(days[n-1].Items, it)
			continue
		}
		days = append(days, types.DaySchedule{Day: len(days) + 1, Date: date, Items: []types.TripItem{it}})
	}
	if len(unscheduled) > 0 {
		days = append(days, types.DaySchedule{Items: unscheduled})
	}
	return days
}
