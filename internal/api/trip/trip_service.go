package trip

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, req types.TripRequest) (*types.Trip, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error)
	UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, req types.TripRequest) (*types.Trip, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
	InvitePartner(ctx context.Context, userID, tripID uuid.UUID, email string) (*types.TripInvite, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// ValidateTripRequest trims the request in place and checks the form rules:
// a title, YYYY-MM-DD dates with end not before start, and a non-negative budget.
func ValidateTripRequest(req *types.TripRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return fmt.Errorf("title is required: %w", api.ErrValidation)
	}

	start, err := types.ParseDate(req.StartDate)
	if err != nil {
		return fmt.Errorf("start_date: %s: %w", err, api.ErrValidation)
	}
	end, err := types.ParseDate(req.EndDate)
	if err != nil {
		return fmt.Errorf("end_date: %s: %w", err, api.ErrValidation)
	}
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("end_date must not be before start_date: %w", api.ErrValidation)
	}

	if req.Budget != nil && *req.Budget < 0 {
		return fmt.Errorf("budget must not be negative: %w", api.ErrValidation)
	}
	return nil
}

func (s *ServiceImpl) CreateTrip(ctx context.Context, userID uuid.UUID, req types.TripRequest) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "CreateTrip", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "CreateTrip"), slog.String("userID", userID.String()))

	if err := ValidateTripRequest(&req); err != nil {
		span.SetStatus(codes.Error, "Invalid trip")
		return nil, err
	}

	t, err := s.repo.CreateTrip(ctx, userID, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create trip")
		return nil, err
	}

	l.InfoContext(ctx, "Trip created", slog.String("tripID", t.ID.String()))
	span.SetStatus(codes.Ok, "Trip created")
	return t, nil
}

func (s *ServiceImpl) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	t, err := s.repo.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get trip")
		return nil, err
	}
	return t, nil
}

func (s *ServiceImpl) ListTrips(ctx context.Context, userID uuid.UUID) ([]types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "ListTrips")
	defer span.End()

	trips, err := s.repo.ListTrips(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list trips")
		return nil, err
	}
	span.SetAttributes(attribute.Int("trips.count", len(trips)))
	return trips, nil
}

func (s *ServiceImpl) UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, req types.TripRequest) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "UpdateTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	if err := ValidateTripRequest(&req); err != nil {
		span.SetStatus(codes.Error, "Invalid trip")
		return nil, err
	}

	t, err := s.repo.UpdateTrip(ctx, userID, tripID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update trip")
		return nil, err
	}
	s.logger.InfoContext(ctx, "Trip updated", slog.String("tripID", tripID.String()))
	return t, nil
}

func (s *ServiceImpl) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "DeleteTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	if err := s.repo.DeleteTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete trip")
		return err
	}
	s.logger.InfoContext(ctx, "Trip deleted", slog.String("tripID", tripID.String()))
	return nil
}

// InvitePartner records a pending invite for a trip the caller owns.
func (s *ServiceImpl) InvitePartner(ctx context.Context, userID, tripID uuid.UUID, email string) (*types.TripInvite, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "InvitePartner", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("invalid partner email: %w", api.ErrValidation)
	}
	if _, err := s.repo.GetTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	inv, err := s.repo.CreateInvite(ctx, tripID, userID, strings.ToLower(addr.Address))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create invite")
		return nil, err
	}
	s.logger.InfoContext(ctx, "Partner invite recorded", slog.String("tripID", tripID.String()))
	return inv, nil
}
