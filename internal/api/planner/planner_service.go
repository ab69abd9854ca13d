package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-planner/internal/api/trip"
	tripItem "github.com/FACorreiaa/go-trip-planner/internal/api/trip_item"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// TripStore is the part of the trip service the planner needs.
type TripStore interface {
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	CreateTrip(ctx context.Context, userID uuid.UUID, req types.TripRequest) (*types.Trip, error)
}

// ItemStore is the part of the trip item service the planner needs.
type ItemStore interface {
	CreateItem(ctx context.Context, userID, tripID uuid.UUID, req types.TripItemRequest) (*types.TripItem, error)
	InsertBatch(ctx context.Context, tripID uuid.UUID, items []tripItem.ItemParams) ([]types.TripItem, error)
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Recommendations(ctx context.Context, userID, tripID uuid.UUID) ([]types.Recommendation, error)
	CategoryRecommendations(ctx context.Context, userID, tripID uuid.UUID, category types.RecommendationCategory) ([]types.Recommendation, error)
	AllCategoryRecommendations(ctx context.Context, userID, tripID uuid.UUID) (map[types.RecommendationCategory]types.CategoryResult, error)
	PromoteRecommendation(ctx context.Context, userID, tripID uuid.UUID, req types.PromoteRecommendationRequest) (*types.TripItem, error)
	GenerateItinerary(ctx context.Context, userID, tripID uuid.UUID) (types.ItineraryView, error)
	GetItinerary(ctx context.Context, userID, tripID uuid.UUID) (types.ItineraryView, error)
	MaterializeItinerary(ctx context.Context, userID, tripID uuid.UUID) (types.MaterializeResponse, error)
	CreateTripWithItinerary(ctx context.Context, userID uuid.UUID, req types.TripRequest) (*types.TripWithItineraryResponse, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	gateway generativeAI.Gateway
	repo    Repository
	trips   TripStore
	items   ItemStore
}

func NewServiceImpl(gateway generativeAI.Gateway, repo Repository, trips TripStore, items ItemStore, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		gateway: gateway,
		repo:    repo,
		trips:   trips,
		items:   items,
	}
}

// complete sends one request and records the exchange. Recording failures are
// only logged.
func (s *ServiceImpl) complete(ctx context.Context, userID uuid.UUID, tripID *uuid.UUID, req generativeAI.Request) (string, error) {
	start := time.Now()
	text, err := s.gateway.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	interaction := types.LlmInteraction{
		UserID:       userID,
		TripID:       tripID,
		Mode:         string(req.Mode),
		Prompt:       req.Prompt,
		ResponseText: text,
		ModelUsed:    s.gateway.Model(),
		LatencyMs:    int(time.Since(start).Milliseconds()),
	}
	if recErr := s.repo.SaveInteraction(ctx, interaction); recErr != nil {
		s.logger.WarnContext(ctx, "Failed to record LLM interaction", slog.String("mode", string(req.Mode)), slog.Any("error", recErr))
	}
	return text, nil
}

func (s *ServiceImpl) Recommendations(ctx context.Context, userID, tripID uuid.UUID) ([]types.Recommendation, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "Recommendations", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	t, err := s.trips.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	text, err := s.complete(ctx, userID, &tripID, generativeAI.Request{
		Mode:   generativeAI.ModeRecommendations,
		System: RecommendationsSystemPrompt,
		Prompt: BuildRecommendationsPrompt(*t),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		return nil, err
	}

	recs := ParseCategorized(text)
	span.SetAttributes(attribute.Int("recommendations.count", len(recs)))
	return recs, nil
}

func (s *ServiceImpl) CategoryRecommendations(ctx context.Context, userID, tripID uuid.UUID, category types.RecommendationCategory) ([]types.Recommendation, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "CategoryRecommendations", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.String("category", string(category)),
	))
	defer span.End()

	if !category.Valid() {
		return nil, fmt.Errorf("unknown category %q: %w", category, api.ErrValidation)
	}
	t, err := s.trips.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s.categoryRecommendations(ctx, userID, *t, category)
}

func (s *ServiceImpl) categoryRecommendations(ctx context.Context, userID uuid.UUID, t types.Trip, category types.RecommendationCategory) ([]types.Recommendation, error) {
	text, err := s.complete(ctx, userID, &t.ID, generativeAI.Request{
		Mode:   generativeAI.ModeRecommendations,
		System: RecommendationsSystemPrompt,
		Prompt: BuildCategoryPrompt(t, category),
	})
	if err != nil {
		return nil, err
	}
	return ParseCategory(text, category), nil
}

// AllCategoryRecommendations asks for every category at once. Each category
// fills its own slot; one failing does not cancel the others.
func (s *ServiceImpl) AllCategoryRecommendations(ctx context.Context, userID, tripID uuid.UUID) (map[types.RecommendationCategory]types.CategoryResult, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "AllCategoryRecommendations", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	t, err := s.trips.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	slots := make([]types.CategoryResult, len(types.RecommendationCategories))
	var g errgroup.Group
	for i, category := range types.RecommendationCategories {
		g.Go(func() error {
			recs, err := s.categoryRecommendations(ctx, userID, *t, category)
			if err != nil {
				s.logger.WarnContext(ctx, "Category recommendations failed",
					slog.String("category", string(category)), slog.Any("error", err))
				slots[i] = types.CategoryResult{Recommendations: []types.Recommendation{}, Error: api.ErrorMessage(err)}
				return nil
			}
			slots[i] = types.CategoryResult{Recommendations: recs}
			return nil
		})
	}
	_ = g.Wait()

	results := make(map[types.RecommendationCategory]types.CategoryResult, len(slots))
	for i, category := range types.RecommendationCategories {
		results[category] = slots[i]
	}
	return results, nil
}

// PromoteRecommendation adds a recommendation to the trip as an item. Hotel
// recommendations become accommodation items.
func (s *ServiceImpl) PromoteRecommendation(ctx context.Context, userID, tripID uuid.UUID, req types.PromoteRecommendationRequest) (*types.TripItem, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "PromoteRecommendation")
	defer span.End()

	itemType := string(types.NormalizeItemType(req.Type))
	if category := types.RecommendationCategory(req.Type); category.Valid() {
		itemType = string(category.ItemType())
	}

	description := optional(req.Description)
	return s.items.CreateItem(ctx, userID, tripID, types.TripItemRequest{
		Type:        itemType,
		Title:       req.Title,
		Description: description,
		Location:    req.Location,
	})
}

// generate asks for an itinerary and parses it, degrading to raw text.
func (s *ServiceImpl) generate(ctx context.Context, userID uuid.UUID, tripID *uuid.UUID, t types.Trip) (types.GeneratedItinerary, error) {
	text, err := s.complete(ctx, userID, tripID, generativeAI.Request{
		Mode:   generativeAI.ModeItinerary,
		System: ItinerarySystemPrompt,
		Prompt: BuildItineraryPrompt(t),
	})
	if err != nil {
		return types.GeneratedItinerary{}, err
	}

	gen, degraded := ParseItinerary(text, t)
	if degraded != nil {
		s.logger.WarnContext(ctx, "Itinerary response was not valid JSON, keeping raw text",
			slog.Int("rawLength", degraded.RawLength), slog.Any("error", degraded))
		metrics.Get().ParseDegradationsTotal.Add(ctx, 1)
	}
	return gen, nil
}

func (s *ServiceImpl) GenerateItinerary(ctx context.Context, userID, tripID uuid.UUID) (types.ItineraryView, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "GenerateItinerary", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	t, err := s.trips.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		return types.ItineraryView{}, err
	}

	gen, err := s.generate(ctx, userID, &tripID, *t)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		return types.ItineraryView{}, err
	}
	if err := s.repo.SaveItinerary(ctx, tripID, gen); err != nil {
		span.RecordError(err)
		return types.ItineraryView{}, err
	}

	view := NewItineraryView(gen)
	span.SetAttributes(attribute.Bool("itinerary.structured", view.Structured))
	return view, nil
}

func (s *ServiceImpl) GetItinerary(ctx context.Context, userID, tripID uuid.UUID) (types.ItineraryView, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "GetItinerary")
	defer span.End()

	if _, err := s.trips.GetTrip(ctx, userID, tripID); err != nil {
		return types.ItineraryView{}, err
	}
	gen, err := s.repo.GetItinerary(ctx, tripID)
	if err != nil {
		return types.ItineraryView{}, err
	}
	return NewItineraryView(*gen), nil
}

func (s *ServiceImpl) MaterializeItinerary(ctx context.Context, userID, tripID uuid.UUID) (types.MaterializeResponse, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "MaterializeItinerary", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	if _, err := s.trips.GetTrip(ctx, userID, tripID); err != nil {
		return types.MaterializeResponse{}, err
	}
	gen, err := s.repo.GetItinerary(ctx, tripID)
	if err != nil {
		return types.MaterializeResponse{}, err
	}
	doc, ok := DecodeItineraryContent(gen.Content)
	if !ok {
		return types.MaterializeResponse{}, fmt.Errorf("itinerary has no day-by-day breakdown to add: %w", api.ErrValidation)
	}

	items, err := s.Materialize(ctx, tripID, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Materialization failed")
		return types.MaterializeResponse{}, err
	}
	return types.MaterializeResponse{Inserted: len(items), Items: items}, nil
}

// Materialize stores the itinerary's activities as trip items in one batch.
// Activities with a bad date or time are skipped and logged. When none survive
// nothing is inserted and no error is returned.
func (s *ServiceImpl) Materialize(ctx context.Context, tripID uuid.UUID, doc types.ItineraryDocument) ([]types.TripItem, error) {
	params, skipped := BuildItems(doc)
	m := metrics.Get()
	for _, skip := range skipped {
		s.logger.WarnContext(ctx, "Skipping itinerary activity", slog.String("tripID", tripID.String()), slog.Any("error", skip))
	}
	if len(skipped) > 0 {
		m.ActivitiesSkippedTotal.Add(ctx, int64(len(skipped)))
	}

	if len(params) == 0 {
		s.logger.InfoContext(ctx, "No itinerary activities to materialize", slog.String("tripID", tripID.String()))
		return []types.TripItem{}, nil
	}

	items, err := s.items.InsertBatch(ctx, tripID, params)
	if err != nil {
		return nil, err
	}
	m.TripItemsMaterializedTotal.Add(ctx, int64(len(items)), metric.WithAttributes(attribute.String("source", "itinerary")))
	return items, nil
}

// CreateTripWithItinerary generates the itinerary first so a failed generation
// leaves nothing behind, then creates the trip and its items.
func (s *ServiceImpl) CreateTripWithItinerary(ctx context.Context, userID uuid.UUID, req types.TripRequest) (*types.TripWithItineraryResponse, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "CreateTripWithItinerary")
	defer span.End()
	l := s.logger.With(slog.String("method", "CreateTripWithItinerary"), slog.String("userID", userID.String()))

	if err := trip.ValidateTripRequest(&req); err != nil {
		return nil, err
	}
	draft := types.Trip{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		Budget:        req.Budget,
		TravelPartner: req.TravelPartner,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	}

	gen, err := s.generate(ctx, userID, nil, draft)
	if err != nil {
		l.WarnContext(ctx, "Itinerary generation failed, trip not created", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		return nil, err
	}

	t, err := s.trips.CreateTrip(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.repo.SaveItinerary(ctx, t.ID, gen); err != nil {
		span.RecordError(err)
		return nil, err
	}

	resp := &types.TripWithItineraryResponse{
		Trip:      *t,
		Itinerary: NewItineraryView(gen),
		Items:     []types.TripItem{},
	}
	if doc, ok := DecodeItineraryContent(gen.Content); ok {
		items, err := s.Materialize(ctx, t.ID, doc)
		if err != nil {
			l.ErrorContext(ctx, "Trip created but its items could not be saved", slog.String("tripID", t.ID.String()), slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Materialization failed")
			return nil, err
		}
		resp.Items = items
	}

	l.InfoContext(ctx, "Trip created with itinerary", slog.String("tripID", t.ID.String()), slog.Int("items", len(resp.Items)))
	span.SetStatus(codes.Ok, "Trip created")
	return resp, nil
}
