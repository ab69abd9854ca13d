package planner

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

func (h *HandlerImpl) ids(w http.ResponseWriter, r *http.Request) (userID, tripID uuid.UUID, ok bool) {
	userID, err := auth.UserUUIDFromContext(r.Context())
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	tripID, err = api.UUIDParam(r, "tripID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, tripID, true
}

func (h *HandlerImpl) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg, slog.Any("error", err))
	api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
}

func (h *HandlerImpl) RecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "Recommendations")
	defer span.End()
	r = r.WithContext(ctx)

	userID, tripID, ok := h.ids(w, r)
	if !ok {
		return
	}
	recs, err := h.service.Recommendations(ctx, userID, tripID)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to generate recommendations")
		h.fail(w, r, "Service failed to generate recommendations", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.RecommendationsResponse{Recommendations: recs})
}

func (h *HandlerImpl) CategoryRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "CategoryRecommendations")
	defer span.End()
	r = r.WithContext(ctx)

	userID, tripID, ok := h.ids(w, r)
	if !ok {
		return
	}
	category := types.RecommendationCategory(chi.URLParam(r, "category"))
	span.SetAttributes(attribute.String("category", string(category)))
	if !category.Valid() {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Unknown category, expected one of activity, hotel, food")
		return
	}

	recs, err := h.service.CategoryRecommendations(ctx, userID, tripID, category)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to generate recommendations")
		h.fail(w, r, "Service failed to generate category recommendations", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.RecommendationsResponse{Recommendations: recs})
}

func (h *HandlerImpl) AllCategoryRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "AllCategoryRecommendations")
	defer span.End()
	r = r.WithContext(ctx)

	userID, tripID, ok := h.ids(w, r)
	if !ok {
		return
	}
	results, err := h.service.AllCategoryRecommendations(ctx, userID, tripID)
	if err != nil {
		h.fail(w, r, "Service failed to generate recommendations", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, results)
}

func (h *HandlerImpl) PromoteRecommendationHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "PromoteRecommendation")
	defer span.End()
	r = r.WithContext(ctx)

	userID, tripID, ok := h.ids(w, r)
	if !ok {
		return
	}
	var req types.PromoteRecommendationRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.service.PromoteRecommendation(ctx, userID, tripID, req)
	if err != nil {
		h.fail(w, r, "Service failed to add recommendation to trip", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, item)
}

func (h *HandlerImpl) GenerateItineraryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "GenerateItinerary")
	defer span.End()
	r = r.WithContext(ctx)

	userID, tripID, ok := h.ids(w, r)
	if !ok {
		return
	}
	view, err := h.service.GenerateItinerary(ctx, userID, tripID)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to generate itinerary")
		h.fail(w, r, "Service failed to generate itinerary", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, view)
}

func (h *HandlerImpl) GetItineraryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "GetItinerary")
	defer span.End()
	r = r.WithContext(ctx)

	userID, tripID, ok := h.ids(w, r)
	if !ok {
		return
	}
	view, err := h.service.GetItinerary(ctx, userID, tripID)
	if err != nil {
		h.fail(w, r, "Service failed to load itinerary", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, view)
}

func (h *HandlerImpl) MaterializeItineraryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "MaterializeItinerary")
	defer span.End()
	r = r.WithContext(ctx)

	userID, tripID, ok := h.ids(w, r)
	if !ok {
		return
	}
	resp, err := h.service.MaterializeItinerary(ctx, userID, tripID)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to materialize itinerary")
		h.fail(w, r, "Service failed to materialize itinerary", err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, resp)
}

func (h *HandlerImpl) CreateTripWithItineraryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "CreateTripWithItinerary")
	defer span.End()
	r = r.WithContext(ctx)

	userID, err := auth.UserUUIDFromContext(ctx)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	var req types.TripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.CreateTripWithItinerary(ctx, userID, req)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to create trip with itinerary")
		h.fail(w, r, "Service failed to create trip with itinerary", err)
		return
	}
	span.SetAttributes(attribute.String("trip.id", resp.Trip.ID.String()))
	api.WriteJSONResponse(w, r, http.StatusCreated, resp)
}
