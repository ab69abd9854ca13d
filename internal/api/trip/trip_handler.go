package trip

import (
	"log/slog"
	"net/http"

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

func (h *HandlerImpl) CreateTripHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "CreateTrip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateTripHandler"))

	userID, err := auth.UserUUIDFromContext(ctx)
	if err != nil {
		l.WarnContext(ctx, "User ID not found in context", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req types.TripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.service.CreateTrip(ctx, userID, req)
	if err != nil {
		l.ErrorContext(ctx, "Service failed to create trip", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to create trip")
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}

	span.SetAttributes(attribute.String("trip.id", t.ID.String()))
	api.WriteJSONResponse(w, r, http.StatusCreated, t)
}

func (h *HandlerImpl) ListTripsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "ListTrips")
	defer span.End()

	userID, err := auth.UserUUIDFromContext(ctx)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	trips, err := h.service.ListTrips(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Service failed to list trips", slog.Any("error", err))
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, trips)
}

func (h *HandlerImpl) GetTripHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "GetTrip")
	defer span.End()

	userID, err := auth.UserUUIDFromContext(ctx)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	tripID, err := api.UUIDParam(r, "tripID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID")
		return
	}

	t, err := h.service.GetTrip(ctx, userID, tripID)
	if err != nil {
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, t)
}

func (h *HandlerImpl) UpdateTripHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "UpdateTrip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateTripHandler"))

	userID, err := auth.UserUUIDFromContext(ctx)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	tripID, err := api.UUIDParam(r, "tripID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID")
		return
	}

	var req types.TripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.service.UpdateTrip(ctx, userID, tripID, req)
	if err != nil {
		l.WarnContext(ctx, "Service failed to update trip", slog.Any("error", err))
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, t)
}

func (h *HandlerImpl) DeleteTripHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "DeleteTrip")
	defer span.End()

	userID, err := auth.UserUUIDFromContext(ctx)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	tripID, err := api.UUIDParam(r, "tripID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID")
		return
	}

	if err := h.service.DeleteTrip(ctx, userID, tripID); err != nil {
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) InvitePartnerHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "InvitePartner")
	defer span.End()

	userID, err := auth.UserUUIDFromContext(ctx)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	tripID, err := api.UUIDParam(r, "tripID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID")
		return
	}

	var req types.InvitePartnerRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	inv, err := h.service.InvitePartner(ctx, userID, tripID, req.Email)
	if err != nil {
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, inv)
}
