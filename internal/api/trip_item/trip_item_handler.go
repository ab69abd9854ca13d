package tripItem

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

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

// ids resolves the caller and the trip from the request, writing the error response itself.
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

func (h *HandlerImpl) itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	itemID, err := api.UUIDParam(r, "itemID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid item ID")
		return uuid.Nil, false
	}
	return itemID, true
}

func (h *HandlerImpl) CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripItemHandler").Start(r.Context(), "CreateItem")
	defer span.End()
	r = r.WithContext(ctx)

	userID, tripID, ok := h.ids(w, r)
	if !ok {
		return
	}
	var req types.TripItemRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	it, err := h.service.CreateItem(ctx, userID, tripID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "Failed to create trip item", slog.Any("error", err))
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, it)
}

func (h *HandlerImpl) ListItemsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripItemHandler").Start(r.Context(), "ListItems")
	defer span.End()
	r = r.WithContext(ctx)

	userID, tripID, ok := h.ids(w, r)
	if !ok {
		return
	}
	items, err := h.service.ListItems(ctx, userID, tripID)
	if err != nil {
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, items)
}

func (h *HandlerImpl) GetItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripItemHandler").Start(r.Context(), "GetItem")
	defer span.End()
	r = r.WithContext(ctx)

	userID, tripID, ok := h.ids(w, r)
	if !ok {
		return
	}
	itemID, ok := h.itemID(w, r)
	if !ok {
		return
	}
	it, err := h.service.GetItem(ctx, userID, tripID, itemID)
	if err != nil {
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, it)
}

func (h *HandlerImpl) UpdateItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripItemHandler").Start(r.Context(), "UpdateItem")
	defer span.End()
	r = r.WithContext(ctx)

	userID, tripID, ok := h.ids(w, r)
	if !ok {
		return
	}
	itemID, ok := h.itemID(w, r)
	if !ok {
		return
	}
	var req types.TripItemRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	it, err := h.service.UpdateItem(ctx, userID, tripID, itemID, req)
	if err != nil {
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, it)
}

func (h *HandlerImpl) DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripItemHandler").Start(r.Context(), "DeleteItem")
	defer span.End()
	r = r.WithContext(ctx)

	userID, tripID, ok := h.ids(w, r)
	if !ok {
		return
	}
	itemID, ok := h.itemID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteItem(ctx, userID, tripID, itemID); err != nil {
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripItemHandler").Start(r.Context(), "Schedule")
	defer span.End()
	r = r.WithContext(ctx)

	userID, tripID, ok := h.ids(w, r)
	if !ok {
		return
	}
	days, err := h.service.Schedule(ctx, userID, tripID)
	if err != nil {
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, days)
}
