package places

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
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

func (h *HandlerImpl) RecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "Recommendations")
	defer span.End()

	var req types.PlacesRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	places, err := h.service.Attractions(ctx, req.Destination)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to fetch place recommendations", slog.Any("error", err))
		if errors.Is(err, ErrUnparseable) {
			api.ErrorResponse(w, r, http.StatusBadGateway, err.Error())
			return
		}
		api.ErrorResponse(w, r, api.ErrorStatus(err), api.ErrorMessage(err))
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.PlacesResponse{Places: places})
}
