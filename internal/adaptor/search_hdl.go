package adaptor

import (
	"errors"
	"net/http"

	"bus-reservation/internal/dto/request"
	"bus-reservation/internal/usecase"
	"bus-reservation/pkg/utils"

	"go.uber.org/zap"
)

type SearchHandler struct {
	service usecase.SearchService
	log     *zap.Logger
}

func NewSearchHandler(service usecase.SearchService, log *zap.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		log:     log.With(zap.String("handler", "search")),
	}
}

// GetAvailableBuses handles GET /api/search/available-buses
func (h *SearchHandler) GetAvailableBuses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.SearchBusesRequest{
		From:        query.Get("from"),
		To:          query.Get("to"),
		JourneyDate: query.Get("journey_date"),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	buses, err := h.service.SearchAvailableBuses(r.Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidRequest) {
			h.log.Warn("Search failed - invalid request", zap.Error(err))
			utils.ResponseBadRequest(w, err.Error(), nil)
			return
		}

		h.log.Error("Failed to search available buses", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "success", buses)
}
