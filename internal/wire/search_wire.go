package wire

import (
	"bus-reservation/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSearch(r chi.Router, searchHandler *adaptor.SearchHandler) {
	// GET /api/search/available-buses?from=&to=&journey_date= - schedule search
	r.Get("/api/search/available-buses", searchHandler.GetAvailableBuses)
}
