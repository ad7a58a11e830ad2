package wire

import (
	"bus-reservation/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	r.Route("/api/booking", func(r chi.Router) {
		// GET /api/booking/seat-plan/{scheduleId} - seat map for a schedule
		r.Get("/seat-plan/{scheduleId}", bookingHandler.GetSeatPlan)

		// POST /api/booking/book-seat - reserve seats on a schedule
		r.Post("/book-seat", bookingHandler.BookSeats)

		// GET /api/booking/ticket/{id} - ticket details
		r.Get("/ticket/{id}", bookingHandler.GetTicket)
	})
}
