package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"bus-reservation/internal/dto/request"
	"bus-reservation/internal/usecase"
	"bus-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// GetSeatPlan handles GET /api/booking/seat-plan/{scheduleId}
func (h *BookingHandler) GetSeatPlan(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleId")
	if scheduleID == "" {
		utils.ResponseBadRequest(w, "Schedule ID is required", nil)
		return
	}

	plan, err := h.service.GetSeatPlan(r.Context(), scheduleID)
	if err != nil {
		h.handleServiceError(w, err, "get seat plan")
		return
	}

	utils.ResponseSuccess(w, "success", plan)
}

// BookSeats handles POST /api/booking/book-seat
func (h *BookingHandler) BookSeats(w http.ResponseWriter, r *http.Request) {
	var req request.BookSeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.BookSeats(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "book seats")
		return
	}

	utils.ResponseCreated(w, result.Message, result)
}

// GetTicket handles GET /api/booking/ticket/{id}
func (h *BookingHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "id")
	if ticketID == "" {
		utils.ResponseBadRequest(w, "Ticket ID is required", nil)
		return
	}

	ticket, err := h.service.GetTicket(r.Context(), ticketID)
	if err != nil {
		h.handleServiceError(w, err, "get ticket")
		return
	}

	utils.ResponseSuccess(w, "success", ticket)
}

// handleServiceError maps the booking error taxonomy onto HTTP codes.
// Expected outcomes carry the offending seat in their message; only
// persistence failures surface as a generic 500.
func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var (
		seatNotFound    *usecase.SeatNotFoundError
		seatUnavailable *usecase.SeatUnavailableError
		persistence     *usecase.PersistenceError
	)

	switch {
	case errors.Is(err, usecase.ErrScheduleNotFound),
		errors.Is(err, usecase.ErrTicketNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.As(err, &seatNotFound):
		h.log.Warn(operation+" failed - seat not found",
			zap.Error(err),
			zap.String("seat_number", seatNotFound.SeatNumber))
		utils.ResponseNotFound(w, err.Error())

	case errors.As(err, &seatUnavailable):
		h.log.Warn(operation+" failed - seat unavailable",
			zap.Error(err),
			zap.String("seat_number", seatUnavailable.SeatNumber))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidRequest):
		h.log.Warn(operation+" failed - invalid request", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.As(err, &persistence):
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
