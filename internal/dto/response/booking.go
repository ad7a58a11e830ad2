package response

import (
	"time"

	"bus-reservation/internal/data/entity"
)

type SeatInfo struct {
	SeatNumber string            `json:"seat_number"`
	Status     entity.SeatStatus `json:"status"`
}

type SeatPlanResponse struct {
	ScheduleID string     `json:"schedule_id"`
	Seats      []SeatInfo `json:"seats"`
}

type BookingResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	TicketID string `json:"ticket_id,omitempty"`
}

type PassengerResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MobileNumber string `json:"mobile_number"`
}

type TicketResponse struct {
	ID            string              `json:"id"`
	TicketRef     string              `json:"ticket_ref"`
	ScheduleID    string              `json:"schedule_id"`
	SeatNumbers   []string            `json:"seat_numbers"`
	BoardingPoint string              `json:"boarding_point"`
	DroppingPoint string              `json:"dropping_point"`
	Status        entity.TicketStatus `json:"status"`
	Passenger     *PassengerResponse  `json:"passenger,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// Helper converters
func SeatPlanToResponse(scheduleID string, seats []*entity.Seat) *SeatPlanResponse {
	infos := make([]SeatInfo, len(seats))
	for i, seat := range seats {
		infos[i] = SeatInfo{
			SeatNumber: seat.SeatNumber,
			Status:     seat.Status,
		}
	}
	return &SeatPlanResponse{
		ScheduleID: scheduleID,
		Seats:      infos,
	}
}

func TicketToResponse(ticket *entity.Ticket, passenger *entity.Passenger) *TicketResponse {
	resp := &TicketResponse{
		ID:            ticket.ID.String(),
		TicketRef:     ticket.TicketRef,
		ScheduleID:    ticket.ScheduleID.String(),
		SeatNumbers:   ticket.SeatNumbers,
		BoardingPoint: ticket.BoardingPoint,
		DroppingPoint: ticket.DroppingPoint,
		Status:        ticket.Status,
		CreatedAt:     ticket.CreatedAt,
	}

	if passenger != nil {
		resp.Passenger = &PassengerResponse{
			ID:           passenger.ID.String(),
			Name:         passenger.Name,
			MobileNumber: passenger.MobileNumber,
		}
	}

	return resp
}
