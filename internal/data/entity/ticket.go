package entity

import "github.com/google/uuid"

type TicketStatus string

const (
	TicketStatusBooked    TicketStatus = "Booked"
	TicketStatusConfirmed TicketStatus = "Confirmed"
	TicketStatusCancelled TicketStatus = "Cancelled"
)

// Ticket references its schedule and passenger by id. SeatNumbers is
// an ordered list in the caller's order; the comma-joined form exists
// only inside the ticket repository.
type Ticket struct {
	BaseSimple
	TicketRef     string       `db:"ticket_ref"`
	ScheduleID    uuid.UUID    `db:"schedule_id"`
	PassengerID   uuid.UUID    `db:"passenger_id"`
	SeatNumbers   []string     `db:"seat_numbers"`
	BoardingPoint string       `db:"boarding_point"`
	DroppingPoint string       `db:"dropping_point"`
	Status        TicketStatus `db:"status"`
}
