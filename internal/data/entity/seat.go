package entity

import "github.com/google/uuid"

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "Available"
	SeatStatusBooked    SeatStatus = "Booked"
)

// Seat belongs to exactly one schedule; seat numbers are unique per
// schedule. Status only ever moves Available->Booked through the
// inventory's conditional acquire, or back via an explicit release.
type Seat struct {
	Base
	ScheduleID uuid.UUID  `db:"schedule_id"`
	SeatNumber string     `db:"seat_number"` // S01, S02, ...
	Status     SeatStatus `db:"status"`
}
