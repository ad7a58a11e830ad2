package entity

import (
	"time"

	"github.com/google/uuid"
)

// BusSchedule is one departure of one bus on one route. Its seat
// composition is fixed at seed time, only seat status mutates after.
type BusSchedule struct {
	Base
	BusID       uuid.UUID `db:"bus_id"`
	RouteID     uuid.UUID `db:"route_id"`
	JourneyDate time.Time `db:"journey_date"`
	StartTime   string    `db:"start_time"`   // HH:MM
	ArrivalTime string    `db:"arrival_time"` // HH:MM
	Price       float64   `db:"price"`
}

// AvailableSchedule is the search read model: a schedule joined with
// its bus and route plus the remaining seat count.
type AvailableSchedule struct {
	ScheduleID  uuid.UUID
	BusName     string
	CompanyName string
	FromCity    string
	ToCity      string
	JourneyDate time.Time
	StartTime   string
	ArrivalTime string
	Price       float64
	SeatsLeft   int
}
