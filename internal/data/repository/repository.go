package repository

import (
	"bus-reservation/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	Bus       BusRepository
	Route     RouteRepository
	Schedule  BusScheduleRepository
	Seat      SeatRepository
	Passenger PassengerRepository
	Ticket    TicketRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return newWithQuerier(db, log)
}

// WithTx rebinds every repository to the given transaction, so all
// writes issued through the returned set commit or roll back together.
func (r *Repository) WithTx(tx pgx.Tx, log *zap.Logger) *Repository {
	return newWithQuerier(tx, log)
}

func newWithQuerier(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Bus:       NewBusRepository(q, log),
		Route:     NewRouteRepository(q, log),
		Schedule:  NewBusScheduleRepository(q, log),
		Seat:      NewSeatRepository(q, log),
		Passenger: NewPassengerRepository(q, log),
		Ticket:    NewTicketRepository(q, log),
	}
}
