package repository

import (
	"context"
	"fmt"
	"strings"

	"bus-reservation/internal/data/entity"
	"bus-reservation/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TicketRepository is append-only for this core; only the status
// field has lifecycle beyond creation.
type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error)
}

type ticketRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTicketRepository(db database.Querier, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	query := `
		INSERT INTO tickets (id, ticket_ref, schedule_id, passenger_id, seat_numbers, boarding_point, dropping_point, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	// The seat list is joined only here, at the storage boundary. The
	// domain keeps it as an ordered slice.
	_, err := r.db.Exec(ctx, query,
		ticket.ID,
		ticket.TicketRef,
		ticket.ScheduleID,
		ticket.PassengerID,
		strings.Join(ticket.SeatNumbers, ","),
		ticket.BoardingPoint,
		ticket.DroppingPoint,
		ticket.Status,
		ticket.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create ticket",
			zap.Error(err),
			zap.String("ticket_id", ticket.ID.String()),
			zap.String("schedule_id", ticket.ScheduleID.String()),
		)
		return fmt.Errorf("create ticket: %w", err)
	}

	return nil
}

func (r *ticketRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	query := `
		SELECT id, ticket_ref, schedule_id, passenger_id, seat_numbers, boarding_point, dropping_point, status, created_at
		FROM tickets
		WHERE id = $1
	`

	var ticket entity.Ticket
	var seatNumbers string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.TicketRef,
		&ticket.ScheduleID,
		&ticket.PassengerID,
		&seatNumbers,
		&ticket.BoardingPoint,
		&ticket.DroppingPoint,
		&ticket.Status,
		&ticket.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket by ID",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return nil, fmt.Errorf("find ticket by ID %s: %w", id.String(), err)
	}

	if seatNumbers != "" {
		ticket.SeatNumbers = strings.Split(seatNumbers, ",")
	}

	return &ticket, nil
}
