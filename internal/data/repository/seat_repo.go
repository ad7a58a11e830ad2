package repository

import (
	"context"
	"fmt"

	"bus-reservation/internal/data/entity"
	"bus-reservation/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SeatRepository interface {
	CreateBatch(ctx context.Context, seats []*entity.Seat) error
	FindBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]*entity.Seat, error)
	FindByNumber(ctx context.Context, scheduleID uuid.UUID, seatNumber string) (*entity.Seat, error)

	// Acquire transitions one seat Available->Booked as a single
	// conditional update. Returns false when the seat is missing or
	// not Available; the caller decides which.
	Acquire(ctx context.Context, scheduleID uuid.UUID, seatNumber string) (bool, error)

	// Release transitions the given seats Booked->Available. Used
	// only to undo a successful acquire. Returns the number of seats
	// actually reverted.
	Release(ctx context.Context, scheduleID uuid.UUID, seatNumbers []string) (int64, error)
}

type seatRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSeatRepository(db database.Querier, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

func (r *seatRepository) CreateBatch(ctx context.Context, seats []*entity.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	// Build batch insert
	query := `INSERT INTO seats (id, schedule_id, seat_number, status, created_at, updated_at) VALUES `
	args := []interface{}{}

	for i, seat := range seats {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			i*6+1, i*6+2, i*6+3, i*6+4, i*6+5, i*6+6)

		args = append(args,
			seat.ID,
			seat.ScheduleID,
			seat.SeatNumber,
			seat.Status,
			seat.CreatedAt,
			seat.UpdatedAt,
		)
	}

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create batch seats",
			zap.Error(err),
			zap.Int("count", len(seats)),
		)
		return fmt.Errorf("create batch seats: %w", err)
	}

	return nil
}

func (r *seatRepository) FindBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]*entity.Seat, error) {
	query := `
		SELECT id, schedule_id, seat_number, status, created_at, updated_at
		FROM seats
		WHERE schedule_id = $1
		ORDER BY seat_number
	`

	rows, err := r.db.Query(ctx, query, scheduleID)
	if err != nil {
		r.log.Error("Failed to find seats by schedule",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
		return nil, fmt.Errorf("find seats for schedule %s: %w", scheduleID.String(), err)
	}
	defer rows.Close()

	var seats []*entity.Seat
	for rows.Next() {
		var seat entity.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.ScheduleID,
			&seat.SeatNumber,
			&seat.Status,
			&seat.CreatedAt,
			&seat.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, nil
}

func (r *seatRepository) FindByNumber(ctx context.Context, scheduleID uuid.UUID, seatNumber string) (*entity.Seat, error) {
	query := `
		SELECT id, schedule_id, seat_number, status, created_at, updated_at
		FROM seats
		WHERE schedule_id = $1 AND seat_number = $2
	`

	var seat entity.Seat
	err := r.db.QueryRow(ctx, query, scheduleID, seatNumber).Scan(
		&seat.ID,
		&seat.ScheduleID,
		&seat.SeatNumber,
		&seat.Status,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find seat",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
			zap.String("seat_number", seatNumber),
		)
		return nil, fmt.Errorf("find seat %s: %w", seatNumber, err)
	}

	return &seat, nil
}

func (r *seatRepository) Acquire(ctx context.Context, scheduleID uuid.UUID, seatNumber string) (bool, error) {
	// Conditional check-and-set: the WHERE clause and the affected row
	// count make the Available->Booked transition atomic, a plain read
	// followed by a write would race with concurrent bookings.
	query := `
		UPDATE seats
		SET status = 'Booked', updated_at = NOW()
		WHERE schedule_id = $1 AND seat_number = $2 AND status = 'Available'
	`

	result, err := r.db.Exec(ctx, query, scheduleID, seatNumber)
	if err != nil {
		r.log.Error("Failed to acquire seat",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
			zap.String("seat_number", seatNumber),
		)
		return false, fmt.Errorf("acquire seat %s: %w", seatNumber, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *seatRepository) Release(ctx context.Context, scheduleID uuid.UUID, seatNumbers []string) (int64, error) {
	if len(seatNumbers) == 0 {
		return 0, nil
	}

	query := `
		UPDATE seats
		SET status = 'Available', updated_at = NOW()
		WHERE schedule_id = $1 AND seat_number = ANY($2) AND status = 'Booked'
	`

	result, err := r.db.Exec(ctx, query, scheduleID, seatNumbers)
	if err != nil {
		r.log.Error("Failed to release seats",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
			zap.Strings("seat_numbers", seatNumbers),
		)
		return 0, fmt.Errorf("release seats %v: %w", seatNumbers, err)
	}

	return result.RowsAffected(), nil
}
