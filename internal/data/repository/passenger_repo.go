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

// PassengerRepository is append-only: passengers are created inside a
// booking's unit of work and never updated.
type PassengerRepository interface {
	Create(ctx context.Context, passenger *entity.Passenger) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Passenger, error)
}

type passengerRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPassengerRepository(db database.Querier, log *zap.Logger) PassengerRepository {
	return &passengerRepository{
		db:  db,
		log: log.With(zap.String("repository", "passenger")),
	}
}

func (r *passengerRepository) Create(ctx context.Context, passenger *entity.Passenger) error {
	query := `
		INSERT INTO passengers (id, name, mobile_number, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		passenger.ID,
		passenger.Name,
		passenger.MobileNumber,
		passenger.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create passenger",
			zap.Error(err),
			zap.String("passenger_id", passenger.ID.String()),
		)
		return fmt.Errorf("create passenger: %w", err)
	}

	return nil
}

func (r *passengerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Passenger, error) {
	query := `
		SELECT id, name, mobile_number, created_at
		FROM passengers
		WHERE id = $1
	`

	var passenger entity.Passenger
	err := r.db.QueryRow(ctx, query, id).Scan(
		&passenger.ID,
		&passenger.Name,
		&passenger.MobileNumber,
		&passenger.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find passenger by ID",
			zap.Error(err),
			zap.String("passenger_id", id.String()),
		)
		return nil, fmt.Errorf("find passenger by ID %s: %w", id.String(), err)
	}

	return &passenger, nil
}
