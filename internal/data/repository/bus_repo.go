package repository

import (
	"context"
	"fmt"

	"bus-reservation/internal/data/entity"
	"bus-reservation/pkg/database"

	"go.uber.org/zap"
)

type BusRepository interface {
	CreateBatch(ctx context.Context, buses []*entity.Bus) error
	Count(ctx context.Context) (int64, error)
}

type busRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBusRepository(db database.Querier, log *zap.Logger) BusRepository {
	return &busRepository{
		db:  db,
		log: log.With(zap.String("repository", "bus")),
	}
}

func (r *busRepository) CreateBatch(ctx context.Context, buses []*entity.Bus) error {
	if len(buses) == 0 {
		return nil
	}

	query := `INSERT INTO buses (id, name, company_name, total_seats, created_at, updated_at) VALUES `
	args := []interface{}{}

	for i, bus := range buses {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			i*6+1, i*6+2, i*6+3, i*6+4, i*6+5, i*6+6)

		args = append(args,
			bus.ID,
			bus.Name,
			bus.CompanyName,
			bus.TotalSeats,
			bus.CreatedAt,
			bus.UpdatedAt,
		)
	}

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create batch buses",
			zap.Error(err),
			zap.Int("count", len(buses)),
		)
		return fmt.Errorf("create batch buses: %w", err)
	}

	return nil
}

func (r *busRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM buses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count buses: %w", err)
	}
	return count, nil
}
