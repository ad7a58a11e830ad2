package repository

import (
	"context"
	"fmt"

	"bus-reservation/internal/data/entity"
	"bus-reservation/pkg/database"

	"go.uber.org/zap"
)

type RouteRepository interface {
	CreateBatch(ctx context.Context, routes []*entity.Route) error
}

type routeRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewRouteRepository(db database.Querier, log *zap.Logger) RouteRepository {
	return &routeRepository{
		db:  db,
		log: log.With(zap.String("repository", "route")),
	}
}

func (r *routeRepository) CreateBatch(ctx context.Context, routes []*entity.Route) error {
	if len(routes) == 0 {
		return nil
	}

	query := `INSERT INTO routes (id, from_city, to_city, created_at, updated_at) VALUES `
	args := []interface{}{}

	for i, route := range routes {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			i*5+1, i*5+2, i*5+3, i*5+4, i*5+5)

		args = append(args,
			route.ID,
			route.FromCity,
			route.ToCity,
			route.CreatedAt,
			route.UpdatedAt,
		)
	}

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create batch routes",
			zap.Error(err),
			zap.Int("count", len(routes)),
		)
		return fmt.Errorf("create batch routes: %w", err)
	}

	return nil
}
