package repository

import (
	"context"
	"fmt"
	"time"

	"bus-reservation/internal/data/entity"
	"bus-reservation/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BusScheduleRepository interface {
	Create(ctx context.Context, schedule *entity.BusSchedule) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.BusSchedule, error)
	Search(ctx context.Context, fromCity, toCity string, journeyDate time.Time) ([]*entity.AvailableSchedule, error)
}

type busScheduleRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBusScheduleRepository(db database.Querier, log *zap.Logger) BusScheduleRepository {
	return &busScheduleRepository{
		db:  db,
		log: log.With(zap.String("repository", "schedule")),
	}
}

func (r *busScheduleRepository) Create(ctx context.Context, schedule *entity.BusSchedule) error {
	query := `
		INSERT INTO bus_schedules (id, bus_id, route_id, journey_date, start_time, arrival_time, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		schedule.ID,
		schedule.BusID,
		schedule.RouteID,
		schedule.JourneyDate,
		schedule.StartTime,
		schedule.ArrivalTime,
		schedule.Price,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create schedule",
			zap.Error(err),
			zap.String("bus_id", schedule.BusID.String()),
			zap.String("route_id", schedule.RouteID.String()),
		)
		return fmt.Errorf("create schedule for bus %s route %s: %w",
			schedule.BusID.String(), schedule.RouteID.String(), err)
	}

	return nil
}

func (r *busScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BusSchedule, error) {
	query := `
		SELECT id, bus_id, route_id, journey_date, start_time, arrival_time, price, created_at, updated_at
		FROM bus_schedules
		WHERE id = $1
	`

	var schedule entity.BusSchedule
	err := r.db.QueryRow(ctx, query, id).Scan(
		&schedule.ID,
		&schedule.BusID,
		&schedule.RouteID,
		&schedule.JourneyDate,
		&schedule.StartTime,
		&schedule.ArrivalTime,
		&schedule.Price,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find schedule by ID",
			zap.Error(err),
			zap.String("schedule_id", id.String()),
		)
		return nil, fmt.Errorf("find schedule by ID %s: %w", id.String(), err)
	}

	return &schedule, nil
}

func (r *busScheduleRepository) Search(ctx context.Context, fromCity, toCity string, journeyDate time.Time) ([]*entity.AvailableSchedule, error) {
	query := `
		SELECT s.id, b.name, b.company_name, rt.from_city, rt.to_city,
		       s.journey_date, s.start_time, s.arrival_time, s.price,
		       COUNT(st.id) FILTER (WHERE st.status = 'Available') AS seats_left
		FROM bus_schedules s
		JOIN buses b ON b.id = s.bus_id
		JOIN routes rt ON rt.id = s.route_id
		LEFT JOIN seats st ON st.schedule_id = s.id
		WHERE LOWER(rt.from_city) = LOWER($1)
		  AND LOWER(rt.to_city) = LOWER($2)
		  AND s.journey_date = $3
		GROUP BY s.id, b.name, b.company_name, rt.from_city, rt.to_city,
		         s.journey_date, s.start_time, s.arrival_time, s.price
		ORDER BY s.start_time
	`

	rows, err := r.db.Query(ctx, query, fromCity, toCity, journeyDate)
	if err != nil {
		r.log.Error("Failed to search schedules",
			zap.Error(err),
			zap.String("from_city", fromCity),
			zap.String("to_city", toCity),
			zap.Time("journey_date", journeyDate),
		)
		return nil, fmt.Errorf("search schedules %s-%s on %s: %w",
			fromCity, toCity, journeyDate.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var schedules []*entity.AvailableSchedule
	for rows.Next() {
		var s entity.AvailableSchedule
		err := rows.Scan(
			&s.ScheduleID,
			&s.BusName,
			&s.CompanyName,
			&s.FromCity,
			&s.ToCity,
			&s.JourneyDate,
			&s.StartTime,
			&s.ArrivalTime,
			&s.Price,
			&s.SeatsLeft,
		)
		if err != nil {
			r.log.Error("Failed to scan schedule row", zap.Error(err))
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		schedules = append(schedules, &s)
	}

	return schedules, nil
}
