package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"bus-reservation/internal/data/entity"
	"bus-reservation/internal/data/repository"
	"bus-reservation/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// schema is applied before seeding so a fresh database works out of
// the box. The partial unique index on seats is the storage-level
// backstop for the one-seat-one-schedule invariant.
const schema = `
CREATE TABLE IF NOT EXISTS buses (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	company_name TEXT NOT NULL,
	total_seats INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS routes (
	id UUID PRIMARY KEY,
	from_city TEXT NOT NULL,
	to_city TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS bus_schedules (
	id UUID PRIMARY KEY,
	bus_id UUID NOT NULL REFERENCES buses(id),
	route_id UUID NOT NULL REFERENCES routes(id),
	journey_date DATE NOT NULL,
	start_time TEXT NOT NULL,
	arrival_time TEXT NOT NULL,
	price NUMERIC(10,2) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS seats (
	id UUID PRIMARY KEY,
	schedule_id UUID NOT NULL REFERENCES bus_schedules(id),
	seat_number TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'Available',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	UNIQUE (schedule_id, seat_number)
);

CREATE TABLE IF NOT EXISTS passengers (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	mobile_number TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS tickets (
	id UUID PRIMARY KEY,
	ticket_ref TEXT NOT NULL,
	schedule_id UUID NOT NULL REFERENCES bus_schedules(id),
	passenger_id UUID NOT NULL REFERENCES passengers(id),
	seat_numbers TEXT NOT NULL,
	boarding_point TEXT NOT NULL,
	dropping_point TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

var cities = []string{
	"Dhaka", "Chittagong", "Sylhet", "Khulna",
	"Rajshahi", "Barishal", "Rangpur", "Cox's Bazar",
}

const (
	busCount      = 200
	seatsPerBus   = 40
	scheduleCount = 200
)

// Run creates the schema and fills an empty database with buses,
// routes, schedules and their seats. A database that already has
// buses is left untouched.
func Run(ctx context.Context, db database.PgxIface, log *zap.Logger) error {
	log = log.With(zap.String("component", "seed"))

	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	repos := repository.NewRepository(db, log)

	existing, err := repos.Bus.Count(ctx)
	if err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if existing > 0 {
		log.Info("Database already seeded, skipping", zap.Int64("buses", existing))
		return nil
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	buses := make([]*entity.Bus, busCount)
	for i := 0; i < busCount; i++ {
		buses[i] = &entity.Bus{
			Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			Name:        fmt.Sprintf("Bus-%d", i+1),
			CompanyName: fmt.Sprintf("Company-%d", (i%10)+1),
			TotalSeats:  seatsPerBus,
		}
	}
	if err := repos.Bus.CreateBatch(ctx, buses); err != nil {
		return err
	}

	routes := make([]*entity.Route, scheduleCount)
	for i := 0; i < scheduleCount; i++ {
		routes[i] = &entity.Route{
			Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			FromCity: cities[(i+1)%len(cities)],
			ToCity:   cities[(i+2)%len(cities)],
		}
	}
	if err := repos.Route.CreateBatch(ctx, routes); err != nil {
		return err
	}

	for i := 0; i < scheduleCount; i++ {
		schedule := &entity.BusSchedule{
			Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			BusID:       buses[i].ID,
			RouteID:     routes[i].ID,
			JourneyDate: time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, rng.Intn(10)),
			StartTime:   fmt.Sprintf("%02d:00", 5+rng.Intn(17)),
			ArrivalTime: fmt.Sprintf("%02d:00", 5+rng.Intn(17)),
			Price:       float64(400 + rng.Intn(400)),
		}
		if err := repos.Schedule.Create(ctx, schedule); err != nil {
			return err
		}

		seats := make([]*entity.Seat, seatsPerBus)
		for j := 0; j < seatsPerBus; j++ {
			seats[j] = &entity.Seat{
				Base:       entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
				ScheduleID: schedule.ID,
				SeatNumber: fmt.Sprintf("S%02d", j+1),
				Status:     entity.SeatStatusAvailable,
			}
		}
		if err := repos.Seat.CreateBatch(ctx, seats); err != nil {
			return err
		}
	}

	log.Info("Database seeded",
		zap.Int("buses", busCount),
		zap.Int("schedules", scheduleCount),
		zap.Int("seats_per_schedule", seatsPerBus),
	)
	return nil
}
