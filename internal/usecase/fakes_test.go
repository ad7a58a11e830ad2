package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bus-reservation/internal/data/entity"
	"bus-reservation/internal/data/repository"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the seat, passenger and
// ticket tables. Seat acquisition uses the same conditional
// check-and-set semantics as the SQL repository, guarded by one
// mutex, so concurrency tests exercise the real coordination logic.
type memStore struct {
	mu         sync.Mutex
	schedules  map[uuid.UUID]*entity.BusSchedule
	seats      map[uuid.UUID]map[string]*entity.Seat
	passengers map[uuid.UUID]*entity.Passenger
	tickets    map[uuid.UUID]*entity.Ticket
}

func newMemStore() *memStore {
	return &memStore{
		schedules:  make(map[uuid.UUID]*entity.BusSchedule),
		seats:      make(map[uuid.UUID]map[string]*entity.Seat),
		passengers: make(map[uuid.UUID]*entity.Passenger),
		tickets:    make(map[uuid.UUID]*entity.Ticket),
	}
}

func (s *memStore) addSchedule(scheduleID uuid.UUID, seatNumbers ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.schedules[scheduleID] = &entity.BusSchedule{
		Base:        entity.Base{ID: scheduleID, CreatedAt: now, UpdatedAt: now},
		BusID:       uuid.New(),
		RouteID:     uuid.New(),
		JourneyDate: now,
		StartTime:   "08:00",
		ArrivalTime: "14:00",
		Price:       500,
	}

	seats := make(map[string]*entity.Seat, len(seatNumbers))
	for _, n := range seatNumbers {
		seats[n] = &entity.Seat{
			Base:       entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			ScheduleID: scheduleID,
			SeatNumber: n,
			Status:     entity.SeatStatusAvailable,
		}
	}
	s.seats[scheduleID] = seats
}

func (s *memStore) seatStatus(scheduleID uuid.UUID, seatNumber string) entity.SeatStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seats[scheduleID][seatNumber].Status
}

func (s *memStore) setSeatStatus(scheduleID uuid.UUID, seatNumber string, status entity.SeatStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seats[scheduleID][seatNumber].Status = status
}

func (s *memStore) bookedCount(scheduleID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, seat := range s.seats[scheduleID] {
		if seat.Status == entity.SeatStatusBooked {
			count++
		}
	}
	return count
}

func (s *memStore) seatCount(scheduleID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seats[scheduleID])
}

func (s *memStore) ticketCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}

func (s *memStore) passengerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.passengers)
}

type storeSnapshot struct {
	statuses   map[uuid.UUID]map[string]entity.SeatStatus
	passengers map[uuid.UUID]*entity.Passenger
	tickets    map[uuid.UUID]*entity.Ticket
}

func (s *memStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := storeSnapshot{
		statuses:   make(map[uuid.UUID]map[string]entity.SeatStatus, len(s.seats)),
		passengers: make(map[uuid.UUID]*entity.Passenger, len(s.passengers)),
		tickets:    make(map[uuid.UUID]*entity.Ticket, len(s.tickets)),
	}
	for scheduleID, seats := range s.seats {
		statuses := make(map[string]entity.SeatStatus, len(seats))
		for n, seat := range seats {
			statuses[n] = seat.Status
		}
		snap.statuses[scheduleID] = statuses
	}
	for id, p := range s.passengers {
		snap.passengers[id] = p
	}
	for id, t := range s.tickets {
		snap.tickets[id] = t
	}
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for scheduleID, statuses := range snap.statuses {
		for n, status := range statuses {
			s.seats[scheduleID][n].Status = status
		}
	}
	s.passengers = snap.passengers
	s.tickets = snap.tickets
}

type memSeatRepo struct {
	store *memStore

	acquireErr error
	releaseErr error
}

func (r *memSeatRepo) CreateBatch(ctx context.Context, seats []*entity.Seat) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, seat := range seats {
		if r.store.seats[seat.ScheduleID] == nil {
			r.store.seats[seat.ScheduleID] = make(map[string]*entity.Seat)
		}
		copied := *seat
		r.store.seats[seat.ScheduleID][seat.SeatNumber] = &copied
	}
	return nil
}

func (r *memSeatRepo) FindBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]*entity.Seat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	seats := make([]*entity.Seat, 0, len(r.store.seats[scheduleID]))
	for _, seat := range r.store.seats[scheduleID] {
		copied := *seat
		seats = append(seats, &copied)
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].SeatNumber < seats[j].SeatNumber })
	return seats, nil
}

func (r *memSeatRepo) FindByNumber(ctx context.Context, scheduleID uuid.UUID, seatNumber string) (*entity.Seat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	seat, ok := r.store.seats[scheduleID][seatNumber]
	if !ok {
		return nil, nil
	}
	copied := *seat
	return &copied, nil
}

func (r *memSeatRepo) Acquire(ctx context.Context, scheduleID uuid.UUID, seatNumber string) (bool, error) {
	if r.acquireErr != nil {
		return false, r.acquireErr
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	seat, ok := r.store.seats[scheduleID][seatNumber]
	if !ok || seat.Status != entity.SeatStatusAvailable {
		return false, nil
	}
	seat.Status = entity.SeatStatusBooked
	return true, nil
}

func (r *memSeatRepo) Release(ctx context.Context, scheduleID uuid.UUID, seatNumbers []string) (int64, error) {
	if r.releaseErr != nil {
		return 0, r.releaseErr
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var reverted int64
	for _, n := range seatNumbers {
		seat, ok := r.store.seats[scheduleID][n]
		if ok && seat.Status == entity.SeatStatusBooked {
			seat.Status = entity.SeatStatusAvailable
			reverted++
		}
	}
	return reverted, nil
}

type memScheduleRepo struct {
	store   *memStore
	results []*entity.AvailableSchedule
	findErr error
}

func (r *memScheduleRepo) Create(ctx context.Context, schedule *entity.BusSchedule) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.schedules[schedule.ID] = schedule
	return nil
}

func (r *memScheduleRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.BusSchedule, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	schedule, ok := r.store.schedules[id]
	if !ok {
		return nil, nil
	}
	return schedule, nil
}

func (r *memScheduleRepo) Search(ctx context.Context, fromCity, toCity string, journeyDate time.Time) ([]*entity.AvailableSchedule, error) {
	return r.results, nil
}

type memPassengerRepo struct {
	store     *memStore
	createErr error
}

func (r *memPassengerRepo) Create(ctx context.Context, passenger *entity.Passenger) error {
	if r.createErr != nil {
		return r.createErr
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.passengers[passenger.ID] = passenger
	return nil
}

func (r *memPassengerRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Passenger, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	passenger, ok := r.store.passengers[id]
	if !ok {
		return nil, nil
	}
	return passenger, nil
}

type memTicketRepo struct {
	store     *memStore
	createErr error
}

func (r *memTicketRepo) Create(ctx context.Context, ticket *entity.Ticket) error {
	if r.createErr != nil {
		return r.createErr
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.tickets[ticket.ID] = ticket
	return nil
}

func (r *memTicketRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ticket, ok := r.store.tickets[id]
	if !ok {
		return nil, nil
	}
	return ticket, nil
}

type memBusRepo struct{}

func (r *memBusRepo) CreateBatch(ctx context.Context, buses []*entity.Bus) error { return nil }
func (r *memBusRepo) Count(ctx context.Context) (int64, error)                   { return 0, nil }

type memRouteRepo struct{}

func (r *memRouteRepo) CreateBatch(ctx context.Context, routes []*entity.Route) error { return nil }

func newMemRepos(store *memStore) *repository.Repository {
	return &repository.Repository{
		Bus:       &memBusRepo{},
		Route:     &memRouteRepo{},
		Schedule:  &memScheduleRepo{store: store},
		Seat:      &memSeatRepo{store: store},
		Passenger: &memPassengerRepo{store: store},
		Ticket:    &memTicketRepo{store: store},
	}
}

// passthroughUnitOfWork hands the pool repositories straight to fn.
// Used for concurrency tests where every write either sticks or is
// explicitly reverted by the code under test.
type passthroughUnitOfWork struct {
	repos *repository.Repository
}

func (u *passthroughUnitOfWork) Do(ctx context.Context, fn func(repos *repository.Repository) error) error {
	return fn(u.repos)
}

// memUnitOfWork models transactional rollback by snapshotting the
// store before fn and restoring it when fn fails, or when a forced
// commit failure is configured.
type memUnitOfWork struct {
	store *memStore
	repos *repository.Repository

	commitErr error
}

func (u *memUnitOfWork) Do(ctx context.Context, fn func(repos *repository.Repository) error) error {
	snap := u.store.snapshot()

	if err := fn(u.repos); err != nil {
		u.store.restore(snap)
		return err
	}

	if u.commitErr != nil {
		u.store.restore(snap)
		return fmt.Errorf("%w: %v", repository.ErrCommitFailed, u.commitErr)
	}

	return nil
}
