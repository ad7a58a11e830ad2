package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bus-reservation/internal/data/entity"
	"bus-reservation/internal/data/repository"
	"bus-reservation/internal/dto/request"
	"bus-reservation/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testBookingConfig() utils.BookingConfig {
	return utils.BookingConfig{
		LockWait:     50 * time.Millisecond,
		MaxAttempts:  3,
		RetryBackoff: 5 * time.Millisecond,
	}
}

type bookingFixture struct {
	store    *memStore
	repos    *repository.Repository
	uow      *memUnitOfWork
	service  BookingService
	schedule uuid.UUID
}

// newBookingFixture seeds one schedule with the given seats and wires
// a booking service over the in-memory store with rollback semantics.
func newBookingFixture(seatNumbers ...string) *bookingFixture {
	store := newMemStore()
	scheduleID := uuid.New()
	store.addSchedule(scheduleID, seatNumbers...)

	repos := newMemRepos(store)
	uow := &memUnitOfWork{store: store, repos: repos}
	inventory := NewSeatInventory(testBookingConfig(), zap.NewNop())

	return &bookingFixture{
		store:    store,
		repos:    repos,
		uow:      uow,
		service:  NewBookingService(repos, uow, inventory, nil, nil, zap.NewNop()),
		schedule: scheduleID,
	}
}

// newConcurrentFixture uses a passthrough unit of work so concurrent
// bookings interleave the way they would against separate database
// transactions.
func newConcurrentFixture(seatNumbers ...string) *bookingFixture {
	store := newMemStore()
	scheduleID := uuid.New()
	store.addSchedule(scheduleID, seatNumbers...)

	repos := newMemRepos(store)
	uow := &passthroughUnitOfWork{repos: repos}
	inventory := NewSeatInventory(testBookingConfig(), zap.NewNop())

	return &bookingFixture{
		store:    store,
		repos:    repos,
		service:  NewBookingService(repos, uow, inventory, nil, nil, zap.NewNop()),
		schedule: scheduleID,
	}
}

func bookReq(scheduleID uuid.UUID, seats ...string) *request.BookSeatsRequest {
	return &request.BookSeatsRequest{
		ScheduleID:      scheduleID.String(),
		SeatNumbers:     seats,
		PassengerName:   "Ayesha Rahman",
		PassengerMobile: "01711111111",
		BoardingPoint:   "Dhaka",
		DroppingPoint:   "Chittagong",
	}
}

func TestBookSeats_Success(t *testing.T) {
	f := newBookingFixture("S01", "S02", "S03", "S04")
	ctx := context.Background()

	result, err := f.service.BookSeats(ctx, bookReq(f.schedule, "S03", "S01"))

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.TicketID)

	assert.Equal(t, entity.SeatStatusBooked, f.store.seatStatus(f.schedule, "S01"))
	assert.Equal(t, entity.SeatStatusBooked, f.store.seatStatus(f.schedule, "S03"))
	assert.Equal(t, entity.SeatStatusAvailable, f.store.seatStatus(f.schedule, "S02"))
	assert.Equal(t, entity.SeatStatusAvailable, f.store.seatStatus(f.schedule, "S04"))

	ticketID, err := uuid.Parse(result.TicketID)
	require.NoError(t, err)
	ticket, err := f.repos.Ticket.FindByID(ctx, ticketID)
	require.NoError(t, err)
	require.NotNil(t, ticket)
	// The ticket keeps the seats in the order the passenger asked for.
	assert.Equal(t, []string{"S03", "S01"}, ticket.SeatNumbers)
	assert.Equal(t, entity.TicketStatusBooked, ticket.Status)
	assert.NotEmpty(t, ticket.TicketRef)

	assert.Equal(t, 1, f.store.passengerCount())
}

func TestBookSeats_SeatAlreadyBooked(t *testing.T) {
	f := newConcurrentFixture("S01", "S02", "S03")
	f.store.setSeatStatus(f.schedule, "S02", entity.SeatStatusBooked)

	result, err := f.service.BookSeats(context.Background(), bookReq(f.schedule, "S01", "S02"))

	require.Error(t, err)
	assert.Nil(t, result)

	var unavailable *SeatUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "S02", unavailable.SeatNumber)

	// The acquired part of the set was reverted.
	assert.Equal(t, entity.SeatStatusAvailable, f.store.seatStatus(f.schedule, "S01"))
	assert.Equal(t, 0, f.store.ticketCount())
	assert.Equal(t, 0, f.store.passengerCount())
}

func TestBookSeats_SeatNotFound(t *testing.T) {
	f := newConcurrentFixture("S01", "S02")

	_, err := f.service.BookSeats(context.Background(), bookReq(f.schedule, "S01", "S99"))

	var notFound *SeatNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "S99", notFound.SeatNumber)

	assert.Equal(t, entity.SeatStatusAvailable, f.store.seatStatus(f.schedule, "S01"))
	assert.Equal(t, 0, f.store.ticketCount())
}

func TestBookSeats_ScheduleNotFound(t *testing.T) {
	f := newBookingFixture("S01")

	_, err := f.service.BookSeats(context.Background(), bookReq(uuid.New(), "S01"))

	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestBookSeats_InvalidRequests(t *testing.T) {
	f := newBookingFixture("S01", "S02")

	tests := []struct {
		name string
		req  *request.BookSeatsRequest
	}{
		{"empty seat list", bookReq(f.schedule)},
		{"duplicate seats", bookReq(f.schedule, "S01", "S01")},
		{"malformed schedule id", bookReq(uuid.Nil, "S01")},
		{"missing passenger name", func() *request.BookSeatsRequest {
			r := bookReq(f.schedule, "S01")
			r.PassengerName = ""
			return r
		}()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.BookSeats(context.Background(), tc.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}

	assert.Equal(t, 0, f.store.bookedCount(f.schedule))
	assert.Equal(t, 0, f.store.ticketCount())
}

func TestBookSeats_RollbackOnTicketFailure(t *testing.T) {
	f := newBookingFixture("S01", "S02", "S03")
	f.repos.Ticket.(*memTicketRepo).createErr = errors.New("insert failed")

	_, err := f.service.BookSeats(context.Background(), bookReq(f.schedule, "S01", "S02"))

	var persistence *PersistenceError
	require.ErrorAs(t, err, &persistence)

	// The rollback reverted every write of the attempt.
	assert.Equal(t, 0, f.store.bookedCount(f.schedule))
	assert.Equal(t, 0, f.store.ticketCount())
	assert.Equal(t, 0, f.store.passengerCount())

	// The seat locks were released, the same seats book fine now.
	f.repos.Ticket.(*memTicketRepo).createErr = nil
	result, err := f.service.BookSeats(context.Background(), bookReq(f.schedule, "S01", "S02"))
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestBookSeats_CommitFailureCompensated(t *testing.T) {
	f := newBookingFixture("S01", "S02")
	f.uow.commitErr = errors.New("connection reset")

	_, err := f.service.BookSeats(context.Background(), bookReq(f.schedule, "S01", "S02"))

	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrCommitFailed)
	var persistence *PersistenceError
	assert.ErrorAs(t, err, &persistence)

	assert.Equal(t, 0, f.store.bookedCount(f.schedule))
	assert.Equal(t, 0, f.store.ticketCount())

	f.uow.commitErr = nil
	result, err := f.service.BookSeats(context.Background(), bookReq(f.schedule, "S01"))
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestBookSeats_ConcurrentSameSeat(t *testing.T) {
	const attempts = 8

	f := newConcurrentFixture("S01", "S02", "S03", "S04")

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.BookSeats(context.Background(), bookReq(f.schedule, "S01"))
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var unavailable *SeatUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, "S01", unavailable.SeatNumber)
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, f.store.bookedCount(f.schedule))
	assert.Equal(t, 1, f.store.ticketCount())
}

func TestBookSeats_ConcurrentOverlappingSets(t *testing.T) {
	f := newConcurrentFixture("S01", "S02", "S03")

	var wg sync.WaitGroup
	var errA, errB error

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errA = f.service.BookSeats(context.Background(), bookReq(f.schedule, "S01", "S02"))
	}()
	go func() {
		defer wg.Done()
		_, errB = f.service.BookSeats(context.Background(), bookReq(f.schedule, "S02", "S03"))
	}()
	wg.Wait()

	// The sets share S02, so exactly one request can win. No deadlock,
	// and the loser's other seat stays free.
	if errA == nil {
		require.Error(t, errB)
		assert.Equal(t, entity.SeatStatusBooked, f.store.seatStatus(f.schedule, "S01"))
		assert.Equal(t, entity.SeatStatusAvailable, f.store.seatStatus(f.schedule, "S03"))
	} else {
		require.NoError(t, errB)
		assert.Equal(t, entity.SeatStatusBooked, f.store.seatStatus(f.schedule, "S03"))
		assert.Equal(t, entity.SeatStatusAvailable, f.store.seatStatus(f.schedule, "S01"))
	}

	assert.Equal(t, entity.SeatStatusBooked, f.store.seatStatus(f.schedule, "S02"))
	assert.Equal(t, 2, f.store.bookedCount(f.schedule))
	assert.Equal(t, 1, f.store.ticketCount())
}

func TestBookSeats_InventoryConserved(t *testing.T) {
	seatNumbers := []string{"S01", "S02", "S03", "S04", "S05", "S06"}
	f := newConcurrentFixture(seatNumbers...)

	requests := [][]string{
		{"S01", "S02"},
		{"S02", "S03"},
		{"S03", "S04"},
		{"S04", "S05"},
		{"S05", "S06"},
		{"S06", "S01"},
		{"S01", "S04"},
		{"S02", "S05"},
	}

	var wg sync.WaitGroup
	for _, seats := range requests {
		wg.Add(1)
		go func(seats []string) {
			defer wg.Done()
			_, _ = f.service.BookSeats(context.Background(), bookReq(f.schedule, seats...))
		}(seats)
	}
	wg.Wait()

	// No seat was created or destroyed, and every booked seat belongs
	// to exactly one ticket.
	assert.Equal(t, len(seatNumbers), f.store.seatCount(f.schedule))

	claimed := make(map[string]int)
	total := 0
	f.store.mu.Lock()
	for _, ticket := range f.store.tickets {
		for _, n := range ticket.SeatNumbers {
			claimed[n]++
			total++
		}
	}
	f.store.mu.Unlock()

	for n, count := range claimed {
		assert.Equalf(t, 1, count, "seat %s claimed by %d tickets", n, count)
	}
	assert.Equal(t, total, f.store.bookedCount(f.schedule))
}

func TestGetSeatPlan(t *testing.T) {
	f := newBookingFixture("S02", "S01", "S03")
	f.store.setSeatStatus(f.schedule, "S02", entity.SeatStatusBooked)

	plan, err := f.service.GetSeatPlan(context.Background(), f.schedule.String())

	require.NoError(t, err)
	require.Len(t, plan.Seats, 3)
	assert.Equal(t, f.schedule.String(), plan.ScheduleID)

	// Seats come back ordered by seat number.
	assert.Equal(t, "S01", plan.Seats[0].SeatNumber)
	assert.Equal(t, "S02", plan.Seats[1].SeatNumber)
	assert.Equal(t, "S03", plan.Seats[2].SeatNumber)
	assert.Equal(t, entity.SeatStatusAvailable, plan.Seats[0].Status)
	assert.Equal(t, entity.SeatStatusBooked, plan.Seats[1].Status)
}

func TestGetSeatPlan_ScheduleNotFound(t *testing.T) {
	f := newBookingFixture("S01")

	_, err := f.service.GetSeatPlan(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	_, err = f.service.GetSeatPlan(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGetTicket(t *testing.T) {
	f := newBookingFixture("S01", "S02")
	ctx := context.Background()

	result, err := f.service.BookSeats(ctx, bookReq(f.schedule, "S01", "S02"))
	require.NoError(t, err)

	ticket, err := f.service.GetTicket(ctx, result.TicketID)
	require.NoError(t, err)
	assert.Equal(t, result.TicketID, ticket.ID)
	assert.Equal(t, []string{"S01", "S02"}, ticket.SeatNumbers)
	require.NotNil(t, ticket.Passenger)
	assert.Equal(t, "Ayesha Rahman", ticket.Passenger.Name)
}

func TestGetTicket_NotFound(t *testing.T) {
	f := newBookingFixture("S01")

	_, err := f.service.GetTicket(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrTicketNotFound)

	_, err = f.service.GetTicket(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
