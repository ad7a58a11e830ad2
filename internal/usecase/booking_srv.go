package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bus-reservation/internal/data/cache"
	"bus-reservation/internal/data/entity"
	"bus-reservation/internal/data/repository"
	"bus-reservation/internal/dto/request"
	"bus-reservation/internal/dto/response"
	"bus-reservation/internal/events"
	"bus-reservation/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	GetSeatPlan(ctx context.Context, scheduleID string) (*response.SeatPlanResponse, error)
	BookSeats(ctx context.Context, req *request.BookSeatsRequest) (*response.BookingResult, error)
	GetTicket(ctx context.Context, ticketID string) (*response.TicketResponse, error)
}

// bookingService coordinates a booking end to end: validate, acquire
// the whole seat set atomically, create passenger and ticket inside
// the same unit of work, commit. Any failure after acquisition leaves
// the inventory exactly as it was.
type bookingService struct {
	repo      *repository.Repository
	uow       repository.UnitOfWork
	inventory *SeatInventory
	seatCache *cache.SeatPlanCache
	publisher *events.Publisher
	log       *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	uow repository.UnitOfWork,
	inventory *SeatInventory,
	seatCache *cache.SeatPlanCache,
	publisher *events.Publisher,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:      repo,
		uow:       uow,
		inventory: inventory,
		seatCache: seatCache,
		publisher: publisher,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) GetSeatPlan(ctx context.Context, scheduleID string) (*response.SeatPlanResponse, error) {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid schedule ID %s", ErrInvalidRequest, scheduleID)
	}

	if seats, ok := s.seatCache.Get(ctx, id); ok {
		return response.SeatPlanToResponse(scheduleID, seats), nil
	}

	schedule, err := s.repo.Schedule.FindByID(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "find schedule", Err: err}
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	seats, err := s.inventory.LoadInventory(ctx, s.repo.Seat, id)
	if err != nil {
		return nil, err
	}

	s.seatCache.Set(ctx, id, seats)

	return response.SeatPlanToResponse(scheduleID, seats), nil
}

func (s *bookingService) BookSeats(ctx context.Context, req *request.BookSeatsRequest) (*response.BookingResult, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Book seats validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, utils.FormatValidationErrors(errs))
	}

	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid schedule ID %s", ErrInvalidRequest, req.ScheduleID)
	}

	if err := checkSeatList(req.SeatNumbers); err != nil {
		return nil, err
	}

	schedule, err := s.repo.Schedule.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, &PersistenceError{Op: "find schedule", Err: err}
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	var (
		acq       *Acquisition
		passenger *entity.Passenger
		ticket    *entity.Ticket
	)

	err = s.uow.Do(ctx, func(txRepos *repository.Repository) error {
		a, err := s.inventory.TryAcquire(ctx, txRepos.Seat, scheduleID, req.SeatNumbers)
		if err != nil {
			return err
		}
		acq = a

		now := time.Now()
		passenger = &entity.Passenger{
			BaseSimple:   entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			Name:         req.PassengerName,
			MobileNumber: req.PassengerMobile,
		}
		if err := txRepos.Passenger.Create(ctx, passenger); err != nil {
			return &PersistenceError{Op: "create passenger", Err: err}
		}

		ticket = &entity.Ticket{
			BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			TicketRef:   utils.GenerateTicketRef(),
			ScheduleID:  scheduleID,
			PassengerID: passenger.ID,
			// Ticket keeps the seats in the caller's order; only the
			// acquisition itself is sorted.
			SeatNumbers:   append([]string(nil), req.SeatNumbers...),
			BoardingPoint: req.BoardingPoint,
			DroppingPoint: req.DroppingPoint,
			Status:        entity.TicketStatusBooked,
		}
		if err := txRepos.Ticket.Create(ctx, ticket); err != nil {
			return &PersistenceError{Op: "create ticket", Err: err}
		}

		return nil
	})

	if err != nil {
		if acq != nil {
			// Acquisition succeeded but the unit of work did not. The
			// rollback already reverted the seat rows; a failed commit
			// additionally gets a compensating release while the seat
			// locks are still ours, so the seats cannot stay Booked
			// without a ticket.
			if errors.Is(err, repository.ErrCommitFailed) {
				s.compensateCommitFailure(ctx, acq)
				err = &PersistenceError{Op: "commit booking", Err: err}
			}
			acq.Unlock()
		}

		s.log.Warn("Booking failed",
			zap.Error(err),
			zap.String("schedule_id", req.ScheduleID),
			zap.Strings("seat_numbers", req.SeatNumbers),
		)
		return nil, err
	}

	acq.Unlock()

	s.seatCache.Invalidate(ctx, scheduleID)
	s.publishTicketBooked(ticket)

	s.log.Info("Booking successful",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("ticket_ref", ticket.TicketRef),
		zap.String("schedule_id", req.ScheduleID),
		zap.String("passenger_id", passenger.ID.String()),
		zap.Strings("seat_numbers", ticket.SeatNumbers),
	)

	return &response.BookingResult{
		Success:  true,
		Message:  "Booking successful",
		TicketID: ticket.ID.String(),
	}, nil
}

func (s *bookingService) GetTicket(ctx context.Context, ticketID string) (*response.TicketResponse, error) {
	id, err := uuid.Parse(ticketID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ticket ID %s", ErrInvalidRequest, ticketID)
	}

	ticket, err := s.repo.Ticket.FindByID(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "find ticket", Err: err}
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}

	passenger, err := s.repo.Passenger.FindByID(ctx, ticket.PassengerID)
	if err != nil {
		return nil, &PersistenceError{Op: "find passenger", Err: err}
	}

	return response.TicketToResponse(ticket, passenger), nil
}

// compensateCommitFailure reverts the acquired seats through the pool
// after the transaction died at commit. After a clean rollback this is
// a no-op (the conditional release matches nothing), but an unreleased
// seat is a permanent inventory leak, so the revert is retried and
// loudly logged if it still fails.
func (s *bookingService) compensateCommitFailure(ctx context.Context, acq *Acquisition) {
	const releaseAttempts = 3

	var lastErr error
	for attempt := 1; attempt <= releaseAttempts; attempt++ {
		if _, err := s.repo.Seat.Release(ctx, acq.ScheduleID, acq.SeatNumbers); err == nil {
			return
		} else {
			lastErr = err
		}
	}

	s.log.Error("Compensating seat release failed, seats may be stuck Booked",
		zap.Error(lastErr),
		zap.String("schedule_id", acq.ScheduleID.String()),
		zap.Strings("seat_numbers", acq.SeatNumbers),
	)
}

func (s *bookingService) publishTicketBooked(ticket *entity.Ticket) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.PublishTicketBooked(events.TicketBooked{
		TicketID:    ticket.ID,
		TicketRef:   ticket.TicketRef,
		ScheduleID:  ticket.ScheduleID,
		PassengerID: ticket.PassengerID,
		SeatNumbers: ticket.SeatNumbers,
		BookedAt:    ticket.CreatedAt,
	})
	if err != nil {
		// The booking is committed; the event is best effort.
		s.log.Warn("Failed to publish ticket booked event",
			zap.Error(err),
			zap.String("ticket_id", ticket.ID.String()),
		)
	}
}

func checkSeatList(seatNumbers []string) error {
	if len(seatNumbers) == 0 {
		return fmt.Errorf("%w: seat list is empty", ErrInvalidRequest)
	}

	seen := make(map[string]struct{}, len(seatNumbers))
	for _, n := range seatNumbers {
		if n == "" {
			return fmt.Errorf("%w: blank seat number", ErrInvalidRequest)
		}
		if _, ok := seen[n]; ok {
			return fmt.Errorf("%w: duplicate seat %s", ErrInvalidRequest, n)
		}
		seen[n] = struct{}{}
	}

	return nil
}
