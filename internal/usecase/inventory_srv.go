package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"bus-reservation/internal/data/entity"
	"bus-reservation/internal/data/repository"
	"bus-reservation/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeatInventory is the only component allowed to move seats between
// Available and Booked. TryAcquire is all-or-nothing over the
// requested set: either every seat flips to Booked, or none changed
// and the first offending seat (in seat-number order) is reported.
//
// Two layers make this safe under concurrency:
//
//  1. an in-process lock per (schedule, seat), taken in lexicographic
//     seat order so overlapping requests can never deadlock;
//  2. a conditional UPDATE per seat that only succeeds while the row
//     is still Available, issued in the same sorted order, which
//     keeps database row-lock acquisition deadlock-free across
//     processes as well.
type SeatInventory struct {
	locks        *seatLockTable
	lockWait     time.Duration
	maxAttempts  int
	retryBackoff time.Duration
	log          *zap.Logger
}

func NewSeatInventory(cfg utils.BookingConfig, log *zap.Logger) *SeatInventory {
	lockWait := cfg.LockWait
	if lockWait <= 0 {
		lockWait = 200 * time.Millisecond
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 3
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 25 * time.Millisecond
	}

	return &SeatInventory{
		locks:        newSeatLockTable(),
		lockWait:     lockWait,
		maxAttempts:  maxAttempts,
		retryBackoff: backoff,
		log:          log.With(zap.String("service", "seat_inventory")),
	}
}

// Acquisition is a successful TryAcquire. The in-process locks stay
// held until Unlock, so nobody else can touch these seats while the
// surrounding unit of work commits or aborts.
type Acquisition struct {
	ScheduleID  uuid.UUID
	SeatNumbers []string // sorted

	inv  *SeatInventory
	once sync.Once
}

// Unlock frees the in-process seat locks. Idempotent.
func (a *Acquisition) Unlock() {
	a.once.Do(func() {
		a.inv.unlockAll(a.ScheduleID, a.SeatNumbers)
	})
}

// LoadInventory returns the schedule's seats sorted by seat number.
// The caller is responsible for having checked the schedule exists.
func (inv *SeatInventory) LoadInventory(ctx context.Context, seats repository.SeatRepository, scheduleID uuid.UUID) ([]*entity.Seat, error) {
	loaded, err := seats.FindBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, &PersistenceError{Op: "load seat inventory", Err: err}
	}
	return loaded, nil
}

// TryAcquire attempts to transition every listed seat from Available
// to Booked as one atomic step relative to all concurrent callers.
// Lock-wait timeouts are transient conflicts and the whole attempt is
// retried up to the configured budget; after that the contested seat
// is reported as unavailable rather than keeping the caller waiting.
func (inv *SeatInventory) TryAcquire(ctx context.Context, seats repository.SeatRepository, scheduleID uuid.UUID, seatNumbers []string) (*Acquisition, error) {
	sorted := sortedDistinct(seatNumbers)
	if len(sorted) == 0 {
		return nil, ErrInvalidRequest
	}

	var contested string
	for attempt := 1; attempt <= inv.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(inv.retryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		locked, blocked, err := inv.lockAll(ctx, scheduleID, sorted)
		if err != nil {
			return nil, err
		}
		if !locked {
			contested = blocked
			inv.log.Debug("Seat lock contention, retrying",
				zap.String("schedule_id", scheduleID.String()),
				zap.String("seat_number", blocked),
				zap.Int("attempt", attempt),
			)
			continue
		}

		acq, err := inv.acquireLocked(ctx, seats, scheduleID, sorted)
		if err != nil {
			inv.unlockAll(scheduleID, sorted)
			return nil, err
		}
		return acq, nil
	}

	inv.log.Warn("Seat acquisition retry budget exhausted",
		zap.String("schedule_id", scheduleID.String()),
		zap.String("seat_number", contested),
		zap.Int("attempts", inv.maxAttempts),
	)
	return nil, &SeatUnavailableError{SeatNumber: contested}
}

// Release undoes a successful TryAcquire: reverts the seat rows and
// frees the in-process locks. Only the booking coordinator calls it,
// and only as compensation after a commit failure.
func (inv *SeatInventory) Release(ctx context.Context, seats repository.SeatRepository, acq *Acquisition) error {
	_, err := seats.Release(ctx, acq.ScheduleID, acq.SeatNumbers)
	if err != nil {
		inv.log.Error("Seat release failed, seats may be stuck Booked",
			zap.Error(err),
			zap.String("schedule_id", acq.ScheduleID.String()),
			zap.Strings("seat_numbers", acq.SeatNumbers),
		)
		return &PersistenceError{Op: "release seats", Err: err}
	}

	acq.Unlock()
	return nil
}

// acquireLocked flips each seat with the in-process locks already
// held. On the first seat that refuses, everything acquired so far is
// reverted before the failure is reported, so the set never ends up
// partially booked.
func (inv *SeatInventory) acquireLocked(ctx context.Context, seats repository.SeatRepository, scheduleID uuid.UUID, sorted []string) (*Acquisition, error) {
	acquired := make([]string, 0, len(sorted))

	revert := func() {
		if len(acquired) == 0 {
			return
		}
		if _, err := seats.Release(ctx, scheduleID, acquired); err != nil {
			inv.log.Error("Failed to revert partially acquired seats",
				zap.Error(err),
				zap.String("schedule_id", scheduleID.String()),
				zap.Strings("seat_numbers", acquired),
			)
		}
	}

	for _, seatNumber := range sorted {
		ok, err := seats.Acquire(ctx, scheduleID, seatNumber)
		if err != nil {
			revert()
			return nil, &PersistenceError{Op: "acquire seat " + seatNumber, Err: err}
		}
		if !ok {
			seat, findErr := seats.FindByNumber(ctx, scheduleID, seatNumber)
			revert()
			if findErr != nil {
				return nil, &PersistenceError{Op: "inspect seat " + seatNumber, Err: findErr}
			}
			if seat == nil {
				return nil, &SeatNotFoundError{SeatNumber: seatNumber}
			}
			return nil, &SeatUnavailableError{SeatNumber: seatNumber}
		}
		acquired = append(acquired, seatNumber)
	}

	return &Acquisition{
		ScheduleID:  scheduleID,
		SeatNumbers: sorted,
		inv:         inv,
	}, nil
}

// lockAll takes the in-process locks in lexicographic order. On a
// wait timeout it releases everything taken so far and names the seat
// it was blocked on.
func (inv *SeatInventory) lockAll(ctx context.Context, scheduleID uuid.UUID, sorted []string) (bool, string, error) {
	for i, seatNumber := range sorted {
		err := inv.locks.acquire(ctx, seatKey{scheduleID: scheduleID, seatNumber: seatNumber}, inv.lockWait)
		if err != nil {
			inv.unlockAll(scheduleID, sorted[:i])
			if errors.Is(err, errLockWait) {
				return false, seatNumber, nil
			}
			return false, seatNumber, err
		}
	}
	return true, "", nil
}

func (inv *SeatInventory) unlockAll(scheduleID uuid.UUID, seatNumbers []string) {
	for i := len(seatNumbers) - 1; i >= 0; i-- {
		inv.locks.release(seatKey{scheduleID: scheduleID, seatNumber: seatNumbers[i]})
	}
}

func sortedDistinct(seatNumbers []string) []string {
	seen := make(map[string]struct{}, len(seatNumbers))
	out := make([]string, 0, len(seatNumbers))
	for _, n := range seatNumbers {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
