package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// errLockWait reports that a single seat lock could not be taken
// within the wait budget. The inventory treats it as a transient
// acquisition conflict and retries the whole attempt.
var errLockWait = errors.New("seat lock wait timed out")

type seatKey struct {
	scheduleID uuid.UUID
	seatNumber string
}

// seatLockTable serializes in-process access per (schedule, seat).
// Locks are buffered channels so a waiter can give up on a deadline
// or context cancellation instead of blocking forever.
//
// Entries are created lazily and kept for the life of the process;
// the table grows with the number of distinct seats ever contended,
// which is bounded by the seeded inventory.
type seatLockTable struct {
	mu    sync.Mutex
	locks map[seatKey]chan struct{}
}

func newSeatLockTable() *seatLockTable {
	return &seatLockTable{
		locks: make(map[seatKey]chan struct{}),
	}
}

func (t *seatLockTable) lockFor(key seatKey) chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch, ok := t.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		t.locks[key] = ch
	}
	return ch
}

// acquire takes the lock for one seat, waiting at most maxWait.
func (t *seatLockTable) acquire(ctx context.Context, key seatKey, maxWait time.Duration) error {
	ch := t.lockFor(key)

	timer := time.NewTimer(maxWait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return nil
	case <-timer.C:
		return errLockWait
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *seatLockTable) release(key seatKey) {
	<-t.lockFor(key)
}
