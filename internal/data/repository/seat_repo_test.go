package repository_test

import (
	"context"
	"testing"
	"time"

	"bus-reservation/internal/data/entity"
	"bus-reservation/internal/data/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeatAcquire_Available(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewSeatRepository(mock, zap.NewNop())
	scheduleID := uuid.New()

	mock.ExpectExec("UPDATE seats").
		WithArgs(scheduleID, "S01").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.Acquire(context.Background(), scheduleID, "S01")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatAcquire_AlreadyBooked(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewSeatRepository(mock, zap.NewNop())
	scheduleID := uuid.New()

	// The conditional update matches nothing when the row is not
	// Available anymore.
	mock.ExpectExec("UPDATE seats").
		WithArgs(scheduleID, "S01").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.Acquire(context.Background(), scheduleID, "S01")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRelease(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewSeatRepository(mock, zap.NewNop())
	scheduleID := uuid.New()

	mock.ExpectExec("UPDATE seats").
		WithArgs(scheduleID, []string{"S01", "S02"}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	reverted, err := repo.Release(context.Background(), scheduleID, []string{"S01", "S02"})

	require.NoError(t, err)
	assert.Equal(t, int64(2), reverted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRelease_EmptyList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewSeatRepository(mock, zap.NewNop())

	// No round trip for an empty list.
	reverted, err := repo.Release(context.Background(), uuid.New(), nil)

	require.NoError(t, err)
	assert.Zero(t, reverted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatFindByNumber_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewSeatRepository(mock, zap.NewNop())
	scheduleID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM seats").
		WithArgs(scheduleID, "S99").
		WillReturnError(pgx.ErrNoRows)

	seat, err := repo.FindByNumber(context.Background(), scheduleID, "S99")

	require.NoError(t, err)
	assert.Nil(t, seat)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatFindBySchedule(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewSeatRepository(mock, zap.NewNop())
	scheduleID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "schedule_id", "seat_number", "status", "created_at", "updated_at"}).
		AddRow(uuid.New(), scheduleID, "S01", entity.SeatStatusAvailable, now, now).
		AddRow(uuid.New(), scheduleID, "S02", entity.SeatStatusBooked, now, now)

	mock.ExpectQuery("SELECT (.+) FROM seats").
		WithArgs(scheduleID).
		WillReturnRows(rows)

	seats, err := repo.FindBySchedule(context.Background(), scheduleID)

	require.NoError(t, err)
	require.Len(t, seats, 2)
	assert.Equal(t, "S01", seats[0].SeatNumber)
	assert.Equal(t, entity.SeatStatusBooked, seats[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
