package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bus-reservation/internal/data/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SeatPlanCache is a read-through cache for seat plans. Entries are
// short lived and deleted outright on every successful booking, so a
// stale plan can only ever be a few seconds old.
type SeatPlanCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewSeatPlanCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *SeatPlanCache {
	return &SeatPlanCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With(zap.String("cache", "seat_plan")),
	}
}

func seatPlanKey(scheduleID uuid.UUID) string {
	return fmt.Sprintf("seatplan:%s", scheduleID.String())
}

// Get returns the cached seats and true on a hit. A miss or any redis
// error is reported as a miss; the caller falls back to the database.
func (c *SeatPlanCache) Get(ctx context.Context, scheduleID uuid.UUID) ([]*entity.Seat, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, seatPlanKey(scheduleID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Seat plan cache read failed",
				zap.Error(err),
				zap.String("schedule_id", scheduleID.String()),
			)
		}
		return nil, false
	}

	var seats []*entity.Seat
	if err := json.Unmarshal(data, &seats); err != nil {
		c.log.Warn("Seat plan cache entry corrupt",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
		return nil, false
	}

	return seats, true
}

func (c *SeatPlanCache) Set(ctx context.Context, scheduleID uuid.UUID, seats []*entity.Seat) {
	if c == nil {
		return
	}

	data, err := json.Marshal(seats)
	if err != nil {
		c.log.Warn("Seat plan cache encode failed", zap.Error(err))
		return
	}

	if err := c.rdb.Set(ctx, seatPlanKey(scheduleID), data, c.ttl).Err(); err != nil {
		c.log.Warn("Seat plan cache write failed",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
	}
}

// Invalidate drops the cached plan after a booking changed seat state.
func (c *SeatPlanCache) Invalidate(ctx context.Context, scheduleID uuid.UUID) {
	if c == nil {
		return
	}

	if err := c.rdb.Del(ctx, seatPlanKey(scheduleID)).Err(); err != nil {
		c.log.Warn("Seat plan cache invalidation failed",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
	}
}
