package usecase

import (
	"bus-reservation/internal/data/cache"
	"bus-reservation/internal/data/repository"
	"bus-reservation/internal/events"
	"bus-reservation/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Booking BookingService
	Search  SearchService
}

func NewService(
	repo *repository.Repository,
	uow repository.UnitOfWork,
	seatCache *cache.SeatPlanCache,
	publisher *events.Publisher,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	inventory := NewSeatInventory(config.Booking, log)

	return &Service{
		Booking: NewBookingService(repo, uow, inventory, seatCache, publisher, log),
		Search:  NewSearchService(repo, log),
	}
}
