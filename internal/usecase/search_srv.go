package usecase

import (
	"context"
	"fmt"

	"bus-reservation/internal/data/repository"
	"bus-reservation/internal/dto/request"
	"bus-reservation/internal/dto/response"
	"bus-reservation/pkg/utils"

	"go.uber.org/zap"
)

type SearchService interface {
	SearchAvailableBuses(ctx context.Context, req *request.SearchBusesRequest) ([]*response.AvailableBusResponse, error)
}

type searchService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewSearchService(repo *repository.Repository, log *zap.Logger) SearchService {
	return &searchService{
		repo: repo,
		log:  log.With(zap.String("service", "search")),
	}
}

func (s *searchService) SearchAvailableBuses(ctx context.Context, req *request.SearchBusesRequest) ([]*response.AvailableBusResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Search validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, utils.FormatValidationErrors(errs))
	}

	journeyDate, err := utils.ParseDate(req.JourneyDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid journey date %s", ErrInvalidRequest, req.JourneyDate)
	}

	schedules, err := s.repo.Schedule.Search(ctx, req.From, req.To, journeyDate)
	if err != nil {
		return nil, &PersistenceError{Op: "search schedules", Err: err}
	}

	buses := make([]*response.AvailableBusResponse, len(schedules))
	for i, schedule := range schedules {
		buses[i] = response.AvailableScheduleToResponse(schedule)
	}

	s.log.Info("Available buses retrieved",
		zap.String("from", req.From),
		zap.String("to", req.To),
		zap.String("journey_date", req.JourneyDate),
		zap.Int("count", len(buses)),
	)

	return buses, nil
}
