package wire

import (
	"context"
	"net/http"

	"bus-reservation/internal/adaptor"
	"bus-reservation/internal/data/cache"
	"bus-reservation/internal/data/repository"
	"bus-reservation/internal/events"
	"bus-reservation/internal/usecase"
	"bus-reservation/pkg/middleware"
	"bus-reservation/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired dependencies
type App struct {
	Router *chi.Mux
}

// Wiring initializes all dependencies
func Wiring(repo *repository.Repository, uow repository.UnitOfWork, config *utils.Config, logger *zap.Logger) *App {
	// Optional seat plan cache
	var seatCache *cache.SeatPlanCache
	if config.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: config.Redis.Addr})
		seatCache = cache.NewSeatPlanCache(rdb, config.Redis.SeatPlanTTL, logger)
		logger.Info("Seat plan cache enabled", zap.String("redis_addr", config.Redis.Addr))
	}

	// In-process event bus for booking notifications
	pubSub := events.NewGoChannelPubSub(logger)
	publisher := events.NewPublisher(pubSub, logger)
	startBookingEventConsumer(pubSub, logger)

	// Initialize services and handlers
	service := usecase.NewService(repo, uow, seatCache, publisher, config, logger)
	handler := adaptor.NewHandler(service, logger)

	// Setup router
	router := setupRouter(handler, logger)

	return &App{
		Router: router,
	}
}

// setupRouter configures the Chi router
func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireBooking(r, handler.Booking)
	wireSearch(r, handler.Search)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

// startBookingEventConsumer logs every confirmed booking flowing over
// the event bus. Downstream consumers (notifications, reporting) hook
// in the same way.
func startBookingEventConsumer(pubSub *gochannel.GoChannel, logger *zap.Logger) {
	messages, err := pubSub.Subscribe(context.Background(), events.TopicTicketBooked)
	if err != nil {
		logger.Error("Failed to subscribe to booking events", zap.Error(err))
		return
	}

	log := logger.With(zap.String("component", "booking_event_consumer"))
	go func() {
		for msg := range messages {
			log.Info("Ticket booked",
				zap.String("message_id", msg.UUID),
				zap.ByteString("payload", msg.Payload),
			)
			msg.Ack()
		}
	}()
}
