package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const TopicTicketBooked = "ticket.booked"

// TicketBooked is published after a booking commits. It is a
// notification, not part of the booking's correctness contract: a
// failed publish is logged but never un-books seats.
type TicketBooked struct {
	TicketID    uuid.UUID `json:"ticket_id"`
	TicketRef   string    `json:"ticket_ref"`
	ScheduleID  uuid.UUID `json:"schedule_id"`
	PassengerID uuid.UUID `json:"passenger_id"`
	SeatNumbers []string  `json:"seat_numbers"`
	BookedAt    time.Time `json:"booked_at"`
}

// NewGoChannelPubSub builds the in-process pub/sub transport.
func NewGoChannelPubSub(log *zap.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{}, NewZapLoggerAdapter(log))
}

// Publisher wraps a watermill publisher with the booking event schema.
type Publisher struct {
	pub message.Publisher
	log *zap.Logger
}

func NewPublisher(pub message.Publisher, log *zap.Logger) *Publisher {
	return &Publisher{
		pub: pub,
		log: log.With(zap.String("component", "event_publisher")),
	}
}

func (p *Publisher) PublishTicketBooked(event TicketBooked) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode ticket booked event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pub.Publish(TopicTicketBooked, msg); err != nil {
		return fmt.Errorf("publish ticket booked event: %w", err)
	}

	p.log.Debug("Ticket booked event published",
		zap.String("ticket_id", event.TicketID.String()),
		zap.String("ticket_ref", event.TicketRef),
	)
	return nil
}
