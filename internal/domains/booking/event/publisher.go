package event

//go:generate go run go.uber.org/mock/mockgen -source=./publisher.go -destination=../mocks/publisher_mock.go -package=mocks

import (
	"context"

	"hall/config"
	"hall/infras/kafka"
	"hall/infras/otel"
	"hall/internal/domains/booking/model"
	"hall/shared/constant"
	"hall/shared/timezone"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingUpdated   = "booking.updated"
	TypeBookingCancelled = "booking.cancelled"
)

// BookingEvent is the lifecycle message emitted after a successful write.
// Keyed by room so consumers see each room's history in order.
type BookingEvent struct {
	Type       string `json:"type"`
	BookingID  string `json:"booking_id"`
	RoomID     string `json:"room_id"`
	UserID     string `json:"user_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}

func NewBookingEvent(eventType string, booking model.Booking) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		UserID:     booking.UserID,
		StartTime:  timezone.Format(booking.StartTime, constant.DateFormat),
		EndTime:    timezone.Format(booking.EndTime, constant.DateFormat),
		Status:     booking.Status.String(),
		OccurredAt: timezone.Format(timezone.Now(), constant.DateFormat),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
}

type kafkaPublisher struct {
	client kafka.Client
	config *config.Config
	otel   otel.Otel
}

func NewKafkaPublisher(client kafka.Client, cfg *config.Config, otl otel.Otel) Publisher {
	return &kafkaPublisher{
		client: client,
		config: cfg,
		otel:   otl,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event BookingEvent) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publisher.Publish")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("event.type", event.Type)

	return p.client.SendMessages(ctx, p.config.Kafka.Topics.BookingEvents, kafka.Message{
		Key:   event.RoomID,
		Value: event,
	})
}
