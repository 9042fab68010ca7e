// Package events publishes booking lifecycle events to Kafka. Publishing is
// best effort: the booking is already durable in the store before an event
// is emitted, so a broker failure is logged and never fails the request.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"

	"bookline/pkg/logger"
	"bookline/pkg/model"
)

const (
	EventTypeBookingCreated = "booking.created"

	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
)

var ErrPublisherClosed = errors.New("event publisher is closed")

// BookingCreated is the payload emitted after a booking is persisted.
type BookingCreated struct {
	BookingID    int        `json:"booking_id"`
	CarID        int        `json:"car_id"`
	StartDate    model.Date `json:"start_date"`
	EndDate      model.Date `json:"end_date"`
	CustomerName string     `json:"customer_name"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

type Publisher struct {
	writer *kafka.Writer
	source string
	log    *logger.Logger

	mu     sync.Mutex
	closed bool
}

func NewPublisher(brokers []string, topic, source string, log *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // hash by car id keeps per-car ordering
		RequiredAcks: kafka.RequireAll,
		Compression:  compress.Snappy,
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error("Kafka writer error", "message", msg, "args", args)
		}),
	}

	return &Publisher{
		writer: writer,
		source: source,
		log:    log,
	}
}

func (p *Publisher) BookingCreated(ctx context.Context, booking *model.Booking) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPublisherClosed
	}
	p.mu.Unlock()

	event := BookingCreated{
		BookingID:    booking.ID,
		CarID:        booking.CarID,
		StartDate:    booking.StartDate,
		EndDate:      booking.EndDate,
		CustomerName: booking.CustomerName,
		OccurredAt:   time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(strconv.Itoa(booking.CarID)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(uuid.NewString())},
			{Key: HeaderEventType, Value: []byte(EventTypeBookingCreated)},
			{Key: HeaderSource, Value: []byte(p.source)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
