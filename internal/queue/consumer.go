package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Notifier consumes BookingCreatedEvent messages and writes one confirmation
// notice per booking to its sink, a logger usually backed by a rotated file.
type Notifier struct {
	url   string
	queue string
	sink  *zap.Logger
	log   *zap.Logger
}

func NewNotifier(url, queue string, sink, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{url: url, queue: queue, sink: sink, log: log.With(zap.String("service", "notifier"))}
}

// Run connects to the broker and consumes until ctx is cancelled,
// reconnecting with exponential backoff when the connection drops.
func (n *Notifier) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(n.url)
		if err != nil {
			n.log.Warn("dial broker failed", zap.Error(err), zap.Duration("retry_in", backoff))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = n.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n.log.Warn("consume loop ended, reconnecting", zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func (n *Notifier) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		n.log.Warn("set qos failed", zap.Error(err))
	}
	if _, err := declare(ch, n.queue); err != nil {
		return err
	}
	msgs, err := ch.Consume(n.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := n.Handle(d.Body); err != nil {
				n.log.Error("handle message failed", zap.String("message_id", d.MessageId), zap.Error(err))
				_ = d.Nack(false, false) // do not requeue poison messages
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one message body and writes the guest notice.
func (n *Notifier) Handle(body []byte) error {
	var ev BookingCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == 0 || ev.GuestEmail == "" {
		return fmt.Errorf("incomplete event: booking_id=%d email=%q", ev.BookingID, ev.GuestEmail)
	}
	n.sink.Info("booking confirmation sent",
		zap.String("to", ev.GuestEmail),
		zap.String("guest", ev.GuestName),
		zap.Uint64("booking_id", ev.BookingID),
		zap.String("locator", ev.Locator),
		zap.String("room", ev.RoomNumber),
		zap.String("check_in", ev.CheckIn),
		zap.String("check_out", ev.CheckOut),
		zap.Int("guests", ev.Guests),
		zap.String("meal_plan", ev.MealPlan),
		zap.Float64("total_price", ev.TotalPrice),
	)
	return nil
}
