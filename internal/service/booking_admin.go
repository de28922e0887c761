package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
)

// BookingStore is the booking storage used after confirmation.
type BookingStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	GetByLocator(ctx context.Context, locator, pin string) (*model.Booking, error)
	Cancel(ctx context.Context, id uint64, at time.Time) error
}

// Bookings serves guest lookups and staff cancellations.
type Bookings struct {
	repo           BookingStore
	cache          Invalidator
	events         EventPublisher
	topic          string
	publishTimeout time.Duration
	now            func() time.Time
	log            *zap.Logger
}

func NewBookings(repo BookingStore, inv Invalidator, events EventPublisher, topic string, log *zap.Logger) *Bookings {
	if log == nil {
		log = zap.NewNop()
	}
	if topic == "" {
		topic = "bookings.cancelled"
	}
	return &Bookings{
		repo:           repo,
		cache:          inv,
		events:         events,
		topic:          topic,
		publishTimeout: 5 * time.Second,
		now:            time.Now,
		log:            log.With(zap.String("service", "bookings")),
	}
}

// Get returns a booking by id.
func (s *Bookings) Get(ctx context.Context, id uint64) (*model.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

// Locate finds a booking by the locator and PIN handed to the guest.
func (s *Bookings) Locate(ctx context.Context, locator, pin string) (*model.Booking, error) {
	locator = strings.ToUpper(strings.TrimSpace(locator))
	pin = strings.TrimSpace(pin)
	if locator == "" || pin == "" {
		return nil, &ValidationError{Fields: map[string]string{"locator": "Locator and pin are required"}}
	}
	return s.repo.GetByLocator(ctx, locator, pin)
}

// Cancel frees the room held by booking id.  The availability cache is
// dropped and a BookingCancelledEvent published; both are best effort.
func (s *Bookings) Cancel(ctx context.Context, id uint64) (*model.Booking, error) {
	at := s.now().UTC().Truncate(time.Second)
	if err := s.repo.Cancel(ctx, id, at); err != nil {
		return nil, err
	}
	log := s.log.With(zap.Uint64("booking_id", id))

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn("availability cache invalidation failed", zap.Error(err))
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	ev := queue.BookingCancelledEvent{
		BookingID:   b.ID,
		Locator:     b.Locator,
		RoomID:      b.RoomID,
		CancelledAt: at.Format(time.RFC3339),
	}
	if _, err := s.events.Publish(pubCtx, s.topic, ev); err != nil {
		log.Warn("cancellation event publish failed", zap.Error(err))
	}
	log.Info("booking cancelled", zap.String("locator", b.Locator))
	return b, nil
}
