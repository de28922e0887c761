package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

// Stage names a step of a confirmation attempt.  Rejected and Conflicted are
// the early exits.
type Stage string

const (
	StageValidating   Stage = "validating"
	StagePricing      Stage = "pricing"
	StagePersisting   Stage = "persisting"
	StageInvalidating Stage = "invalidating"
	StageNotifying    Stage = "notifying"
	StageDone         Stage = "done"
	StageRejected     Stage = "rejected"
	StageConflicted   Stage = "conflicted"
	StageFailed       Stage = "failed"
)

// Outcome maps the error returned by Confirm to its terminal stage.
func Outcome(err error) Stage {
	var ve *ValidationError
	switch {
	case err == nil:
		return StageDone
	case errors.As(err, &ve), errors.Is(err, ErrRoomUnavailable):
		return StageRejected
	case errors.Is(err, ErrDuplicateBooking):
		return StageConflicted
	default:
		return StageFailed
	}
}

// GuestInput is the guest part of a confirmation request.
type GuestInput struct {
	Name        string `json:"name" validate:"required,max=50"`
	Surname     string `json:"surname" validate:"required,max=50"`
	Gender      string `json:"gender" validate:"omitempty,oneof=Male Female"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Passport    string `json:"passport" validate:"max=50"`
	Birthdate   string `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	Address1    string `json:"address1" validate:"max=100"`
	Address2    string `json:"address2" validate:"max=100"`
	Locality    string `json:"locality" validate:"max=50"`
	Postcode    string `json:"postcode" validate:"max=10"`
	Province    string `json:"province" validate:"max=50"`
	Country     string `json:"country" validate:"omitempty,iso3166_1_alpha2"`
	HomePhone   string `json:"home_phone" validate:"max=20"`
	MobilePhone string `json:"mobile_phone" validate:"max=20"`
}

// ConfirmRequest is the body of POST /v1/availability/confirm.
type ConfirmRequest struct {
	Guests   int        `json:"guests" validate:"required,min=1,max=20"`
	CheckIn  string     `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string     `json:"check_out" validate:"required,datetime=2006-01-02"`
	RoomID   uint64     `json:"id_room" validate:"required"`
	UUID     string     `json:"uuid" validate:"required"`
	Extras   []uint64   `json:"extras" validate:"omitempty,dive,required"`
	MealPlan string     `json:"meal_plan" validate:"omitempty,oneof=RoomOnly BedAndBreakfast HalfBoard FullBoard AllInclusive Special"`
	Guest    GuestInput `json:"guest"`
}

// Confirmation is a committed booking with the records it touched.
type Confirmation struct {
	Booking   model.Booking `json:"booking"`
	Guest     model.Guest   `json:"guest"`
	Room      model.Room    `json:"room"`
	MessageID string        `json:"-"`
}

// Collaborators of Confirmer.  The repository and cache types satisfy them.
type (
	TxBeginner interface {
		BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	}
	RoomLocker interface {
		LockTx(ctx context.Context, tx *sql.Tx, id uint64) error
	}
	GuestUpserter interface {
		UpsertTx(ctx context.Context, q database.Querier, g *model.Guest) error
	}
	BookingCreator interface {
		UUIDTakenTx(ctx context.Context, q database.Querier, token string) (bool, error)
		CreateTx(ctx context.Context, q database.Querier, b *model.Booking) error
	}
	Invalidator interface {
		InvalidateAll(ctx context.Context) error
	}
	EventPublisher interface {
		Publish(ctx context.Context, topic string, payload any) (string, error)
	}
	ExtrasSource interface {
		List(ctx context.Context) ([]model.Extra, error)
	}
)

// ConfirmerDeps bundles the Confirmer collaborators.
type ConfirmerDeps struct {
	DB             TxBeginner
	Rooms          RoomLocker
	RoomInfo       RoomGetter
	Guests         GuestUpserter
	Bookings       BookingCreator
	Pricer         Pricer
	Extras         ExtrasSource
	Cache          Invalidator
	Events         EventPublisher
	Topic          string
	PublishTimeout time.Duration
	Log            *zap.Logger
}

// Confirmer turns a validated offer into exactly one persisted booking per
// idempotency token.
type Confirmer struct {
	d   ConfirmerDeps
	now func() time.Time
	log *zap.Logger
}

const locatorAttempts = 3

func NewConfirmer(d ConfirmerDeps) *Confirmer {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.PublishTimeout <= 0 {
		d.PublishTimeout = 5 * time.Second
	}
	if d.Topic == "" {
		d.Topic = "bookings.new"
	}
	return &Confirmer{d: d, now: time.Now, log: d.Log.With(zap.String("service", "booking_confirmation"))}
}

type confirmInput struct {
	stay     model.Stay
	uuid     string
	mealPlan model.MealPlan
	extras   []model.Extra
	guest    model.Guest
}

// Confirm validates req, re-prices the room inside a transaction that holds
// the room lock, upserts the guest and inserts the booking.  After commit it
// invalidates the availability cache and publishes a BookingCreatedEvent;
// failures of those two steps are only logged.
//
// Errors: *ValidationError, ErrRoomUnavailable, ErrDuplicateBooking, or a
// wrapped internal error.
func (c *Confirmer) Confirm(ctx context.Context, req ConfirmRequest) (*Confirmation, error) {
	in, err := c.validate(ctx, req)
	if err != nil {
		return nil, err
	}
	log := c.log.With(zap.String("uuid", in.uuid), zap.Uint64("room_id", req.RoomID))

	booking, guest, err := c.persist(ctx, in, log)
	if err != nil {
		log.Info("confirmation stopped", zap.String("stage", string(Outcome(err))), zap.Error(err))
		return nil, err
	}
	log = log.With(zap.Uint64("booking_id", booking.ID), zap.String("locator", booking.Locator))

	// Invalidating
	if err := c.d.Cache.InvalidateAll(ctx); err != nil {
		log.Warn("availability cache invalidation failed", zap.String("stage", string(StageInvalidating)), zap.Error(err))
	}

	room := c.roomFor(ctx, booking.RoomID, log)

	// Notifying.  The booking is committed, so the caller going away must not
	// cancel the publish.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.d.PublishTimeout)
	defer cancel()
	msgID, err := c.d.Events.Publish(pubCtx, c.d.Topic, createdEvent(booking, guest, room))
	if err != nil {
		log.Warn("booking event publish failed", zap.String("stage", string(StageNotifying)), zap.Error(err))
	}

	log.Info("booking confirmed", zap.Float64("total_price", booking.TotalPrice), zap.String("message_id", msgID))
	return &Confirmation{Booking: booking, Guest: guest, Room: room, MessageID: msgID}, nil
}

func (c *Confirmer) validate(ctx context.Context, req ConfirmRequest) (confirmInput, error) {
	if errs := utils.ValidateStruct(req); errs != nil {
		return confirmInput{}, &ValidationError{Fields: errs}
	}
	checkIn, _ := time.Parse(model.DateLayout, req.CheckIn)
	checkOut, _ := time.Parse(model.DateLayout, req.CheckOut)
	if !checkIn.Before(checkOut) {
		return confirmInput{}, invalid("check_out", "Must be after check_in")
	}
	token, err := uuid.Parse(req.UUID)
	if err != nil {
		return confirmInput{}, invalid("uuid", "Must be a valid UUID")
	}

	in := confirmInput{
		stay:     model.Stay{CheckIn: checkIn, CheckOut: checkOut, Guests: req.Guests, RoomIDs: []uint64{req.RoomID}},
		uuid:     token.String(),
		mealPlan: model.MealPlan(req.MealPlan),
		guest:    guestFromInput(req.Guest),
	}
	if in.mealPlan == "" {
		in.mealPlan = model.MealBedAndBreakfast
	}

	if len(req.Extras) > 0 {
		catalog, err := c.d.Extras.List(ctx)
		if err != nil {
			return confirmInput{}, fmt.Errorf("load extras: %w", err)
		}
		byID := make(map[uint64]model.Extra, len(catalog))
		for _, e := range catalog {
			byID[e.ID] = e
		}
		seen := make(map[uint64]bool, len(req.Extras))
		for _, id := range req.Extras {
			e, ok := byID[id]
			if !ok {
				return confirmInput{}, invalid("extras", fmt.Sprintf("Unknown extra %d", id))
			}
			if !seen[id] {
				seen[id] = true
				in.extras = append(in.extras, e)
			}
		}
	}
	return in, nil
}

// persist runs the Pricing and Persisting stages in one transaction.
func (c *Confirmer) persist(ctx context.Context, in confirmInput, log *zap.Logger) (model.Booking, model.Guest, error) {
	roomID := in.stay.RoomIDs[0]
	tx, err := c.d.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return model.Booking{}, model.Guest{}, fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Pricing
	if err := c.d.Rooms.LockTx(ctx, tx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return model.Booking{}, model.Guest{}, ErrRoomUnavailable
		}
		return model.Booking{}, model.Guest{}, fmt.Errorf("lock room: %w", err)
	}
	// A finished attempt already occupies the room, so the token is checked
	// before the re-check would report it as unavailable.
	taken, err := c.d.Bookings.UUIDTakenTx(ctx, tx, in.uuid)
	if err != nil {
		return model.Booking{}, model.Guest{}, fmt.Errorf("check token: %w", err)
	}
	if taken {
		return model.Booking{}, model.Guest{}, fmt.Errorf("%w: %s", ErrDuplicateBooking, keyReason(database.KeyBookingUUID))
	}
	offers, err := c.d.Pricer.Search(ctx, tx, in.stay)
	if err != nil {
		return model.Booking{}, model.Guest{}, fmt.Errorf("re-price room: %w", err)
	}
	var offer *model.Offer
	for i := range offers {
		if offers[i].RoomID == roomID {
			offer = &offers[i]
			break
		}
	}
	if offer == nil {
		return model.Booking{}, model.Guest{}, ErrRoomUnavailable
	}

	// Persisting
	guest := in.guest
	if err := c.d.Guests.UpsertTx(ctx, tx, &guest); err != nil {
		return model.Booking{}, model.Guest{}, fmt.Errorf("upsert guest: %w", err)
	}

	b := model.Booking{
		GuestID:         guest.ID,
		RoomID:          roomID,
		Guests:          in.stay.Guests,
		CheckIn:         in.stay.CheckIn,
		CheckOut:        in.stay.CheckOut,
		BasePrice:       offer.BasePrice,
		TaxesPercentage: offer.TaxesPercentage,
		TaxesValue:      offer.TaxesValue,
		TotalPrice:      offer.TotalPrice,
		Status:          model.BookingConfirmed,
		MealPlan:        in.mealPlan,
		Extras:          in.extras,
		UUID:            in.uuid,
		ReservedAt:      c.now().UTC().Truncate(time.Second),
	}
	if b.Extras == nil {
		b.Extras = []model.Extra{}
	}
	if err := c.insert(ctx, tx, &b, log); err != nil {
		return model.Booking{}, model.Guest{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Booking{}, model.Guest{}, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return b, guest, nil
}

// insert creates the booking, drawing a fresh locator when the random one
// collides with an existing booking.
func (c *Confirmer) insert(ctx context.Context, tx *sql.Tx, b *model.Booking, log *zap.Logger) error {
	pin, err := utils.NewPIN()
	if err != nil {
		return fmt.Errorf("pin: %w", err)
	}
	b.PIN = pin

	for attempt := 1; ; attempt++ {
		if b.Locator, err = utils.NewLocator(); err != nil {
			return fmt.Errorf("locator: %w", err)
		}
		err = c.d.Bookings.CreateTx(ctx, tx, b)
		var dup *repository.DuplicateError
		switch {
		case err == nil:
			return nil
		case errors.As(err, &dup) && dup.Key == database.KeyBookingLocator && attempt < locatorAttempts:
			log.Debug("locator collision, retrying", zap.Int("attempt", attempt))
			continue
		case errors.As(err, &dup) && dup.Key != database.KeyBookingLocator:
			return fmt.Errorf("%w: %s", ErrDuplicateBooking, keyReason(dup.Key))
		default:
			return fmt.Errorf("insert booking: %w", err)
		}
	}
}

func keyReason(key string) string {
	switch key {
	case database.KeyBookingUUID:
		return "idempotency token already used"
	case database.KeyBookingGuestRoomCheckIn:
		return "guest already booked this room from the same day"
	default:
		return "unique constraint violated"
	}
}

func (c *Confirmer) roomFor(ctx context.Context, id uint64, log *zap.Logger) model.Room {
	if c.d.RoomInfo != nil {
		r, err := c.d.RoomInfo.GetByID(ctx, id)
		if err == nil {
			return *r
		}
		log.Warn("room lookup failed", zap.Error(err))
	}
	return model.Room{ID: id}
}

func guestFromInput(g GuestInput) model.Guest {
	out := model.Guest{
		Name:        strings.TrimSpace(g.Name),
		Surname:     strings.TrimSpace(g.Surname),
		Gender:      g.Gender,
		Email:       strings.ToLower(strings.TrimSpace(g.Email)),
		Passport:    strings.TrimSpace(g.Passport),
		Address1:    strings.TrimSpace(g.Address1),
		Address2:    strings.TrimSpace(g.Address2),
		Locality:    strings.TrimSpace(g.Locality),
		Postcode:    strings.TrimSpace(g.Postcode),
		Province:    strings.TrimSpace(g.Province),
		Country:     strings.ToUpper(g.Country),
		HomePhone:   strings.TrimSpace(g.HomePhone),
		MobilePhone: strings.TrimSpace(g.MobilePhone),
	}
	if t, err := time.Parse(model.DateLayout, g.Birthdate); err == nil {
		out.Birthdate = &t
	}
	return out
}

func createdEvent(b model.Booking, g model.Guest, r model.Room) queue.BookingCreatedEvent {
	return queue.BookingCreatedEvent{
		BookingID:  b.ID,
		Locator:    b.Locator,
		GuestID:    g.ID,
		GuestName:  strings.TrimSpace(g.Name + " " + g.Surname),
		GuestEmail: g.Email,
		RoomID:     b.RoomID,
		RoomNumber: r.Number(),
		CheckIn:    b.CheckIn.Format(model.DateLayout),
		CheckOut:   b.CheckOut.Format(model.DateLayout),
		Guests:     b.Guests,
		MealPlan:   string(b.MealPlan),
		TotalPrice: b.TotalPrice,
		ReservedAt: b.ReservedAt.Format(time.RFC3339),
	}
}
