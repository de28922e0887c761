package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

type storeFake struct {
	rows map[uint64]*model.Booking
}

func (s *storeFake) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *storeFake) GetByLocator(_ context.Context, locator, pin string) (*model.Booking, error) {
	for _, b := range s.rows {
		if b.Locator == locator && b.PIN == pin {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repository.ErrBookingNotFound
}

func (s *storeFake) Cancel(_ context.Context, id uint64, at time.Time) error {
	b, ok := s.rows[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	if b.CancelledAt != nil {
		return repository.ErrConflict
	}
	b.CancelledAt = &at
	b.Status = model.BookingCancelled
	return nil
}

func newStore() *storeFake {
	return &storeFake{rows: map[uint64]*model.Booking{
		3: {ID: 3, RoomID: 1, Locator: "ABCD2345", PIN: "0042", Status: model.BookingConfirmed},
	}}
}

func TestBookingsLocate(t *testing.T) {
	s := NewBookings(newStore(), &invalidatorFake{}, &publisherFake{}, "", nil)

	b, err := s.Locate(context.Background(), " abcd2345 ", "0042")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), b.ID)

	_, err = s.Locate(context.Background(), "ABCD2345", "9999")
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)

	_, err = s.Locate(context.Background(), "", "")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestBookingsCancel(t *testing.T) {
	inv := &invalidatorFake{}
	pub := &publisherFake{}
	s := NewBookings(newStore(), inv, pub, "", nil)

	b, err := s.Cancel(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, b.Status)
	require.NotNil(t, b.CancelledAt)
	assert.Equal(t, 1, inv.calls)
	require.Len(t, pub.payloads, 1)
	assert.Equal(t, "bookings.cancelled", pub.topics[0])
	assert.Equal(t, "ABCD2345", pub.payloads[0].(queue.BookingCancelledEvent).Locator)

	_, err = s.Cancel(context.Background(), 3)
	assert.ErrorIs(t, err, repository.ErrConflict)
	_, err = s.Cancel(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
	assert.Equal(t, 1, inv.calls)
}

type staffFake map[string]model.Staff

func (f staffFake) GetByUsername(_ context.Context, u string) (model.Staff, error) {
	s, ok := f[u]
	if !ok {
		return model.Staff{}, repository.ErrStaffNotFound
	}
	return s, nil
}

func TestAuthLogin(t *testing.T) {
	hash, err := utils.HashStaffPassword("s3cret", 4)
	require.NoError(t, err)
	a := NewAuth(staffFake{"desk": {ID: 5, Username: "desk", PasswordHash: hash, IsAdmin: true}}, "test-secret", 15, nil)

	s, tok, err := a.Login(context.Background(), " Desk ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), s.ID)
	assert.NotEmpty(t, tok.Token)
	assert.True(t, tok.Exp.After(time.Now()))

	_, _, err = a.Login(context.Background(), "desk", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = a.Login(context.Background(), "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = a.Login(context.Background(), "", "")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
