package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/cache"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/service"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

type searcherFake struct {
	res   service.SearchResult
	err   error
	stays []model.Stay
}

func (f *searcherFake) Search(_ context.Context, stay model.Stay) (service.SearchResult, error) {
	f.stays = append(f.stays, stay)
	return f.res, f.err
}

type confirmerFake struct {
	conf *service.Confirmation
	err  error
	reqs []service.ConfirmRequest
}

func (f *confirmerFake) Confirm(_ context.Context, req service.ConfirmRequest) (*service.Confirmation, error) {
	f.reqs = append(f.reqs, req)
	return f.conf, f.err
}

func do(h echo.HandlerFunc, method, target, body string, params ...string) *httptest.ResponseRecorder {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

var lastWrite = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestSearchRoomsReturnsOffersWithValidators(t *testing.T) {
	s := &searcherFake{res: service.SearchResult{
		Offers: []model.Offer{{RoomID: 1, RoomNumber: "101", Nights: 5, BasePrice: 740, TaxesValue: 74, TotalPrice: 814}},
		Entry:  cache.Entry{Hash: "abc123", LastWrite: lastWrite},
		Hit:    true,
	}}
	h := &AvailabilityHandler{Search: s, CacheControl: "private, max-age=300", Log: zap.NewNop()}

	rec := do(h.SearchRooms, http.MethodGet,
		"/v1/availability/search?check_in=2024-06-28&check_out=2024-07-03&guests=2&rooms=3&rooms=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "private, max-age=300", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "Sat, 01 Jun 2024 12:00:00 GMT", rec.Header().Get("Last-Modified"))
	assert.Equal(t, `"abc123"`, rec.Header().Get("ETag"))
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), `"total_price":814`)

	require.Len(t, s.stays, 1)
	assert.Equal(t, 2, s.stays[0].Guests)
	assert.Equal(t, []uint64{3, 1}, s.stays[0].RoomIDs)
	assert.Equal(t, 5, s.stays[0].Nights())
}

func TestSearchRoomsUncachedResult(t *testing.T) {
	s := &searcherFake{res: service.SearchResult{Offers: []model.Offer{{RoomID: 1}}}}
	h := &AvailabilityHandler{Search: s, CacheControl: "private, max-age=300", Log: zap.NewNop()}

	rec := do(h.SearchRooms, http.MethodGet, "/v1/availability/search?check_in=2024-06-28&check_out=2024-07-03", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Empty(t, rec.Header().Get("ETag"))
	assert.Equal(t, 1, s.stays[0].Guests, "guests defaults to one")
}

func TestSearchRoomsEmpty(t *testing.T) {
	h := &AvailabilityHandler{Search: &searcherFake{}, Log: zap.NewNop()}
	rec := do(h.SearchRooms, http.MethodGet, "/v1/availability/search?check_in=2024-06-28&check_out=2024-07-03&guests=2", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Empty(t, rec.Body.String())
}

func TestSearchRoomsBadInput(t *testing.T) {
	for name, query := range map[string]string{
		"missing dates":  "guests=2",
		"bad format":     "check_in=28-06-2024&check_out=2024-07-03",
		"reversed":       "check_in=2024-07-03&check_out=2024-06-28",
		"same day":       "check_in=2024-07-03&check_out=2024-07-03",
		"zero guests":    "check_in=2024-06-28&check_out=2024-07-03&guests=0",
		"non-numeric id": "check_in=2024-06-28&check_out=2024-07-03&rooms=x",
	} {
		t.Run(name, func(t *testing.T) {
			s := &searcherFake{}
			h := &AvailabilityHandler{Search: s, Log: zap.NewNop()}
			rec := do(h.SearchRooms, http.MethodGet, "/v1/availability/search?"+query, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
			assert.Empty(t, s.stays)
		})
	}
}

func TestSearchRoomsEngineFailure(t *testing.T) {
	h := &AvailabilityHandler{Search: &searcherFake{err: errors.New("db down")}, Log: zap.NewNop()}
	rec := do(h.SearchRooms, http.MethodGet, "/v1/availability/search?check_in=2024-06-28&check_out=2024-07-03", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

const confirmBody = `{"guests":2,"check_in":"2024-06-28","check_out":"2024-07-03","id_room":1,
	"uuid":"5f0c3b5e-8c84-4c3a-9f5b-6c1a2e3d4f50","extras":[2],
	"guest":{"name":"Ana","surname":"Diaz","email":"ana@example.com"}}`

func TestConfirmCreated(t *testing.T) {
	cf := &confirmerFake{conf: &service.Confirmation{
		Booking: model.Booking{ID: 9, Locator: "ABCD2345", TotalPrice: 814, Status: model.BookingConfirmed},
		Guest:   model.Guest{ID: 7, Email: "ana@example.com"},
		Room:    model.Room{ID: 1, FloorNo: 1, RoomNo: 1},
	}}
	h := &AvailabilityHandler{Confirmer: cf, Log: zap.NewNop()}

	rec := do(h.Confirm, http.MethodPost, "/v1/availability/confirm", confirmBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"locator":"ABCD2345"`)
	assert.Contains(t, rec.Body.String(), `"guest":`)
	assert.Contains(t, rec.Body.String(), `"room":`)

	require.Len(t, cf.reqs, 1)
	assert.Equal(t, uint64(1), cf.reqs[0].RoomID)
	assert.Equal(t, []uint64{2}, cf.reqs[0].Extras)
	assert.Equal(t, "Ana", cf.reqs[0].Guest.Name)
}

func TestConfirmErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{&service.ValidationError{Fields: map[string]string{"guest.email": "Invalid email format"}}, http.StatusBadRequest, "validation_error"},
		{service.ErrRoomUnavailable, http.StatusConflict, "room_unavailable"},
		{service.ErrDuplicateBooking, http.StatusConflict, "duplicate_booking"},
		{errors.New("commit: connection lost"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			h := &AvailabilityHandler{Confirmer: &confirmerFake{err: tc.err}, Log: zap.NewNop()}
			rec := do(h.Confirm, http.MethodPost, "/v1/availability/confirm", confirmBody)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error":"`+tc.code+`"`)
			assert.Contains(t, rec.Body.String(), `"message":`)
		})
	}
}

func TestConfirmMalformedBody(t *testing.T) {
	cf := &confirmerFake{}
	h := &AvailabilityHandler{Confirmer: cf, Log: zap.NewNop()}
	rec := do(h.Confirm, http.MethodPost, "/v1/availability/confirm", `{"guests":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, cf.reqs)
}

type extrasFake struct {
	extras []model.Extra
	entry  cache.Entry
}

func (f extrasFake) ListCached(context.Context) ([]model.Extra, cache.Entry, error) {
	return f.extras, f.entry, nil
}

type roomsFake map[uint64]model.Room

func (f roomsFake) Get(_ context.Context, id uint64) (*model.Room, cache.Entry, error) {
	r, ok := f[id]
	if !ok {
		return nil, cache.Entry{}, repository.ErrRoomNotFound
	}
	return &r, cache.Entry{Hash: "r1", LastWrite: lastWrite}, nil
}

func TestCatalogEndpoints(t *testing.T) {
	h := NewCatalogHandler(
		extrasFake{extras: []model.Extra{{ID: 1, Code: "LATE"}}, entry: cache.Entry{Hash: "e1", LastWrite: lastWrite}},
		roomsFake{1: {ID: 1, FloorNo: 1, RoomNo: 5}},
		"private, max-age=300", zap.NewNop())

	rec := do(h.ListExtras, http.MethodGet, "/v1/extras", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"e1"`, rec.Header().Get("ETag"))
	assert.Contains(t, rec.Body.String(), `"code":"LATE"`)

	rec = do(h.GetRoom, http.MethodGet, "/v1/rooms/1", "", "id", "1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"room_no":5`)

	rec = do(h.GetRoom, http.MethodGet, "/v1/rooms/2", "", "id", "2")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(h.GetRoom, http.MethodGet, "/v1/rooms/x", "", "id", "x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type bookingsFake struct {
	cancelErr error
}

func (f *bookingsFake) Get(_ context.Context, id uint64) (*model.Booking, error) {
	if id != 3 {
		return nil, repository.ErrBookingNotFound
	}
	return &model.Booking{ID: 3, Locator: "ABCD2345"}, nil
}

func (f *bookingsFake) Locate(_ context.Context, locator, pin string) (*model.Booking, error) {
	if pin == "" {
		return nil, &service.ValidationError{Fields: map[string]string{"locator": "Locator and pin are required"}}
	}
	if locator != "ABCD2345" || pin != "0042" {
		return nil, repository.ErrBookingNotFound
	}
	return &model.Booking{ID: 3, Locator: locator}, nil
}

func (f *bookingsFake) Cancel(_ context.Context, id uint64) (*model.Booking, error) {
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	now := lastWrite
	return &model.Booking{ID: id, Status: model.BookingCancelled, CancelledAt: &now}, nil
}

type invalidatorFake struct{ calls int }

func (f *invalidatorFake) InvalidateAll(context.Context) error {
	f.calls++
	return nil
}

func TestBookingEndpoints(t *testing.T) {
	inv := &invalidatorFake{}
	h := &BookingHandler{Bookings: &bookingsFake{}, Availability: inv, Log: zap.NewNop()}

	rec := do(h.Locate, http.MethodGet, "/v1/bookings/locate/ABCD2345?pin=0042", "", "locator", "ABCD2345")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(h.Locate, http.MethodGet, "/v1/bookings/locate/ABCD2345?pin=1111", "", "locator", "ABCD2345")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(h.Locate, http.MethodGet, "/v1/bookings/locate/ABCD2345", "", "locator", "ABCD2345")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h.Get, http.MethodGet, "/v1/admin/bookings/3", "", "id", "3")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(h.Get, http.MethodGet, "/v1/admin/bookings/0", "", "id", "0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h.Cancel, http.MethodPost, "/v1/admin/bookings/3/cancel", "", "id", "3")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Cancelled"`)

	h.Bookings = &bookingsFake{cancelErr: repository.ErrConflict}
	rec = do(h.Cancel, http.MethodPost, "/v1/admin/bookings/3/cancel", "", "id", "3")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(h.InvalidateAvailability, http.MethodDelete, "/v1/admin/cache/availability", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, inv.calls)
}

type loginFake struct{}

func (loginFake) Login(_ context.Context, u, p string) (model.Staff, utils.AccessToken, error) {
	if u != "desk" || p != "s3cret" {
		return model.Staff{}, utils.AccessToken{}, service.ErrInvalidCredentials
	}
	return model.Staff{ID: 5, Username: "desk", IsAdmin: true}, utils.AccessToken{Token: "t", Exp: lastWrite}, nil
}

func TestLogin(t *testing.T) {
	h := &AuthHandler{Auth: loginFake{}, Log: zap.NewNop()}

	rec := do(h.Login, http.MethodPost, "/v1/auth/login", `{"username":"desk","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)
	assert.Contains(t, rec.Body.String(), `"token":"t"`)

	rec = do(h.Login, http.MethodPost, "/v1/auth/login", `{"username":"desk","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type pingFake struct{ err error }

func (p pingFake) PingContext(context.Context) error { return p.err }

func TestHealthAndReady(t *testing.T) {
	rec := do(Health, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do((&ReadyHandler{DB: pingFake{}}).Ready, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cache":"disabled"`)

	rec = do((&ReadyHandler{DB: pingFake{err: errors.New("refused")}}).Ready, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
