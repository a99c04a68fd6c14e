package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	createBooking "github.com/m04kA/AutoBooker-Service/internal/usecase/create_booking"
	"github.com/m04kA/AutoBooker-Service/pkg/logger"
)

type fakeUseCase struct {
	got *createBooking.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*domain.Booking, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	now := time.Date(2030, 3, 1, 8, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:               1,
		ConfirmationCode: "AB-001-2030-3",
		Service:          domain.Service{ID: req.ServiceID, Name: "Consultation Premium IA"},
		Date:             req.Date,
		Time:             "10:00",
		Status:           domain.StatusConfirmed,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

const validBody = `{
	"service": {"id": 1},
	"date": "2030-03-10",
	"time": "10:00",
	"customer": {"firstName": "Jean", "lastName": "Dupont", "email": "jean@example.com", "phone": "+33600000000", "message": "Parking", "isFirstTime": true},
	"preferences": {"language": "fr"}
}`

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, logger.NewNop())

	r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(validBody))
	r.Header.Set("User-Agent", "curl/8.0")
	r.Header.Set("X-Forwarded-For", "10.0.0.1, 172.16.0.1")
	rec := httptest.NewRecorder()

	h.Handle(rec, r)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CreateBookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "AB-001-2030-3", resp.Booking.ConfirmationCode)
	assert.Equal(t, "confirmed", resp.Booking.Status)

	assert.Equal(t, int64(1), uc.got.ServiceID)
	assert.Equal(t, "Parking", uc.got.Customer.Notes)
	assert.True(t, uc.got.Customer.IsFirstTime)
	assert.Equal(t, "fr", uc.got.Preferences["language"])
	assert.Equal(t, "10.0.0.1", uc.got.Source.IP)
	assert.Equal(t, "curl/8.0", uc.got.Source.UserAgent)
	assert.Equal(t, "web_booking", uc.got.Source.Channel)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{createBooking.ErrMissingField, http.StatusBadRequest},
		{createBooking.ErrInvalidInput, http.StatusBadRequest},
		{createBooking.ErrUnknownService, http.StatusNotFound},
		{createBooking.ErrSlotUnavailable, http.StatusConflict},
		{createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: fmt.Errorf("%w: detail", tt.err)}, logger.NewNop())
			rec := httptest.NewRecorder()

			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(validBody)))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_InvalidBody(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, logger.NewNop())
	rec := httptest.NewRecorder()

	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"service":`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
