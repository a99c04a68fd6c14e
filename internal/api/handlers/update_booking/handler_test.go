package update_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/AutoBooker-Service/internal/service/bookings"
	"github.com/m04kA/AutoBooker-Service/internal/service/bookings/models"
	"github.com/m04kA/AutoBooker-Service/pkg/logger"
)

type fakeService struct {
	gotID  int64
	gotReq *models.UpdateBookingRequest
	err    error
}

func (f *fakeService) Update(_ context.Context, id int64, req *models.UpdateBookingRequest) (*models.BookingResponse, error) {
	f.gotID = id
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: id, Status: *req.Status}, nil
}

func doRequest(h *Handler, id, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/"+id, strings.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"bookingId": id})
	rec := httptest.NewRecorder()
	h.Handle(rec, r)
	return rec
}

func TestHandle_Updated(t *testing.T) {
	svc := &fakeService{}
	rec := doRequest(NewHandler(svc, logger.NewNop()), "7", `{"status":"confirmed"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), svc.gotID)
	assert.Nil(t, svc.gotReq.Date)

	var resp UpdateBookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "confirmed", resp.Booking.Status)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name string
		id   string
		body string
		err  error
		want int
	}{
		{"bad id", "abc", `{}`, nil, http.StatusBadRequest},
		{"bad body", "1", `{`, nil, http.StatusBadRequest},
		{"invalid input", "1", `{"status":"x"}`, bookings.ErrInvalidInput, http.StatusBadRequest},
		{"not found", "1", `{"status":"confirmed"}`, bookings.ErrNotFound, http.StatusNotFound},
		{"terminal", "1", `{"status":"confirmed"}`, bookings.ErrInvalidTransition, http.StatusConflict},
		{"slot taken", "1", `{"status":"confirmed"}`, bookings.ErrSlotUnavailable, http.StatusConflict},
		{"internal", "1", `{"status":"confirmed"}`, bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(NewHandler(&fakeService{err: tt.err}, logger.NewNop()), tt.id, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
