package get_booking_by_code

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/AutoBooker-Service/internal/service/bookings"
	"github.com/m04kA/AutoBooker-Service/internal/service/bookings/models"
	"github.com/m04kA/AutoBooker-Service/pkg/logger"
)

type fakeService struct{ err error }

func (f *fakeService) GetByCode(_ context.Context, code string) (*models.BookingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: 1, ConfirmationCode: code}, nil
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"found", nil, http.StatusOK},
		{"malformed", bookings.ErrInvalidInput, http.StatusBadRequest},
		{"not found", bookings.ErrNotFound, http.StatusNotFound},
		{"internal", bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/code/AB-001-2030-3", nil)
			r = mux.SetURLVars(r, map[string]string{"code": "AB-001-2030-3"})
			rec := httptest.NewRecorder()

			NewHandler(&fakeService{err: tt.err}, logger.NewNop()).Handle(rec, r)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
