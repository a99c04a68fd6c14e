package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	getAvailableSlots "github.com/m04kA/AutoBooker-Service/internal/usecase/get_available_slots"
	"github.com/m04kA/AutoBooker-Service/pkg/logger"
)

type fakeUseCase struct {
	got *getAvailableSlots.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &getAvailableSlots.Response{
		Date:    req.Date,
		Service: &domain.Service{ID: 2, Name: "Audit Digital Complet", Duration: "2h", Price: 200},
		Slots: []domain.AvailableSlot{
			{Time: "09:00", State: domain.SlotPassed},
			{Time: "10:00", State: domain.SlotTaken},
			{Time: "11:00", State: domain.SlotFree},
		},
	}, nil
}

func TestHandle_OK(t *testing.T) {
	uc := &fakeUseCase{}
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec,
		httptest.NewRequest(http.MethodGet, "/api/v1/available-slots?date=2030-03-10&serviceId=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got.ServiceID)
	assert.Equal(t, int64(2), *uc.got.ServiceID)

	var resp AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.AvailableCount)
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, "passed", resp.Slots[0].Reason)
	assert.Equal(t, "taken", resp.Slots[1].Reason)
	assert.Empty(t, resp.Slots[2].Reason)
	assert.Equal(t, "Audit Digital Complet", resp.Service.Name)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		err   error
		want  int
	}{
		{"no date", "", nil, http.StatusBadRequest},
		{"bad service id", "?date=2030-03-10&serviceId=x", nil, http.StatusBadRequest},
		{"bad date", "?date=10/03/2030", getAvailableSlots.ErrInvalidInput, http.StatusBadRequest},
		{"unknown service", "?date=2030-03-10&serviceId=99", getAvailableSlots.ErrServiceNotFound, http.StatusNotFound},
		{"internal", "?date=2030-03-10", getAvailableSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHandler(&fakeUseCase{err: tt.err}, logger.NewNop()).Handle(rec,
				httptest.NewRequest(http.MethodGet, "/api/v1/available-slots"+tt.query, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
