package list_services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/AutoBooker-Service/internal/service/bookings/models"
	"github.com/m04kA/AutoBooker-Service/pkg/logger"
)

type fakeCatalog struct{ err error }

func (f *fakeCatalog) ListServices(_ context.Context) (*models.ServiceListResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ServiceListResponse{Services: []models.ServiceResponse{
		{ID: 1, Name: "Consultation Premium IA", Duration: "1h30", Price: 150, Category: "consultation", AutoConfirm: true},
		{ID: 2, Name: "Formation Équipe IA", Duration: "3h", Price: 250, Category: "training"},
	}}, nil
}

func TestHandle(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/services", nil)
	rec := httptest.NewRecorder()

	NewHandler(&fakeCatalog{}, logger.NewNop()).Handle(rec, r)
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.ServiceListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Services, 2)
	assert.Equal(t, "Consultation Premium IA", body.Services[0].Name)
	assert.True(t, body.Services[0].AutoConfirm)
	assert.False(t, body.Services[1].AutoConfirm)
}

func TestHandle_InternalError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/services", nil)
	rec := httptest.NewRecorder()

	NewHandler(&fakeCatalog{err: errors.New("catalog unavailable")}, logger.NewNop()).Handle(rec, r)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
