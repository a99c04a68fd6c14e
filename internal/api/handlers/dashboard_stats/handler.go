package dashboard_stats

import (
	"context"
	"net/http"

	"github.com/m04kA/AutoBooker-Service/internal/api/handlers"
	"github.com/m04kA/AutoBooker-Service/internal/api/middleware"
	"github.com/m04kA/AutoBooker-Service/internal/service/bookings/models"
)

type DashboardService interface {
	DashboardStats(ctx context.Context) (*models.DashboardResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Handler struct {
	service DashboardService
	logger  Logger
}

func NewHandler(service DashboardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/dashboard/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var userID int64
	if claims, ok := middleware.GetClaims(r.Context()); ok {
		userID = claims.UserID
	}

	result, err := h.service.DashboardStats(r.Context())
	if err != nil {
		h.logger.Error("GET /dashboard/stats - Failed to build dashboard: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /dashboard/stats - Dashboard built: user_id=%d, total=%d", userID, result.Stats.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
