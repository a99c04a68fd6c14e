package health

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/m04kA/AutoBooker-Service/internal/api/handlers"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"

	pingTimeout = 2 * time.Second
)

type Handler struct {
	integrations IntegrationStatus
	storage      Pinger // nil для хранилища в памяти
	opts         Options
	startedAt    time.Time
	now          func() time.Time
	logger       Logger
}

func NewHandler(integrations IntegrationStatus, storage Pinger, opts Options, logger Logger) *Handler {
	return &Handler{
		integrations: integrations,
		storage:      storage,
		opts:         opts,
		startedAt:    time.Now(),
		now:          time.Now,
		logger:       logger,
	}
}

// Handle GET /api/v1/health
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	storageOK := true
	if h.storage != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := h.storage.PingContext(ctx); err != nil {
			h.logger.Error("GET /health - Storage ping failed: %v", err)
			storageOK = false
		}
	}

	enabled := h.integrations.Enabled()
	missing := make([]string, 0)
	for name, ok := range enabled {
		if !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)

	resp := HealthResponse{
		Status:       statusHealthy,
		Timestamp:    now.UTC(),
		Uptime:       fmt.Sprintf("%ds", int64(now.Sub(h.startedAt).Seconds())),
		Environment:  h.opts.Environment,
		Version:      h.opts.Version,
		Storage:      StorageStatus{Driver: h.opts.StorageDriver, OK: storageOK},
		Integrations: enabled,
		Configuration: Configuration{
			AllConfigured: len(missing) == 0,
			Missing:       missing,
		},
		Endpoints: h.opts.Endpoints,
		BuildInfo: BuildInfo{
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS,
			Arch:      runtime.GOARCH,
		},
	}

	status := http.StatusOK
	if !storageOK {
		resp.Status = statusUnhealthy
		status = http.StatusServiceUnavailable
	}
	handlers.RespondJSON(w, status, resp)
}
