package health

import "time"

// Options статические данные о сборке и окружении
type Options struct {
	Version       string
	Environment   string
	StorageDriver string
	Endpoints     map[string]string
}

// HealthResponse HTTP response model
type HealthResponse struct {
	Status        string            `json:"status"`
	Timestamp     time.Time         `json:"timestamp"`
	Uptime        string            `json:"uptime"`
	Environment   string            `json:"environment"`
	Version       string            `json:"version"`
	Storage       StorageStatus     `json:"storage"`
	Integrations  map[string]bool   `json:"integrations"`
	Configuration Configuration     `json:"configuration"`
	Endpoints     map[string]string `json:"endpoints"`
	BuildInfo     BuildInfo         `json:"buildInfo"`
}

// StorageStatus состояние хранилища
type StorageStatus struct {
	Driver string `json:"driver"`
	OK     bool   `json:"ok"`
}

// Configuration сводка по настройке интеграций
type Configuration struct {
	AllConfigured bool     `json:"allConfigured"`
	Missing       []string `json:"missing"`
}

// BuildInfo информация о рантайме
type BuildInfo struct {
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}
