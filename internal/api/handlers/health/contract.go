package health

import "context"

// IntegrationStatus признак настройки внешних каналов
type IntegrationStatus interface {
	Enabled() map[string]bool
}

// Pinger проверка доступности хранилища
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
