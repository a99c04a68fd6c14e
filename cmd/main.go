package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cancelBookingHandler "github.com/m04kA/AutoBooker-Service/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/AutoBooker-Service/internal/api/handlers/create_booking"
	dashboardStatsHandler "github.com/m04kA/AutoBooker-Service/internal/api/handlers/dashboard_stats"
	getAvailableSlotsHandler "github.com/m04kA/AutoBooker-Service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/AutoBooker-Service/internal/api/handlers/get_booking"
	getBookingByCodeHandler "github.com/m04kA/AutoBooker-Service/internal/api/handlers/get_booking_by_code"
	healthHandler "github.com/m04kA/AutoBooker-Service/internal/api/handlers/health"
	listBookingsHandler "github.com/m04kA/AutoBooker-Service/internal/api/handlers/list_bookings"
	listServicesHandler "github.com/m04kA/AutoBooker-Service/internal/api/handlers/list_services"
	loginHandler "github.com/m04kA/AutoBooker-Service/internal/api/handlers/login"
	registerHandler "github.com/m04kA/AutoBooker-Service/internal/api/handlers/register"
	updateBookingHandler "github.com/m04kA/AutoBooker-Service/internal/api/handlers/update_booking"
	"github.com/m04kA/AutoBooker-Service/internal/api/middleware"
	"github.com/m04kA/AutoBooker-Service/internal/config"
	"github.com/m04kA/AutoBooker-Service/internal/events"
	bookingRepo "github.com/m04kA/AutoBooker-Service/internal/infra/storage/booking"
	"github.com/m04kA/AutoBooker-Service/internal/infra/storage/catalog"
	userRepo "github.com/m04kA/AutoBooker-Service/internal/infra/storage/user"
	"github.com/m04kA/AutoBooker-Service/internal/integrations/assistant"
	"github.com/m04kA/AutoBooker-Service/internal/integrations/broker"
	"github.com/m04kA/AutoBooker-Service/internal/integrations/calendar"
	"github.com/m04kA/AutoBooker-Service/internal/integrations/mailer"
	"github.com/m04kA/AutoBooker-Service/internal/integrations/payment"
	"github.com/m04kA/AutoBooker-Service/internal/integrations/sms"
	authService "github.com/m04kA/AutoBooker-Service/internal/service/auth"
	bookingsService "github.com/m04kA/AutoBooker-Service/internal/service/bookings"
	integrationsService "github.com/m04kA/AutoBooker-Service/internal/service/integrations"
	createBookingUC "github.com/m04kA/AutoBooker-Service/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/AutoBooker-Service/internal/usecase/get_available_slots"
	"github.com/m04kA/AutoBooker-Service/pkg/dbmetrics"
	"github.com/m04kA/AutoBooker-Service/pkg/jwtauth"
	"github.com/m04kA/AutoBooker-Service/pkg/logger"
	"github.com/m04kA/AutoBooker-Service/pkg/metrics"
	"github.com/m04kA/AutoBooker-Service/pkg/migrator"
	"github.com/m04kA/AutoBooker-Service/pkg/simpletxmanager"
	"github.com/m04kA/AutoBooker-Service/pkg/telemetry"
	"github.com/m04kA/AutoBooker-Service/pkg/txmanager"
)

const serviceName = "autobooker"

// bookingStore журнал бронирований: в памяти или в Postgres
type bookingStore interface {
	bookingsService.BookingRepository
	createBookingUC.BookingRepository
	getAvailableSlotsUC.BookingRepository
	integrationsService.OutcomeRepository
}

type txManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("AUTOBOOKER_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting AutoBooker-Service %s (env=%s, storage=%s)...",
		cfg.Server.Version, cfg.Server.Environment, cfg.Storage.Driver)

	location, err := cfg.Ledger.Location()
	if err != nil {
		log.Fatal("Invalid ledger timezone: %v", err)
	}

	// Трассировка (выключена при пустом endpoint)
	shutdownTracing, err := telemetry.Setup(context.Background(), serviceName, cfg.Server.Version,
		cfg.Tracing.Endpoint, cfg.Tracing.Insecure)
	if err != nil {
		log.Fatal("Failed to init tracing: %v", err)
	}
	if cfg.Tracing.Endpoint != "" {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.Endpoint)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище журнала
	var (
		bookingRepository bookingStore
		txMgr             txManager
		storagePinger     healthHandler.Pinger
	)

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		if err := migrator.Up(db, cfg.Storage.MigrationsDir); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Migrations applied from %s", cfg.Storage.MigrationsDir)

		// без метрик обертка только пишет в nil коллектор
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		storagePinger = wrappedDB

	default:
		bookingRepository = bookingRepo.NewMemoryRepository()
		txMgr = simpletxmanager.NewTransactionManager()
		log.Info("Using in-memory booking ledger")
	}

	serviceCatalog := catalog.NewDefaultRepository()
	users := userRepo.NewMemoryRepository()

	tokens, err := jwtauth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TTL())
	if err != nil {
		log.Fatal("Failed to init token manager: %v", err)
	}

	// Шина событий и внешние каналы
	dispatcher := events.NewDispatcher(cfg.Integrations.CallTimeout(), log)

	clients, brokerPublisher := buildIntegrationClients(cfg, log)
	integrationsSvc := integrationsService.NewService(
		bookingRepository,
		txMgr,
		clients,
		metricsCollector,
		integrationsService.Options{Location: location},
		log,
	)
	integrationsSvc.Register(dispatcher)

	// Инициализируем сервисы
	ledgerOpts := bookingsService.Options{Location: location, SlotLabels: cfg.Ledger.SlotLabels}

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		serviceCatalog,
		txMgr,
		dispatcher,
		ledgerOpts,
		log,
	)
	authSvc := authService.NewService(users, tokens, authService.Options{BcryptCost: cfg.Auth.BcryptCost}, log)

	if err := authSvc.SeedDemo(context.Background(), cfg.Auth.DemoEmail, cfg.Auth.DemoPassword); err != nil {
		log.Error("Failed to seed demo account: %v", err)
	}

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		serviceCatalog,
		txMgr,
		dispatcher,
		metricsCollector,
		createBookingUC.Options{Location: location, SlotLabels: cfg.Ledger.SlotLabels},
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		serviceCatalog,
		txMgr,
		getAvailableSlotsUC.Options{Location: location, SlotLabels: cfg.Ledger.SlotLabels},
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookingByCode := getBookingByCodeHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	listServices := listServicesHandler.NewHandler(bookingSvc, log)
	dashboardStats := dashboardStatsHandler.NewHandler(bookingSvc, log)
	register := registerHandler.NewHandler(authSvc, log)
	login := loginHandler.NewHandler(authSvc, cfg.Auth.SecureCookie, log)
	health := healthHandler.NewHandler(integrationsSvc, storagePinger, healthHandler.Options{
		Version:       cfg.Server.Version,
		Environment:   cfg.Server.Environment,
		StorageDriver: cfg.Storage.Driver,
		Endpoints: map[string]string{
			"bookings":       "/api/v1/bookings",
			"bookingByCode":  "/api/v1/bookings/code/{code}",
			"services":       "/api/v1/services",
			"availableSlots": "/api/v1/available-slots",
			"dashboard":      "/api/v1/dashboard/stats",
			"auth":           "/api/v1/auth/{register,login}",
			"health":         "/api/v1/health",
		},
	}, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.CORS, middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/health", health.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования клиентом с сайта
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Поиск по коду подтверждения
	api.HandleFunc("/bookings/code/{code}", getBookingByCode.Handle).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", register.Handle).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", login.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (Bearer токен или cookie auth-token)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(tokens, log))

	// --- Журнал бронирований (back office) ---
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", updateBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", cancelBooking.Handle).Methods(http.MethodDelete)

	// --- Дашборд ---
	protected.HandleFunc("/dashboard/stats", dashboardStats.Handle).Methods(http.MethodGet)

	// маршрут для preflight, ответ формирует CORS middleware
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, serviceName),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся обработчиков событий, пока хранилище еще открыто
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Error("Event handlers did not finish: %v", err)
	}

	if brokerPublisher != nil {
		if err := brokerPublisher.Close(); err != nil {
			log.Error("Failed to close broker connection: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// buildIntegrationClients создает клиентов только для настроенных каналов.
// Ненастроенный канал остается nil интерфейсом.
func buildIntegrationClients(cfg *config.Config, log *logger.Logger) (integrationsService.Clients, *broker.Publisher) {
	var (
		clients   integrationsService.Clients
		publisher *broker.Publisher
	)
	ic := cfg.Integrations
	timeout := ic.CallTimeout()

	if ic.SMTPEnabled() {
		clients.Mailer = mailer.NewClient(mailer.Config{
			Host:         ic.SMTP.Host,
			Port:         ic.SMTP.Port,
			Username:     ic.SMTP.Username,
			Password:     ic.SMTP.Password,
			From:         ic.SMTP.From,
			DashboardURL: ic.SMTP.DashboardURL,
		})
		log.Info("Email integration enabled (smtp=%s:%d)", ic.SMTP.Host, ic.SMTP.Port)
	}

	if ic.TwilioEnabled() {
		clients.SMS = sms.NewClient(sms.Config{
			BaseURL:    ic.Twilio.BaseURL,
			AccountSID: ic.Twilio.AccountSID,
			AuthToken:  ic.Twilio.AuthToken,
			From:       ic.Twilio.From,
		}, timeout)
		log.Info("SMS integration enabled")
	}

	if ic.CalendarEnabled() {
		clients.Calendar = calendar.NewClient(ic.Calendar.WebhookURL, ic.Calendar.Token, timeout)
		log.Info("Calendar integration enabled (webhook=%s)", ic.Calendar.WebhookURL)
	}

	if ic.StripeEnabled() {
		clients.Payment = payment.NewClient(ic.Stripe.BaseURL, ic.Stripe.SecretKey, ic.Stripe.Currency, timeout)
		log.Info("Payment integration enabled (currency=%s)", ic.Stripe.Currency)
	}

	if ic.OpenAIEnabled() {
		// генерация и отправка письма делят один таймаут обработчика события
		clients.Assistant = assistant.NewClient(assistant.Config{
			BaseURL: ic.OpenAI.BaseURL,
			APIKey:  ic.OpenAI.APIKey,
			Model:   ic.OpenAI.Model,
		}, timeout/2)
		log.Info("AI text generation enabled (model=%s)", ic.OpenAI.Model)
	}

	if ic.AMQPEnabled() {
		p, err := broker.NewPublisher(ic.AMQP.URL, ic.AMQP.Exchange)
		if err != nil {
			// брокер не обязателен для приема бронирований
			log.Error("Broker integration disabled: %v", err)
		} else {
			publisher = p
			clients.Broker = p
			log.Info("Broker integration enabled (exchange=%s)", ic.AMQP.Exchange)
		}
	}

	return clients, publisher
}
