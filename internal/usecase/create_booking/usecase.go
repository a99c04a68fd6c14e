package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	"github.com/m04kA/AutoBooker-Service/internal/events"
	bookingRepo "github.com/m04kA/AutoBooker-Service/internal/infra/storage/booking"
	"github.com/m04kA/AutoBooker-Service/internal/infra/storage/catalog"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalog      ServiceCatalog
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger

	location   *time.Location
	slotLabels []string
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalog ServiceCatalog,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	opts Options,
	logger Logger,
) *UseCase {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	labels := opts.SlotLabels
	if len(labels) == 0 {
		labels = domain.DefaultSlotLabels
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		location:     loc,
		slotLabels:   labels,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка слота и запись выполняются в одной сериализуемой секции,
// поэтому два конкурентных запроса на один слот не могут пройти оба.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	// 1. Валидация входных данных
	in, err := validateRequest(req, uc.slotLabels)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: service=%d, date=%s, time=%s, email=%s",
		in.serviceID, in.date, in.time, in.customer.Email)

	// 2. Получаем услугу из каталога
	service, err := uc.catalog.GetByID(ctx, in.serviceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", in.serviceID)
			return nil, ErrUnknownService
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", in.serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}

	var result *domain.Booking

	// 3. Проверка слота и запись в сериализуемой секции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		now := uc.timeProvider.Now()

		// 3.1. Слот не должен быть в прошлом
		past, err := isSlotInPast(in.date, in.time, now, uc.location)
		if err != nil {
			return fmt.Errorf("%w: invalid slot: %w", ErrInvalidInput, err)
		}
		if past {
			uc.logger.Warn("CreateBooking: slot %s %s is in the past", in.date, in.time)
			return fmt.Errorf("%w: slot is in the past", ErrSlotUnavailable)
		}

		// 3.2. Слот не должен быть занят активным бронированием
		taken, err := uc.bookingRepo.HasActiveAt(txCtx, in.date, in.time, 0)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check slot: %v", err)
			return fmt.Errorf("%w: failed to check slot: %w", ErrInternal, err)
		}
		if taken {
			uc.logger.Warn("CreateBooking: slot %s %s already booked", in.date, in.time)
			return fmt.Errorf("%w: slot already booked", ErrSlotUnavailable)
		}

		// 3.3. Резервируем ID и строим код подтверждения
		id, err := uc.bookingRepo.NextID(txCtx)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to allocate id: %v", err)
			return fmt.Errorf("%w: failed to allocate id: %w", ErrInternal, err)
		}

		customer := in.customer
		customer.ID = uuid.NewString()

		booking := &domain.Booking{
			ID:               id,
			ConfirmationCode: domain.NewConfirmationCode(id, now.UTC().Year()),
			Service:          service.Clone(),
			Date:             in.date,
			Time:             in.time,
			Status:           service.InitialStatus(),
			Customer:         customer,
			Pricing:          domain.CalculatePricing(service.Price, customer.IsReturning, customer.IsFirstTime),
			Source:           req.Source,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		// 3.4. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: slot %s %s taken concurrently", in.date, in.time)
				return fmt.Errorf("%w: slot already booked", ErrSlotUnavailable)
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: created booking id=%d code=%s status=%s",
		result.ID, result.ConfirmationCode, result.Status)

	// 4. Метрики и событие публикуются только после коммита
	uc.metrics.BookingCreated(string(result.Status))

	if err := uc.publisher.Publish(events.Event{
		Topic:      events.TopicBookingCreated,
		Booking:    result,
		OccurredAt: result.CreatedAt,
	}); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	return result, nil
}
