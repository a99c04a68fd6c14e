package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	"github.com/m04kA/AutoBooker-Service/internal/infra/storage/catalog"
)

// UseCase use case для получения доступных слотов
type UseCase struct {
	bookingRepo  BookingRepository
	catalog      ServiceCatalog
	txManager    TransactionManager
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
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		location:     loc,
		slotLabels:   labels,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	date, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	resp := &Response{Date: date}

	// 2. Проверяем услугу, если она указана
	if req.ServiceID != nil {
		service, err := uc.catalog.GetByID(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalog.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailableSlots: service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
		}
		resp.Service = service
	}

	// 3. Получаем активные бронирования на дату
	var bookings []*domain.Booking
	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		bookings, err = uc.bookingRepo.GetActiveByDate(txCtx, date)
		return err
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings for date=%s: %v", date, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}

	// 4. Размечаем сетку слотов
	resp.Slots, err = buildSlots(date, uc.slotLabels, bookings, uc.timeProvider.Now(), uc.location)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to build slots: %v", err)
		return nil, fmt.Errorf("%w: failed to build slots: %w", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: date=%s, available=%d/%d", date, resp.AvailableCount(), len(resp.Slots))

	return resp, nil
}
