package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	"github.com/m04kA/AutoBooker-Service/internal/events"
	bookingRepo "github.com/m04kA/AutoBooker-Service/internal/infra/storage/booking"
	"github.com/m04kA/AutoBooker-Service/internal/service/bookings/models"
	"github.com/m04kA/AutoBooker-Service/pkg/types"
)

// Options параметры журнала бронирований
type Options struct {
	Location   *time.Location
	SlotLabels []string
}

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	catalog      ServiceCatalog
	txManager    TransactionManager
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger

	location   *time.Location
	slotLabels []string
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	catalog ServiceCatalog,
	txManager TransactionManager,
	publisher EventPublisher,
	opts Options,
	logger Logger,
) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	labels := opts.SlotLabels
	if len(labels) == 0 {
		labels = domain.DefaultSlotLabels
	}

	return &Service{
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		txManager:    txManager,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		location:     loc,
		slotLabels:   labels,
	}
}

// List возвращает страницу бронирований и статистику по всему журналу.
// Страница и статистика читаются в одной read-only секции, то есть из одного снимка.
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := toDomainFilter(req)
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, err
	}

	s.logger.Info("List: fetching bookings limit=%d, offset=%d", filter.Limit, filter.Offset)

	var (
		page  []*domain.Booking
		total int
		stats domain.BookingStats
	)
	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		page, total, err = s.bookingRepo.List(txCtx, filter)
		if err != nil {
			return err
		}
		stats, err = s.bookingRepo.Stats(txCtx)
		return err
	})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d of %d bookings", len(page), total)

	return &models.BookingListResponse{
		Bookings: models.FromDomainBookings(page),
		Pagination: models.PaginationResponse{
			Total:   total,
			Limit:   filter.Limit,
			Offset:  filter.Offset,
			HasMore: filter.Offset+filter.Limit < total,
		},
		Stats: models.FromDomainStats(stats),
	}, nil
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetByCode получает бронирование по коду подтверждения
func (s *Service) GetByCode(ctx context.Context, code string) (*models.BookingResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	s.logger.Info("GetByCode: fetching booking code=%s", code)

	if err := domain.ValidateConfirmationCode(code); err != nil {
		s.logger.Warn("GetByCode: malformed code=%s", code)
		return nil, fmt.Errorf("%w: malformed confirmation code", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByConfirmationCode(ctx, code)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByCode: booking code=%s not found", code)
			return nil, ErrNotFound
		}
		s.logger.Error("GetByCode: repository error for code=%s: %v", code, err)
		return nil, fmt.Errorf("%w: GetByCode - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// Update частично обновляет бронирование (статус, дата, время, заметки).
// Смена даты или времени активного бронирования проверяется по тем же правилам, что и создание.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Update: updating booking id=%d", id)

	// 1. Валидация входных данных
	patch, err := s.validateUpdate(req)
	if err != nil {
		s.logger.Warn("Update: validation failed for booking id=%d: %v", id, err)
		return nil, err
	}

	var (
		result       *domain.Booking
		wasCancelled bool
	)

	// 2. Чтение, проверка и запись в сериализуемой секции
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("%w: Update - get booking: %w", ErrInternal, err)
		}
		wasCancelled = current.IsCancelled()

		updated := current.Clone()
		if patch.status != nil {
			if !current.CanTransitionTo(*patch.status) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, *patch.status)
			}
			updated.Status = *patch.status
		}
		if patch.date != nil {
			updated.Date = *patch.date
		}
		if patch.time != nil {
			updated.Time = *patch.time
		}
		if patch.notes != nil {
			updated.Customer.Notes = *patch.notes
		}

		now := s.timeProvider.Now()

		// 2.1. Новый слот не должен быть в прошлом или занят другим активным бронированием
		slotChanged := updated.Date != current.Date || updated.Time != current.Time
		if slotChanged && updated.IsActive() {
			startsAt, err := updated.StartsAt(s.location)
			if err != nil {
				return fmt.Errorf("%w: invalid slot: %w", ErrInvalidInput, err)
			}
			if !startsAt.After(now) {
				return fmt.Errorf("%w: slot is in the past", ErrSlotUnavailable)
			}

			taken, err := s.bookingRepo.HasActiveAt(txCtx, updated.Date, updated.Time, updated.ID)
			if err != nil {
				return fmt.Errorf("%w: Update - check slot: %w", ErrInternal, err)
			}
			if taken {
				return fmt.Errorf("%w: slot already booked", ErrSlotUnavailable)
			}
		}

		updated.UpdatedAt = now

		saved, err := s.bookingRepo.Update(txCtx, updated)
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrSlotNotAvailable):
				return fmt.Errorf("%w: slot already booked", ErrSlotUnavailable)
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				return ErrNotFound
			}
			return fmt.Errorf("%w: Update - save booking: %w", ErrInternal, err)
		}

		result = saved
		return nil
	})
	if err != nil {
		return nil, s.classify("Update", id, err)
	}

	s.logger.Info("Update: updated booking id=%d status=%s date=%s time=%s", id, result.Status, result.Date, result.Time)

	// 3. События после коммита
	s.publish(events.TopicBookingUpdated, result)
	if !wasCancelled && result.IsCancelled() {
		s.publish(events.TopicBookingCancelled, result)
	}

	return models.FromDomainBooking(result), nil
}

// Cancel отменяет бронирование. Повторная отмена возвращает запись без изменений.
func (s *Service) Cancel(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d", id)

	var (
		result    *domain.Booking
		cancelled bool
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("%w: Cancel - get booking: %w", ErrInternal, err)
		}

		if current.IsCancelled() {
			result = current
			return nil
		}

		current.Status = domain.StatusCancelled
		current.UpdatedAt = s.timeProvider.Now()

		saved, err := s.bookingRepo.Update(txCtx, current)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("%w: Cancel - save booking: %w", ErrInternal, err)
		}

		result = saved
		cancelled = true
		return nil
	})
	if err != nil {
		return nil, s.classify("Cancel", id, err)
	}

	if cancelled {
		s.logger.Info("Cancel: cancelled booking id=%d", id)
		s.publish(events.TopicBookingCancelled, result)
	} else {
		s.logger.Info("Cancel: booking id=%d already cancelled", id)
	}

	return models.FromDomainBooking(result), nil
}

// DashboardStats собирает статистику, последние бронирования, разбивку по услугам и число предстоящих
func (s *Service) DashboardStats(ctx context.Context) (*models.DashboardResponse, error) {
	s.logger.Info("DashboardStats: building dashboard")

	today := s.timeProvider.Now().In(s.location).Format(domain.DateFormat)

	var (
		stats    domain.BookingStats
		recent   []*domain.Booking
		perSvc   []domain.ServiceStats
		upcoming int
	)
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		if stats, err = s.bookingRepo.Stats(txCtx); err != nil {
			return err
		}
		if recent, err = s.bookingRepo.Recent(txCtx, domain.RecentBookingsLimit); err != nil {
			return err
		}
		if perSvc, err = s.bookingRepo.ServiceStats(txCtx); err != nil {
			return err
		}
		upcoming, err = s.bookingRepo.CountActiveFrom(txCtx, today)
		return err
	})
	if err != nil {
		s.logger.Error("DashboardStats: repository error: %v", err)
		return nil, fmt.Errorf("%w: DashboardStats - repository error: %w", ErrInternal, err)
	}

	return &models.DashboardResponse{
		Stats:            models.FromDomainStats(stats),
		RecentBookings:   models.FromDomainBookings(recent),
		ServiceBreakdown: models.FromDomainServiceStats(perSvc),
		UpcomingBookings: upcoming,
	}, nil
}

// ListServices возвращает каталог услуг
func (s *Service) ListServices(ctx context.Context) (*models.ServiceListResponse, error) {
	services, err := s.catalog.List(ctx)
	if err != nil {
		s.logger.Error("ListServices: catalog error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - catalog error: %w", ErrInternal, err)
	}

	resp := &models.ServiceListResponse{Services: make([]models.ServiceResponse, 0, len(services))}
	for _, svc := range services {
		resp.Services = append(resp.Services, models.FromDomainService(svc))
	}
	return resp, nil
}

func (s *Service) publish(topic events.Topic, booking *domain.Booking) {
	if err := s.publisher.Publish(events.Event{Topic: topic, Booking: booking, OccurredAt: booking.UpdatedAt}); err != nil {
		s.logger.Warn("Publish: failed to publish %s for booking id=%d: %v", topic, booking.ID, err)
	}
}

// classify логирует ошибку секции и приводит неизвестные ошибки к ErrInternal
func (s *Service) classify(op string, id int64, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		s.logger.Warn("%s: booking id=%d not found", op, id)
		return err
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrSlotUnavailable):
		s.logger.Warn("%s: rejected for booking id=%d: %v", op, id, err)
		return err
	case errors.Is(err, ErrInternal):
		s.logger.Error("%s: failed for booking id=%d: %v", op, id, err)
		return err
	default:
		s.logger.Error("%s: transaction failed for booking id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - transaction failed: %w", ErrInternal, op, err)
	}
}

// updatePatch проверенные поля запроса на обновление
type updatePatch struct {
	status *domain.BookingStatus
	date   *string
	time   *types.TimeString
	notes  *string
}
