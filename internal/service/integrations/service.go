package integrations

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	"github.com/m04kA/AutoBooker-Service/internal/events"
	"github.com/m04kA/AutoBooker-Service/internal/integrations/assistant"
	"github.com/m04kA/AutoBooker-Service/internal/integrations/calendar"
	"github.com/m04kA/AutoBooker-Service/internal/integrations/mailer"
	"github.com/m04kA/AutoBooker-Service/internal/integrations/payment"
	"github.com/m04kA/AutoBooker-Service/internal/integrations/sms"
)

const defaultSlotDuration = time.Hour

// Service обработчики событий бронирований: письма (с текстом ассистента), SMS, календарь, платеж и брокер.
// Результат каждого канала пишется только во флаги Integrations и никогда не влияет на журнал.
type Service struct {
	repo      OutcomeRepository
	txManager TransactionManager
	clients   Clients
	metrics   Metrics
	logger    Logger
	location  *time.Location
}

func NewService(repo OutcomeRepository, txManager TransactionManager, clients Clients, metrics Metrics, opts Options, logger Logger) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:      repo,
		txManager: txManager,
		clients:   clients,
		metrics:   metrics,
		logger:    logger,
		location:  loc,
	}
}

// Enabled возвращает признак настройки по каждому каналу
func (s *Service) Enabled() map[string]bool {
	return map[string]bool{
		string(domain.ChannelEmail):    s.clients.Mailer != nil,
		string(domain.ChannelSMS):      s.clients.SMS != nil,
		string(domain.ChannelCalendar): s.clients.Calendar != nil,
		string(domain.ChannelPayment):  s.clients.Payment != nil,
		brokerChannel:                  s.clients.Broker != nil,
		assistantChannel:               s.clients.Assistant != nil,
	}
}

// Register подписывает обработчики настроенных каналов
func (s *Service) Register(bus Subscriber) {
	if s.clients.Mailer != nil {
		bus.Subscribe(events.TopicBookingCreated, "email", s.sendEmail)
	}
	if s.clients.SMS != nil {
		bus.Subscribe(events.TopicBookingCreated, "sms", s.sendSMS)
	}
	if s.clients.Calendar != nil {
		bus.Subscribe(events.TopicBookingCreated, "calendar", s.syncCalendar)
		bus.Subscribe(events.TopicBookingUpdated, "calendar", s.syncCalendar)
		bus.Subscribe(events.TopicBookingCancelled, "calendar", s.syncCalendar)
	}
	if s.clients.Payment != nil {
		bus.Subscribe(events.TopicBookingCreated, "payment", s.createPayment)
	}
	if s.clients.Broker != nil {
		for _, topic := range []events.Topic{events.TopicBookingCreated, events.TopicBookingUpdated, events.TopicBookingCancelled} {
			bus.Subscribe(topic, "broker", s.publishToBroker)
		}
	}
}

func (s *Service) sendEmail(ctx context.Context, e events.Event) error {
	b := e.Booking
	err := s.clients.Mailer.SendBookingConfirmation(ctx, mailer.BookingMessage{
		To:               b.Customer.Email,
		FirstName:        b.Customer.FirstName,
		ServiceName:      b.Service.Name,
		ServiceDuration:  b.Service.Duration,
		Date:             b.Date,
		Time:             b.Time.String(),
		ConfirmationCode: b.ConfirmationCode,
		Status:           string(b.Status),
		PersonalMessage:  s.personalMessage(ctx, b),
	})
	return s.record(ctx, b.ID, domain.IntegrationOutcome{Channel: domain.ChannelEmail, Success: err == nil}, err)
}

// personalMessage текст от ассистента для письма. Ошибка генерации письмо не останавливает.
func (s *Service) personalMessage(ctx context.Context, b *domain.Booking) string {
	if s.clients.Assistant == nil {
		return ""
	}

	text, err := s.clients.Assistant.GenerateBookingConfirmation(ctx, assistant.BookingPrompt{
		CustomerName: b.Customer.FullName(),
		ServiceName:  b.Service.Name,
		Date:         b.Date,
		Time:         b.Time.String(),
	})
	s.metrics.IntegrationOutcome(assistantChannel, err == nil)
	if err != nil {
		s.logger.Warn("personalMessage: generation for booking id=%d failed, using fallback: %v", b.ID, err)
		return assistant.FallbackConfirmation
	}
	return text
}

func (s *Service) sendSMS(ctx context.Context, e events.Event) error {
	b := e.Booking
	_, err := s.clients.SMS.SendBookingConfirmation(ctx, sms.BookingMessage{
		To:               b.Customer.Phone,
		CustomerName:     b.Customer.FullName(),
		ServiceName:      b.Service.Name,
		Date:             b.Date,
		Time:             b.Time.String(),
		ConfirmationCode: b.ConfirmationCode,
	})
	return s.record(ctx, b.ID, domain.IntegrationOutcome{Channel: domain.ChannelSMS, Success: err == nil}, err)
}

func (s *Service) syncCalendar(ctx context.Context, e events.Event) error {
	b := e.Booking

	// отмена придет отдельным событием booking.cancelled
	if e.Topic == events.TopicBookingUpdated && b.IsCancelled() {
		return nil
	}

	start, err := b.StartsAt(s.location)
	if err != nil {
		return fmt.Errorf("calendar: booking id=%d has invalid slot: %w", b.ID, err)
	}

	action := calendar.ActionUpsert
	if b.IsCancelled() {
		action = calendar.ActionCancel
	}

	err = s.clients.Calendar.Sync(ctx, calendar.Event{
		Action:           action,
		BookingID:        b.ID,
		ConfirmationCode: b.ConfirmationCode,
		Title:            b.Service.Name,
		Status:           string(b.Status),
		StartTime:        start,
		EndTime:          start.Add(ParseServiceDuration(b.Service.Duration)),
		Attendee: calendar.Attendee{
			Name:  b.Customer.FullName(),
			Email: b.Customer.Email,
			Phone: b.Customer.Phone,
		},
		Notes: b.Customer.Notes,
	})

	// флаг отражает синхронизацию активного бронирования
	if action == calendar.ActionCancel {
		s.metrics.IntegrationOutcome(string(domain.ChannelCalendar), err == nil)
		if err != nil {
			s.logger.Warn("syncCalendar: cancel for booking id=%d failed: %v", b.ID, err)
		}
		return err
	}
	return s.record(ctx, b.ID, domain.IntegrationOutcome{Channel: domain.ChannelCalendar, Success: err == nil}, err)
}

func (s *Service) createPayment(ctx context.Context, e events.Event) error {
	b := e.Booking
	if b.Pricing.FinalPrice <= 0 {
		return nil
	}

	intent, err := s.clients.Payment.CreatePaymentIntent(ctx, payment.PaymentIntentRequest{
		Amount: int64(b.Pricing.FinalPrice) * 100,
		Metadata: map[string]string{
			"booking_id":        strconv.FormatInt(b.ID, 10),
			"customer_name":     b.Customer.FullName(),
			"service":           b.Service.Name,
			"confirmation_code": b.ConfirmationCode,
		},
	})

	outcome := domain.IntegrationOutcome{Channel: domain.ChannelPayment, Success: err == nil}
	if err == nil {
		outcome.Reference = intent.ID
	}
	return s.record(ctx, b.ID, outcome, err)
}

func (s *Service) publishToBroker(ctx context.Context, e events.Event) error {
	msg := newBookingEventMessage(string(e.Topic), e.OccurredAt, e.Booking)

	err := s.clients.Broker.PublishJSON(ctx, string(e.Topic), msg)
	s.metrics.IntegrationOutcome(brokerChannel, err == nil)
	if err != nil {
		s.logger.Warn("publishToBroker: %s for booking id=%d failed: %v", e.Topic, e.Booking.ID, err)
		return err
	}
	return nil
}

// record учитывает метрику и при успехе выставляет флаг бронирования
func (s *Service) record(ctx context.Context, bookingID int64, outcome domain.IntegrationOutcome, callErr error) error {
	s.metrics.IntegrationOutcome(string(outcome.Channel), outcome.Success)

	if callErr != nil {
		s.logger.Warn("%s: booking id=%d failed: %v", outcome.Channel, bookingID, callErr)
		return callErr
	}

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return s.repo.ApplyIntegrationOutcome(txCtx, bookingID, outcome)
	})
	if err != nil {
		s.logger.Error("%s: failed to record outcome for booking id=%d: %v", outcome.Channel, bookingID, err)
		return err
	}

	s.logger.Info("%s: done for booking id=%d", outcome.Channel, bookingID)
	return nil
}

// ParseServiceDuration разбирает длительность услуги вида "90 min" или "2h"
func ParseServiceDuration(raw string) time.Duration {
	v := strings.ToLower(strings.ReplaceAll(raw, " ", ""))
	v = strings.TrimSuffix(v, "in")
	if strings.HasSuffix(v, "h") || strings.HasSuffix(v, "m") {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	// "1h30"
	if d, err := time.ParseDuration(v + "m"); err == nil && d > 0 {
		return d
	}
	return defaultSlotDuration
}
