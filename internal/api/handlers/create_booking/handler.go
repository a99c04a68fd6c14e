package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/AutoBooker-Service/internal/api/handlers"
	"github.com/m04kA/AutoBooker-Service/internal/service/bookings/models"
	createBooking "github.com/m04kA/AutoBooker-Service/internal/usecase/create_booking"
)

const (
	msgCreated            = "бронирование успешно создано"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingField       = "не заполнены обязательные поля"
	msgInvalidInput       = "некорректные данные бронирования"
	msgServiceNotFound    = "услуга недоступна"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq := req.ToUseCaseRequest(r)

	booking, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrMissingField):
			h.logger.Warn("POST /bookings - Missing field: %v", err)
			handlers.RespondBadRequest(w, msgMissingField)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrUnknownService):
			h.logger.Warn("POST /bookings - Service not found: service_id=%d", useCaseReq.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot not available: date=%s, time=%s", useCaseReq.Date, useCaseReq.Time)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: service_id=%d, error=%v", useCaseReq.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, code=%s, status=%s",
		booking.ID, booking.ConfirmationCode, booking.Status)
	handlers.RespondJSON(w, http.StatusCreated, CreateBookingResponse{
		Message: msgCreated,
		Booking: models.FromDomainBooking(booking),
	})
}
