package create_booking

import "errors"

var (
	// ErrMissingField возвращается, когда обязательное поле не передано или пустое
	ErrMissingField = errors.New("create_booking: missing required field")

	// ErrInvalidInput возвращается при некорректных входных данных (формат даты, время вне сетки слотов)
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrUnknownService возвращается, когда услуги нет в каталоге
	ErrUnknownService = errors.New("create_booking: unknown service")

	// ErrSlotUnavailable возвращается, когда слот в прошлом или уже занят
	ErrSlotUnavailable = errors.New("create_booking: slot is not available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
