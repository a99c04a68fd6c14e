package bookings

import "errors"

var (
	// ErrNotFound возвращается, когда бронирование не найдено
	ErrNotFound = errors.New("bookings: booking not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrInvalidTransition возвращается при попытке вернуть отмененное бронирование в активный статус
	ErrInvalidTransition = errors.New("bookings: invalid status transition")

	// ErrSlotUnavailable возвращается, когда новый слот в прошлом или уже занят
	ErrSlotUnavailable = errors.New("bookings: slot is not available")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
