package payment

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("payment client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе провайдера
	ErrInvalidResponse = errors.New("payment client: invalid response")

	// ErrInvalidAmount возвращается при неположительной сумме
	ErrInvalidAmount = errors.New("payment client: amount must be positive")
)
