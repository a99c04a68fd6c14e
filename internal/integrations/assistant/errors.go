package assistant

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("assistant client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе провайдера
	ErrInvalidResponse = errors.New("assistant client: invalid response")

	// ErrRejected возвращается, когда провайдер отклонил запрос (4xx)
	ErrRejected = errors.New("assistant client: request rejected")

	// ErrEmptyCompletion возвращается, когда в ответе нет текста
	ErrEmptyCompletion = errors.New("assistant client: empty completion")
)
