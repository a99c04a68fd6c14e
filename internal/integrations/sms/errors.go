package sms

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("sms client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе провайдера
	ErrInvalidResponse = errors.New("sms client: invalid response")

	// ErrRejected возвращается, когда провайдер отклонил сообщение (4xx)
	ErrRejected = errors.New("sms client: message rejected")
)
