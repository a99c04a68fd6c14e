package mailer

import "errors"

var (
	// ErrInternal возвращается при ошибке сборки письма
	ErrInternal = errors.New("mailer: internal error")

	// ErrSendFailed возвращается, когда SMTP сервер не принял письмо
	ErrSendFailed = errors.New("mailer: send failed")

	// ErrInvalidRecipient возвращается при пустом адресе получателя
	ErrInvalidRecipient = errors.New("mailer: invalid recipient")
)
