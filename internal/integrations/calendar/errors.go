package calendar

import "errors"

var (
	ErrInternal        = errors.New("calendar client: internal error")
	ErrInvalidResponse = errors.New("calendar client: invalid response")
)
