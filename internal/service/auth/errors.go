package auth

import "errors"

var (
	ErrMissingField       = errors.New("auth: required field is missing")
	ErrInvalidInput       = errors.New("auth: invalid input")
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrInternal           = errors.New("auth: internal error")
)
