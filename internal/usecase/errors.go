package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrConfig                = errors.New("configuration error")
	ErrMalformedPayload      = errors.New("malformed upstream payload")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
