// Package apperr содержит доменные ошибки сервиса.
//
// Сервисы оборачивают их через fmt.Errorf("%s: %w", op, err),
// транспорт сравнивает через errors.Is и выбирает HTTP-статус.
package apperr

import "errors"

// Ошибки аутентификации. Подвиды оборачивают ErrUnauthenticated.
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrTokenMissing    = unauthenticated("token missing")
	ErrTokenExpired    = unauthenticated("token expired")
	ErrTokenInvalid    = unauthenticated("invalid token")
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrForbidden            = errors.New("forbidden")
	ErrDuplicateIdentity    = errors.New("email already registered")
	ErrNotFound             = errors.New("not found")
	ErrUnparseable          = errors.New("could not parse message")
	ErrUpstreamUnavailable  = errors.New("upstream unavailable")
	ErrUpstreamRejected     = errors.New("upstream rejected request")
	ErrConfigurationMissing = errors.New("not configured")
	ErrInvalidSignature     = errors.New("invalid signature")
)

type kindError struct {
	msg    string
	parent error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.parent }

func unauthenticated(msg string) error {
	return &kindError{msg: msg, parent: ErrUnauthenticated}
}
