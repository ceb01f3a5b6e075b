// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status статус запроса ("OK" или "Error").
// Поле Error текст ошибки (опционально, при неуспехе).
// Поле Data данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// Success тело ответов вида {"success": true, "message": "..."}.
type Success struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

const (
	// StatusOK значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// StatusFor выбирает HTTP-статус по доменной ошибке.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated), errors.Is(err, apperr.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrDuplicateIdentity):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrUnparseable), errors.Is(err, apperr.ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUpstreamUnavailable), errors.Is(err, apperr.ErrUpstreamRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicErrors порядок важен: подвиды проверяются раньше общей ошибки.
var publicErrors = []error{
	apperr.ErrTokenMissing,
	apperr.ErrTokenExpired,
	apperr.ErrTokenInvalid,
	apperr.ErrUnauthenticated,
	apperr.ErrInvalidCredentials,
	apperr.ErrForbidden,
	apperr.ErrNotFound,
	apperr.ErrDuplicateIdentity,
	apperr.ErrUnparseable,
	apperr.ErrInvalidSignature,
	apperr.ErrUpstreamUnavailable,
	apperr.ErrUpstreamRejected,
	apperr.ErrConfigurationMissing,
}

// Message возвращает текст ошибки, который можно показать клиенту.
// Детали внутренних ошибок наружу не попадают.
func Message(err error) string {
	for _, target := range publicErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "internal error"
}

// RenderError пишет ошибку с подобранным статусом.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, StatusFor(err))
	render.JSON(w, r, Error(Message(err)))
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человекочитаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "url":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid url", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		case "min", "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "max", "lte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// RenderValidation пишет 422 с описанием ошибок валидации.
func RenderValidation(w http.ResponseWriter, r *http.Request, errs validator.ValidationErrors) {
	render.Status(r, http.StatusUnprocessableEntity)
	render.JSON(w, r, ValidationError(errs))
}
