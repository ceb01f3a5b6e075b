// Package models содержит доменные структуры сервиса: пользователя, пик,
// платёжную транзакцию и уведомления, а также DTO входящих запросов.
package models

import "time"

// SubscriptionStatus состояние подписки пользователя.
type SubscriptionStatus string

const (
	SubscriptionNone   SubscriptionStatus = "none"
	SubscriptionActive SubscriptionStatus = "active"
)

// User представляет зарегистрированного пользователя.
type User struct {
	ID                 string             `json:"id"`
	Email              string             `json:"email"`
	Name               string             `json:"name"`
	PasswordHash       string             `json:"-"`
	IsVip              bool               `json:"is_vip"`
	IsAdmin            bool               `json:"is_admin"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	SubscriptionID     *string            `json:"-"`
	CreatedAt          time.Time          `json:"created_at"`
}

// DummyUser тело запроса регистрации.
type DummyUser struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"required"`
}

// DummyLogin тело запроса входа.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse ответ регистрации и входа.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
