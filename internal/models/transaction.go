package models

import "time"

// PaymentStatus статус платёжной транзакции. paid терминален.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Transaction запись о checkout-сессии.
type Transaction struct {
	ID            string        `json:"id"`
	SessionID     string        `json:"session_id"`
	UserID        string        `json:"user_id"`
	UserEmail     string        `json:"user_email"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
}

// PaidCheckout данные подтверждённой оплаты для выдачи VIP.
type PaidCheckout struct {
	SessionID string
	UserID    string
	Email     string
	Amount    float64
	Currency  string
}

// DummyCheckout тело запроса создания checkout-сессии.
type DummyCheckout struct {
	OriginURL string `json:"origin_url" validate:"required,url"`
}

// CheckoutSession ответ провайдера на создание сессии.
type CheckoutSession struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// CheckoutStatus текущее состояние сессии у провайдера.
type CheckoutStatus struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
}
