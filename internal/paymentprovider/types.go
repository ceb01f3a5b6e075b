package paymentprovider

// CheckoutRequest параметры новой checkout-сессии.
type CheckoutRequest struct {
	SuccessURL  string
	CancelURL   string
	AmountMinor int64
	Currency    string
	ProductName string
	Metadata    map[string]string
}

// Session состояние checkout-сессии у провайдера.
type Session struct {
	ID            string
	URL           string
	Status        string
	PaymentStatus string
	AmountTotal   int64
	Currency      string
	Metadata      map[string]string
}

// Типы событий checkout-сессии. Отложенная оплата подтверждается
// событием async_payment_succeeded.
const (
	EventCheckoutCompleted     = "checkout.session.completed"
	EventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"

	checkoutEventPrefix = "checkout.session."
)

// PaymentStatusPaid статус оплаченной сессии.
const PaymentStatusPaid = "paid"

// WebhookEvent проверенное событие webhook. Session заполнена только для событий checkout.
type WebhookEvent struct {
	ID      string
	Type    string
	Session *Session
}
