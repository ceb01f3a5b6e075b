package paymentprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/magabrotheeeer/syndicate/internal/lib/apperr"
)

func TestClient_CreateCheckout(t *testing.T) {
	var form map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.example/cs_test_1"}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test_123", "", time.Second, srv.URL)
	s, err := c.CreateCheckout(context.Background(), CheckoutRequest{
		SuccessURL:  "https://app.example/account?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   "https://app.example/vip",
		AmountMinor: 999,
		Currency:    "gbp",
		ProductName: "VIP Monthly",
		Metadata:    map[string]string{"user_id": "u1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", s.ID)
	assert.Equal(t, "https://checkout.example/cs_test_1", s.URL)
	assert.Equal(t, []string{"999"}, form["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, []string{"u1"}, form["metadata[user_id]"])
	assert.Equal(t, []string{"payment"}, form["mode"])
}

func TestClient_GetCheckout_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such checkout.session"}}`))
	}))
	c := NewClient("sk_test_123", "", time.Second, srv.URL)

	_, err := c.GetCheckout(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, apperr.ErrUpstreamRejected)

	srv.Close()
	_, err = c.GetCheckout(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, apperr.ErrUpstreamUnavailable)
}

func TestClient_ParseWebhook(t *testing.T) {
	const secret = "whsec_test"
	c := NewClient("sk_test_123", secret, time.Second, "")

	payload, err := json.Marshal(map[string]any{
		"id":     "evt_1",
		"object": "event",
		"type":   EventCheckoutCompleted,
		"data": map[string]any{
			"object": map[string]any{
				"id":             "cs_test_1",
				"object":         "checkout.session",
				"payment_status": "paid",
				"amount_total":   999,
				"currency":       "gbp",
				"metadata":       map[string]string{"user_id": "u1"},
			},
		},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})

	event, err := c.ParseWebhook(signed.Payload, signed.Header)
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutCompleted, event.Type)
	require.NotNil(t, event.Session)
	assert.Equal(t, "cs_test_1", event.Session.ID)
	assert.Equal(t, PaymentStatusPaid, event.Session.PaymentStatus)
	assert.Equal(t, "u1", event.Session.Metadata["user_id"])

	t.Run("bad signature", func(t *testing.T) {
		_, err := c.ParseWebhook(payload, fmt.Sprintf("t=%d,v1=deadbeef", time.Now().Unix()))
		assert.ErrorIs(t, err, apperr.ErrInvalidSignature)
	})

	t.Run("secret not configured", func(t *testing.T) {
		unconfigured := NewClient("sk_test_123", "", time.Second, "")
		_, err := unconfigured.ParseWebhook(payload, signed.Header)
		assert.ErrorIs(t, err, apperr.ErrConfigurationMissing)
	})
}

func TestClient_ParseWebhook_CheckoutEvents(t *testing.T) {
	const secret = "whsec_test"
	c := NewClient("sk_test_123", secret, time.Second, "")

	tests := []struct {
		name        string
		eventType   string
		wantSession bool
	}{
		{name: "async payment succeeded", eventType: EventAsyncPaymentSucceeded, wantSession: true},
		{name: "session expired", eventType: "checkout.session.expired", wantSession: true},
		{name: "non checkout event", eventType: "invoice.paid", wantSession: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := json.Marshal(map[string]any{
				"id":     "evt_2",
				"object": "event",
				"type":   tt.eventType,
				"data": map[string]any{
					"object": map[string]any{
						"id":             "cs_test_2",
						"object":         "checkout.session",
						"payment_status": "paid",
						"amount_total":   999,
						"currency":       "gbp",
						"metadata":       map[string]string{"user_id": "u2"},
					},
				},
			})
			require.NoError(t, err)
			signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
				Payload:   payload,
				Secret:    secret,
				Timestamp: time.Now(),
			})

			event, err := c.ParseWebhook(signed.Payload, signed.Header)
			require.NoError(t, err)
			assert.Equal(t, tt.eventType, event.Type)
			if !tt.wantSession {
				assert.Nil(t, event.Session)
				return
			}
			require.NotNil(t, event.Session)
			assert.Equal(t, "cs_test_2", event.Session.ID)
			assert.Equal(t, PaymentStatusPaid, event.Session.PaymentStatus)
			assert.Equal(t, "u2", event.Session.Metadata["user_id"])
		})
	}
}
