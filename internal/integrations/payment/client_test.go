package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreatePaymentIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "12800", r.PostForm.Get("amount"))
		assert.Equal(t, "eur", r.PostForm.Get("currency"))
		assert.Equal(t, "1", r.PostForm.Get("metadata[booking_id]"))
		assert.Equal(t, "AB-001-2030-3", r.PostForm.Get("metadata[confirmation_code]"))

		_, _ = w.Write([]byte(`{"id":"pi_123","amount":12800,"currency":"eur","status":"requires_payment_method"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "sk_test", "EUR", time.Second)
	intent, err := c.CreatePaymentIntent(context.Background(), PaymentIntentRequest{
		Amount: 12800,
		Metadata: map[string]string{
			"booking_id":        "1",
			"confirmation_code": "AB-001-2030-3",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, int64(12800), intent.Amount)
}

func TestClient_CreatePaymentIntent_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","message":"declined"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "sk_test", "", time.Second)
	assert.Equal(t, DefaultCurrency, c.Currency())

	_, err := c.CreatePaymentIntent(context.Background(), PaymentIntentRequest{Amount: 100})
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.Contains(t, err.Error(), "declined")

	_, err = c.CreatePaymentIntent(context.Background(), PaymentIntentRequest{Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
