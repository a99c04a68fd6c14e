package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const DefaultCurrency = "eur"

// Client клиент Stripe Payment Intents API
type Client struct {
	baseURL    string
	secretKey  string
	currency   string
	httpClient *http.Client
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL, secretKey, currency string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		currency:  strings.ToLower(currency),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Currency валюта по умолчанию
func (c *Client) Currency() string {
	return c.currency
}

// CreatePaymentIntent создает платежное намерение
func (c *Client) CreatePaymentIntent(ctx context.Context, in PaymentIntentRequest) (*PaymentIntent, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	currency := in.Currency
	if currency == "" {
		currency = c.currency
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(in.Amount, 10))
	form.Set("currency", currency)

	keys := make([]string, 0, len(in.Metadata))
	for k := range in.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		form.Set("metadata["+k+"]", in.Metadata[k])
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, apiErr.Error.Message)
	}

	var intent PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if intent.ID == "" {
		return nil, fmt.Errorf("%w: empty payment intent id", ErrInvalidResponse)
	}
	return &intent, nil
}
