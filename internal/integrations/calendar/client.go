package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client отправляет события бронирований во внешний календарь через вебхук
type Client struct {
	webhookURL string
	token      string
	httpClient *http.Client
}

// NewClient создает новый экземпляр клиента календаря
func NewClient(webhookURL, token string, timeout time.Duration) *Client {
	return &Client{
		webhookURL: webhookURL,
		token:      token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Sync отправляет событие. Любой 2xx ответ считается успехом.
func (c *Client) Sync(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to encode event: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}
	return nil
}
