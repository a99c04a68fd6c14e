package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultModel = "gpt-3.5-turbo"

	confirmationMaxTokens   = 200
	confirmationTemperature = 0.7

	systemPrompt = "Tu es un assistant IA d'AutoBooker. Génère des messages de confirmation de réservation personnalisés, professionnels et chaleureux en français."
)

// FallbackConfirmation текст, который уходит в письмо, если генерация не удалась
const FallbackConfirmation = "Merci pour votre réservation ! Notre équipe a hâte de vous accueillir."

// Client клиент для chat completions API (OpenAI-совместимый)
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient создает новый экземпляр клиента
func NewClient(cfg Config, timeout time.Duration) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Complete запрашивает ответ модели и возвращает текст первого варианта
func (c *Client) Complete(ctx context.Context, in CompletionRequest) (string, error) {
	if in.Model == "" {
		in.Model = c.cfg.Model
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var apiErr ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return "", fmt.Errorf("%w: status %d %s: %s", ErrRejected, resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
	default:
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	var out CompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// GenerateBookingConfirmation персональный текст подтверждения на французском
func (c *Client) GenerateBookingConfirmation(ctx context.Context, p BookingPrompt) (string, error) {
	return c.Complete(ctx, CompletionRequest{
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(
				"Génère un message de confirmation pour: Client: %s, Service: %s, Date: %s, Heure: %s",
				p.CustomerName, p.ServiceName, p.Date, p.Time,
			)},
		},
		MaxTokens:   confirmationMaxTokens,
		Temperature: confirmationTemperature,
	})
}
