package assistant

// Config параметры chat completions API
type Config struct {
	BaseURL string // https://api.openai.com
	APIKey  string
	Model   string // gpt-3.5-turbo
}

// Message сообщение диалога
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest тело запроса /v1/chat/completions
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

// CompletionResponse ответ /v1/chat/completions
type CompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ErrorResponse модель ошибки от провайдера
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// BookingPrompt данные бронирования для персонального текста
type BookingPrompt struct {
	CustomerName string
	ServiceName  string
	Date         string
	Time         string
}
