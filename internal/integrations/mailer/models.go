package mailer

// Config параметры SMTP сервера
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// DashboardURL ссылка на back office в письме
	DashboardURL string
}

// BookingMessage данные для письма-подтверждения
type BookingMessage struct {
	To               string
	FirstName        string
	ServiceName      string
	ServiceDuration  string
	Date             string
	Time             string
	ConfirmationCode string
	Status           string

	// PersonalMessage сгенерированный абзац приветствия, пустой если генерация не настроена
	PersonalMessage string
}
