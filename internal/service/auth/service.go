package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/m04kA/AutoBooker-Service/internal/domain"
	userRepo "github.com/m04kA/AutoBooker-Service/internal/infra/storage/user"
	"github.com/m04kA/AutoBooker-Service/internal/service/auth/models"
)

const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Options параметры сервиса авторизации
type Options struct {
	BcryptCost int
}

// Service регистрация и вход пользователей back office
type Service struct {
	users        UserRepository
	tokens       TokenIssuer
	timeProvider TimeProvider
	logger       Logger
	bcryptCost   int
}

func NewService(users UserRepository, tokens TokenIssuer, opts Options, logger Logger) *Service {
	cost := opts.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &Service{
		users:        users,
		tokens:       tokens,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		bcryptCost:   cost,
	}
}

// Register создает учетную запись и сразу выпускает токен
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	// 1. Валидация
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrMissingField)
	}
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	switch {
	case firstName == "":
		return nil, fmt.Errorf("%w: firstName", ErrMissingField)
	case lastName == "":
		return nil, fmt.Errorf("%w: lastName", ErrMissingField)
	case email == "":
		return nil, fmt.Errorf("%w: email", ErrMissingField)
	case req.Password == "":
		return nil, fmt.Errorf("%w: password", ErrMissingField)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: email format is invalid", ErrInvalidInput)
	}
	if len(req.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}

	s.logger.Info("Register: registering user email=%s", email)

	// 2. Хэширование пароля
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error("Register: failed to hash password: %v", err)
		return nil, fmt.Errorf("%w: Register - hash password: %v", ErrInternal, err)
	}

	// 3. Сохранение
	user, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Company:      strings.TrimSpace(req.Company),
		Role:         domain.RoleUser,
		CreatedAt:    s.timeProvider.Now(),
	})
	if err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			s.logger.Warn("Register: email=%s already registered", email)
			return nil, ErrEmailTaken
		}
		s.logger.Error("Register: repository error: %v", err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Register: created user id=%d", user.ID)

	// 4. Токен
	return s.issue(user)
}

// Login проверяет пароль и выпускает токен
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req == nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password", ErrMissingField)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("Login: unknown email=%s", email)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login: repository error: %v", err)
		return nil, fmt.Errorf("%w: Login - repository error: %v", ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Login: wrong password for user id=%d", user.ID)
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("Login: user id=%d signed in", user.ID)
	return s.issue(user)
}

// SeedDemo создает демо-администратора, если его еще нет
func (s *Service) SeedDemo(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("%w: SeedDemo - hash password: %v", ErrInternal, err)
	}

	_, err = s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Demo",
		LastName:     "Admin",
		Company:      "AutoBooker",
		Role:         domain.RoleAdmin,
		CreatedAt:    s.timeProvider.Now(),
	})
	if err != nil && !errors.Is(err, userRepo.ErrEmailTaken) {
		return fmt.Errorf("%w: SeedDemo - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SeedDemo: demo account email=%s is ready", email)
	return nil
}

func (s *Service) issue(user *domain.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error("issue: failed to sign token for user id=%d: %v", user.ID, err)
		return nil, fmt.Errorf("%w: issue token: %v", ErrInternal, err)
	}

	return &models.AuthResponse{
		User:      models.FromDomainUser(user),
		Token:     token,
		ExpiresAt: s.timeProvider.Now().Add(s.tokens.TTL()),
	}, nil
}
