package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"harvesthaven/internal/domain"
	"harvesthaven/internal/pkg/validator"
	"harvesthaven/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ValidationError carries one message per failing request field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "invalid request"
}

// Service contains all business logic for authentication
type Service struct {
	users UserRepository
	jwt   TokenIssuer
	log   *zap.Logger
	cost  int
}

func NewService(users UserRepository, jwt TokenIssuer, log *zap.Logger) *Service {
	return &Service{users: users, jwt: jwt, log: log, cost: bcrypt.DefaultCost}
}

// Register creates a regular user account and signs the caller in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req = req.normalize()
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.validateEmailUnique(ctx, req.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           "user-" + uuid.NewString(),
		Name:         req.FullName(),
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Phone:        req.Phone,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent registration can still win the unique index
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID))
	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *Service) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) issue(user *domain.User) (*AuthResponse, error) {
	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResponse{Token: token, User: toPublic(user)}, nil
}

func (s *Service) validateEmailUnique(ctx context.Context, email string) error {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailAlreadyExists
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validate(v any) error {
	errs := validator.Validate(v)
	if len(errs) == 0 {
		return nil
	}

	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		switch fe.Tag {
		case "required":
			fields[fe.Field] = "This field is required."
		case "email":
			fields[fe.Field] = "Enter a valid email address."
		case "min":
			fields[fe.Field] = fmt.Sprintf("Must be at least %s characters.", fe.Param)
		default:
			fields[fe.Field] = fmt.Sprintf("Failed %s validation.", fe.Tag)
		}
	}
	return &ValidationError{Fields: fields}
}
