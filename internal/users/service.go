package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is returned when login email/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidInput is returned for malformed signup/login payloads.
	ErrInvalidInput = errors.New("invalid input")
)

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Service implements account signup and login.
type Service struct {
	Repo     Repo
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{
		Repo:     repo,
		validate: validator.New(),
	}
}

// Signup registers a new account, returning the created user.
func (s *Service) Signup(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := s.validate.Struct(credentials{Email: email, Password: password}); err != nil {
		return User{}, ErrInvalidInput
	}

	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login verifies credentials and returns the matching user.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return User{}, ErrInvalidInput
	}

	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// UpsertFromOAuth persists the identity from an OAuth sign-in, creating the
// account on first login.
func (s *Service) UpsertFromOAuth(ctx context.Context, email, fullName, pictureURL string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return User{}, ErrInvalidInput
	}
	return s.Repo.Upsert(ctx, User{
		ID:         uuid.NewString(),
		Email:      email,
		FullName:   fullName,
		PictureURL: pictureURL,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	})
}

// GetByID fetches an account by id.
func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID)
}
