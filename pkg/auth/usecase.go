package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/artem13815/acquisitions/pkg/logging"
)

// AuthUseCase describes authentication/registration behavior.
type AuthUseCase interface {
	SignUp(ctx context.Context, in CreateUserInput) (AuthResult, error)
	SignIn(ctx context.Context, email, password string) (AuthResult, error)
}

type AuthResult struct {
	User  User
	Token string
}

// CreateUserInput is the validated signup payload.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

// Service is the default AuthUseCase. It never returns password hashes.
type Service struct {
	repo   UserRepository
	hasher PasswordHasher
	tokens TokenGenerator
	log    logging.Logger
}

// NewAuthService returns default implementation of AuthUseCase.
func NewAuthService(repo UserRepository, hasher PasswordHasher, tokens TokenGenerator, log logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{repo: repo, hasher: hasher, tokens: tokens, log: log}
}

// CreateUser registers a new account. A duplicate email, whether seen by the
// lookup or by the store's own constraint, is reported as ErrDuplicateEmail.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	email := NormalizeEmail(in.Email)
	role := in.Role
	if role == "" {
		role = RoleUser
	}

	// If user exists, fail fast (best-effort check)
	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.log.Warn(ctx, "signup rejected: email taken", "email", email)
		return User{}, ErrDuplicateEmail
	case !errors.Is(err, ErrNotFound):
		return User{}, fmt.Errorf("find user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.log.Error(ctx, "error hashing password", "error", err)
		return User{}, ErrHashingFailed
	}

	user, err := s.repo.Insert(ctx, NewUser{
		Name:         in.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			s.log.Warn(ctx, "signup rejected: email taken concurrently", "email", email)
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	s.log.Info(ctx, "new user created", "user_id", user.ID, "email", user.Email)
	return user.public(), nil
}

// AuthenticateUser checks a password against the stored hash. Failures wrap
// ErrInvalidCredentials; the concrete cause is kept for logs.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (User, error) {
	email = NormalizeEmail(email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Warn(ctx, "authentication failed", "email", email, "reason", "user not found")
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Warn(ctx, "authentication failed", "email", email, "reason", "invalid password")
		return User{}, ErrInvalidPassword
	}

	s.log.Info(ctx, "user authenticated", "user_id", user.ID, "email", user.Email)
	return user.public(), nil
}

func (s *Service) SignUp(ctx context.Context, in CreateUserInput) (AuthResult, error) {
	user, err := s.CreateUser(ctx, in)
	if err != nil {
		return AuthResult{}, err
	}
	return s.issue(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.AuthenticateUser(ctx, email, password)
	if err != nil {
		return AuthResult{}, err
	}
	return s.issue(ctx, user)
}

func (s *Service) issue(ctx context.Context, user User) (AuthResult, error) {
	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		s.log.Error(ctx, "error signing token", "user_id", user.ID, "error", err)
		return AuthResult{}, fmt.Errorf("%w: %v", ErrTokenSignFailed, err)
	}
	return AuthResult{User: user, Token: token}, nil
}
