package auth

import (
	"context"
	"errors"
	"fmt"
)

// Common errors used by repository/use cases
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrInvalidCredentials groups every sign-in failure; callers outside the
	// service only ever need to match this one.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrInvalidCredentials)
	ErrInvalidPassword    = fmt.Errorf("%w: invalid password", ErrInvalidCredentials)

	ErrHashingFailed         = errors.New("password hashing failed")
	ErrTokenSignFailed       = errors.New("error signing JWT token")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired JWT token")
)

// UserRepository abstracts persistence concerns from the domain layer.
// Insert must report a uniqueness violation on email as ErrDuplicateEmail.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	Insert(ctx context.Context, user NewUser) (User, error)
}
