// Package memory holds process-local repository implementations used for
// local runs (STORAGE_DRIVER=memory) and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/artem13815/acquisitions/pkg/auth"
)

// UserRepository implements auth.UserRepository in memory. Check-and-insert
// happens under one lock, so concurrent inserts of an email yield one winner.
type UserRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byEmail map[string]auth.User
	now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byEmail: make(map[string]auth.User), now: time.Now}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (auth.User, error) {
	if err := ctx.Err(); err != nil {
		return auth.User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[auth.NormalizeEmail(email)]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) Insert(ctx context.Context, user auth.NewUser) (auth.User, error) {
	if err := ctx.Err(); err != nil {
		return auth.User{}, err
	}
	email := auth.NormalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[email]; exists {
		return auth.User{}, auth.ErrDuplicateEmail
	}
	r.nextID++
	now := r.now().UTC()
	u := auth.User{
		ID:           r.nextID,
		Name:         user.Name,
		Email:        email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byEmail[email] = u
	return u, nil
}

// Count returns the number of stored users.
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail)
}
