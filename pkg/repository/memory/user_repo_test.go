package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/acquisitions/pkg/auth"
)

func TestUserRepository_InsertAndFind(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	u, err := repo.Insert(ctx, auth.NewUser{Name: "Ann", Email: "A@X.com", PasswordHash: "h", Role: auth.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := repo.FindByEmail(ctx, " a@x.COM")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = repo.FindByEmail(ctx, "b@x.com")
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	_, err := repo.Insert(ctx, auth.NewUser{Email: "a@x.com"})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, auth.NewUser{Email: "A@x.com"})
	assert.ErrorIs(t, err, auth.ErrDuplicateEmail)
	assert.Equal(t, 1, repo.Count())
}

func TestUserRepository_ConcurrentInsertSingleWinner(t *testing.T) {
	repo := NewUserRepository()
	const workers = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Insert(context.Background(), auth.NewUser{Email: "race@x.com"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, auth.ErrDuplicateEmail):
				dupes++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, dupes)
	assert.Equal(t, 1, repo.Count())
}

func TestUserRepository_CanceledContext(t *testing.T) {
	repo := NewUserRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Insert(ctx, auth.NewUser{Email: "a@x.com"})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.FindByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, context.Canceled)
}
