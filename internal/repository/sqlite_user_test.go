package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredUser(id, email string) *domain.User {
	return &domain.User{
		ID:           id,
		Email:        email,
		Name:         "Grace",
		PasswordHash: "hash",
		CreatedAt:    testutil.FixedNow,
		UpdatedAt:    testutil.FixedNow,
	}
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	u := newStoredUser("u1", "grace@example.com")
	require.NoError(t, repo.Create(ctx, u))

	byID, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", byID.Email)
	assert.Equal(t, "hash", byID.PasswordHash)
	assert.True(t, testutil.FixedNow.Equal(byID.CreatedAt))

	byEmail, err := repo.GetByEmail(ctx, "grace@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newStoredUser("u1", "grace@example.com")))
	err := repo.Create(ctx, newStoredUser("u2", "grace@example.com"))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserRepo_Update(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	u := newStoredUser("u1", "grace@example.com")
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, repo.Create(ctx, newStoredUser("u2", "ada@example.com")))

	u.Name = "Grace H."
	u.UpdatedAt = testutil.FixedNow.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Grace H.", got.Name)
	assert.True(t, u.UpdatedAt.Equal(got.UpdatedAt))

	u.Email = "ada@example.com"
	assert.ErrorIs(t, repo.Update(ctx, u), ErrConflict)

	assert.ErrorIs(t, repo.Update(ctx, newStoredUser("ghost", "ghost@example.com")), ErrNotFound)
}
