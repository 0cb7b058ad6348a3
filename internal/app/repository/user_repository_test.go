package repository

import (
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_Create(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewUserRepository(testDB)

	tests := []struct {
		name    string
		user    *model.User
		wantErr bool
	}{
		{
			name:    "Valid user",
			user:    &model.User{Email: "cook@example.com", Username: "cook", FirstName: "Ivan", LastName: "Petrov", PasswordHash: "hash"},
			wantErr: false,
		},
		{
			name:    "Duplicate email",
			user:    &model.User{Email: "cook@example.com", Username: "other", FirstName: "Ivan", LastName: "Petrov", PasswordHash: "hash"},
			wantErr: true,
		},
		{
			name:    "Duplicate username",
			user:    &model.User{Email: "other@example.com", Username: "cook", FirstName: "Ivan", LastName: "Petrov", PasswordHash: "hash"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.user)
			if tt.wantErr {
				assert.True(t, apperrors.IsUniqueViolation(err))
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, tt.user.ID)
		})
	}
}

func TestUserRepository_Lookups(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewUserRepository(testDB)

	user := createUser(t, testDB, "cook")

	byEmail, err := repo.FindByEmail("cook@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.FindByID(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	exists, err := repo.ExistsByUsername("cook")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_FindAllAndUpdatePassword(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewUserRepository(testDB)

	first := createUser(t, testDB, "first")
	createUser(t, testDB, "second")
	createUser(t, testDB, "third")

	users, total, err := repo.FindAll(2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 2)
	assert.Equal(t, first.ID, users[0].ID)

	require.NoError(t, repo.UpdatePassword(first.ID, "new-hash"))
	updated, err := repo.FindByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", updated.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePassword(999, "x"), gorm.ErrRecordNotFound)
}
