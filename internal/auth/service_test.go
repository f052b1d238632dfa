package auth

import (
	"testing"

	"quiz-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users  map[string]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User), nextID: 1}
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	if user, ok := r.users[username]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByDisplayName(displayName string) (*models.User, error) {
	for _, user := range r.users {
		if user.DisplayName == displayName {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewService(repo, "test-secret")

	require.NoError(t, service.Register("alice", "Alice", "s3cret"))

	stored := repo.users["alice"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.Equal(t, 0, stored.TotalScore)

	token, user, err := service.Login("alice", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Alice", user.DisplayName)

	userID, displayName, err := service.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, userID)
	assert.Equal(t, "Alice", displayName)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewService(repo, "test-secret")

	require.NoError(t, service.Register("alice", "Alice", "s3cret"))

	err := service.Register("alice", "Someone Else", "other")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	err = service.Register("bob", "Alice", "other")
	assert.ErrorIs(t, err, ErrDisplayNameTaken)

	// The failed registrations must not have touched storage.
	assert.Len(t, repo.users, 1)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewService(repo, "test-secret")
	require.NoError(t, service.Register("alice", "Alice", "s3cret"))

	_, _, err := service.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = service.Login("nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenRejectsForgedToken(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewService(repo, "test-secret")
	require.NoError(t, service.Register("alice", "Alice", "s3cret"))

	token, _, err := service.Login("alice", "s3cret")
	require.NoError(t, err)

	other := NewService(repo, "different-secret")
	_, _, err = other.ParseToken(token)
	assert.Error(t, err)
}
