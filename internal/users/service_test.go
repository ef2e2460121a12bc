package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	users  map[int64]*User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*User), nextID: 1}
}

func (m *mockUserRepo) Get(ctx context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) List(ctx context.Context, req ListUsersRequest) ([]User, int, error) {
	var out []User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) Create(ctx context.Context, user User) (int64, error) {
	for _, u := range m.users {
		if u.Email == user.Email {
			return 0, ErrAlreadyExists
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = &user
	return user.ID, nil
}

func (m *mockUserRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["is_active"]; ok {
		u.IsActive = v.(bool)
	}
	if v, ok := updates["role"]; ok {
		u.Role = v.(string)
	}
	if v, ok := updates["password_hash"]; ok {
		u.PasswordHash = v.(string)
	}
	return nil
}

func TestCreateHashesPasswordAndNormalizesEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "  Lia@Atrium.Test ",
		Name:     "Lia",
		Role:     "standard",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.Equal(t, "lia@atrium.test", user.Email)
	assert.True(t, user.IsActive, "new accounts start active")
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse")))
}

func TestCreateDuplicateEmailFails(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateUserRequest{Email: "a@atrium.test", Name: "A", Role: "standard", Password: "12345678"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateUserRequest{Email: "a@atrium.test", Name: "B", Role: "standard", Password: "12345678"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUpdateDeactivatesAccount(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	user, err := svc.Create(context.Background(), CreateUserRequest{Email: "a@atrium.test", Name: "A", Role: "standard", Password: "12345678"})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(context.Background(), user.ID, UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestUpdateRehashesPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	user, err := svc.Create(context.Background(), CreateUserRequest{Email: "a@atrium.test", Name: "A", Role: "standard", Password: "old password"})
	require.NoError(t, err)
	oldHash := user.PasswordHash

	newPassword := "new password"
	updated, err := svc.Update(context.Background(), user.ID, UpdateUserRequest{Password: &newPassword})
	require.NoError(t, err)
	assert.NotEqual(t, oldHash, updated.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(newPassword)))
}
