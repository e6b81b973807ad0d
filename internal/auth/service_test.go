package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esculape1/bizbook/internal/shared"
)

type mockRepo struct {
	users    map[string]*User
	sessions map[string]int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[string]*User), sessions: make(map[string]int64)}
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	m.sessions[id] = userID
	return nil
}

func (m *mockRepo) DeleteSession(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func seedUser(t *testing.T, repo *mockRepo, email, password string, active bool) *User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	user := &User{ID: int64(len(repo.users) + 1), Email: email, Name: "Test User", PasswordHash: hash, IsActive: active}
	repo.users[email] = user
	return user
}

func TestAuthenticate(t *testing.T) {
	repo := newMockRepo()
	seedUser(t, repo, "admin@bizbook.bf", "s3cret-passphrase", true)
	svc := NewService(repo)

	user, err := svc.Authenticate(context.Background(), "admin@bizbook.bf", "s3cret-passphrase")
	require.NoError(t, err)
	assert.Equal(t, "admin@bizbook.bf", user.Email)
}

func TestAuthenticateRejectsBadPassword(t *testing.T) {
	repo := newMockRepo()
	seedUser(t, repo, "admin@bizbook.bf", "s3cret-passphrase", true)
	svc := NewService(repo)

	_, err := svc.Authenticate(context.Background(), "admin@bizbook.bf", "wrong-password")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateRejectsUnknownUser(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Authenticate(context.Background(), "nobody@bizbook.bf", "whatever-pass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateRejectsInactiveUser(t *testing.T) {
	repo := newMockRepo()
	seedUser(t, repo, "gone@bizbook.bf", "s3cret-passphrase", false)
	svc := NewService(repo)

	_, err := svc.Authenticate(context.Background(), "gone@bizbook.bf", "s3cret-passphrase")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestSessionRegistration(t *testing.T) {
	repo := newMockRepo()
	user := seedUser(t, repo, "admin@bizbook.bf", "s3cret-passphrase", true)
	svc := NewService(repo)

	require.NoError(t, svc.RegisterSession(context.Background(), "sess-1", user.ID, time.Now().Add(time.Hour), "127.0.0.1", "go-test"))
	assert.Equal(t, user.ID, repo.sessions["sess-1"])

	require.NoError(t, svc.RemoveSession(context.Background(), "sess-1"))
	assert.Empty(t, repo.sessions)
}
