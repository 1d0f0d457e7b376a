package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"blogcms-backend/internal/domains/user/model"
	"blogcms-backend/pkg/jwt"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, model.ErrUserNotFound
}

func newAuthFixture(t *testing.T) (*AuthService, *jwt.Manager) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[string]*model.User{
		"admin@example.com": {
			ID:           uuid.New(),
			Email:        "admin@example.com",
			PasswordHash: string(hash),
			Role:         "admin",
		},
	}}

	manager := jwt.NewManager("test-secret", time.Hour)
	return NewAuthService(repo, manager, time.Hour), manager
}

func TestLogin_Success(t *testing.T) {
	svc, manager := newAuthFixture(t)

	result, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "admin@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)
	assert.Equal(t, 3600, result.ExpiresIn)

	claims, err := manager.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestLogin_WrongPasswordAndUnknownEmailAnswerIdentically(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, errWrongPass := svc.Login(ctx, model.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})
	_, errUnknown := svc.Login(ctx, model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	assert.ErrorIs(t, errWrongPass, model.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, model.ErrInvalidCredentials)
}

func TestLogin_RejectsMalformedRequest(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), model.LoginRequest{Email: "not-an-email", Password: "x"})
	assert.Error(t, err)
}
