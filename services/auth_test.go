package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

type memoryUsers struct {
	users []*models.User
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, errs.NewNotFound("user")
}

func (m *memoryUsers) ExistsByEmailOrName(_ context.Context, email, name string) (bool, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) || u.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUsers) Add(_ context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users = append(m.users, user)
	return nil
}

func newTestAuth(users UserStore) *AuthService {
	return NewAuthService(users, &config.Config{
		JWTSecret:   "test-secret",
		TokenExpiry: time.Hour,
		BcryptCost:  bcrypt.MinCost,
	})
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	users := &memoryUsers{}
	svc := newTestAuth(users)

	res, err := svc.Register(context.Background(), "Ada", " Ada@Example.com ", "secret1")
	require.NoError(t, err)

	require.Len(t, users.users, 1)
	assert.Equal(t, "ada@example.com", users.users[0].Email)
	assert.NotEqual(t, "secret1", users.users[0].PasswordHash)
	assert.Equal(t, users.users[0].Public(), res.User)

	id, err := svc.VerifyToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, users.users[0].ID.String(), id)
}

func TestRegisterValidationOrder(t *testing.T) {
	users := &memoryUsers{}
	svc := newTestAuth(users)
	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		check    func(error) bool
	}{
		{"missing field", "", "x@example.com", "secret1", errs.IsMissingRequiredFieldError},
		{"bad email", "Bob", "not-an-email", "secret1", errs.IsInvalidFieldError},
		{"duplicate email beats short password", "Bob", "ADA@example.com", "123", errs.IsUserExistsError},
		{"short password", "Bob", "bob@example.com", "123", errs.IsInvalidFieldError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.userName, tt.email, tt.password)
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
			assert.Equal(t, 400, errs.StatusCode(err))
		})
	}
	assert.Len(t, users.users, 1)
}

func TestLoginDoesNotRevealWhichCheckFailed(t *testing.T) {
	users := &memoryUsers{}
	svc := newTestAuth(users)
	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)

	_, unknownEmail := svc.Login(context.Background(), "nobody@example.com", "secret1")
	_, wrongPassword := svc.Login(context.Background(), "ada@example.com", "wrong-password")

	var a, b *errs.ApiErr
	require.ErrorAs(t, unknownEmail, &a)
	require.ErrorAs(t, wrongPassword, &b)
	assert.Equal(t, a.StatusCode, b.StatusCode)
	assert.Equal(t, a.Class(), b.Class())
	assert.Equal(t, a.Field, b.Field)

	res, err := svc.Login(context.Background(), "ADA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", res.User.Name)
}

func TestLoginMissingFields(t *testing.T) {
	_, err := newTestAuth(&memoryUsers{}).Login(context.Background(), "", "x")
	assert.True(t, errs.IsMissingRequiredFieldError(err))
}

func TestMissingSecretIsConfigurationError(t *testing.T) {
	svc := NewAuthService(&memoryUsers{}, &config.Config{BcryptCost: bcrypt.MinCost})

	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1")
	assert.True(t, errs.IsConfigError(err))
	assert.Equal(t, 500, errs.StatusCode(err))

	_, err = svc.VerifyToken("anything")
	assert.True(t, errs.IsConfigError(err))
}

func TestVerifyTokenDistinguishesExpiry(t *testing.T) {
	svc := newTestAuth(&memoryUsers{})
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := svc.IssueToken(uuid.New())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.VerifyToken(token)
	assert.True(t, errs.IsExpiredTokenError(err))

	_, err = svc.VerifyToken("not.a.token")
	assert.True(t, errs.IsInvalidTokenError(err))

	other := newTestAuth(&memoryUsers{})
	other.secret = "another-secret"
	foreign, err := other.IssueToken(uuid.New())
	require.NoError(t, err)
	_, err = svc.VerifyToken(foreign)
	assert.True(t, errs.IsInvalidTokenError(err))
}

func TestVerifyTokenRejectsOtherAlgorithms(t *testing.T) {
	svc := newTestAuth(&memoryUsers{})
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, tokenClaims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.True(t, errs.IsInvalidTokenError(err))
}
