package services

import (
	"testing"
	"time"

	"travel-ticketing-platform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (*AuthService, *mockUserRepo) {
	users := newMockUserRepo()
	return NewAuthService(users, "test-secret", time.Hour), users
}

func registerRequest() *models.UserCreateRequest {
	return &models.UserCreateRequest{
		Email:    "traveler@example.com",
		Password: "correct horse battery",
		Name:     "Test Traveler",
		Role:     models.RoleTraveler,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := newAuthFixture()

	user, err := auth.Register(registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "traveler@example.com", user.Email)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash, "password must be hashed")

	token, loggedIn, err := auth.Login("traveler@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	auth, _ := newAuthFixture()

	req := registerRequest()
	req.Email = "Traveler@Example.COM"

	user, err := auth.Register(req)
	require.NoError(t, err)
	assert.Equal(t, "traveler@example.com", user.Email)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	auth, _ := newAuthFixture()

	req := registerRequest()
	req.Role = models.RoleAdmin
	_, err := auth.Register(req)
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "role", validationErr.Field)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	auth, _ := newAuthFixture()

	req := registerRequest()
	req.Password = "short"
	_, err := auth.Register(req)
	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestLoginWrongPassword(t *testing.T) {
	auth, _ := newAuthFixture()
	_, err := auth.Register(registerRequest())
	require.NoError(t, err)

	_, _, err = auth.Login("traveler@example.com", "wrong password")
	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestLoginUnknownEmail(t *testing.T) {
	auth, _ := newAuthFixture()

	_, _, err := auth.Login("nobody@example.com", "whatever123")
	assert.Error(t, err)
}

func TestVerifyTokenRoundTrip(t *testing.T) {
	auth, _ := newAuthFixture()
	user, err := auth.Register(registerRequest())
	require.NoError(t, err)

	token, _, err := auth.Login("traveler@example.com", "correct horse battery")
	require.NoError(t, err)

	verified, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
	assert.Equal(t, models.RoleTraveler, verified.Role)
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	auth, _ := newAuthFixture()
	_, err := auth.Register(registerRequest())
	require.NoError(t, err)

	token, _, err := auth.Login("traveler@example.com", "correct horse battery")
	require.NoError(t, err)

	_, err = auth.VerifyToken(token + "x")
	assert.Error(t, err)

	_, err = auth.VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	auth, users := newAuthFixture()
	_, err := auth.Register(registerRequest())
	require.NoError(t, err)

	token, _, err := auth.Login("traveler@example.com", "correct horse battery")
	require.NoError(t, err)

	other := NewAuthService(users, "different-secret", time.Hour)
	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}
