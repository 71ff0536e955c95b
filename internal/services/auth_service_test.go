package services_test

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vetrina/internal/models"
	"vetrina/internal/repositories"
	"vetrina/internal/services"
)

const testJWTSecret = "test_jwt_secret"

func TestAuthService_RegisterAdmin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	user := &models.User{
		Username: "moderator",
		Email:    "mod@example.com",
		Password: "password123",
	}
	mockRepo.On("GetByUsername", user.Username).Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("GetByEmail", user.Email).Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterAdmin(user)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("GetByUsername", "moderator").Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterAdmin(&models.User{Username: "moderator", Email: "other@example.com", Password: "password123"})
	assert.True(t, errors.Is(err, services.ErrConflict))
	assert.Contains(t, err.Error(), "username 'moderator' already taken")

	// Short password
	err = authService.RegisterAdmin(&models.User{Username: "someone", Email: "x@example.com", Password: "short"})
	assert.True(t, errors.Is(err, services.ErrValidation))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	repo := repositories.NewInMemoryUserRepository()
	authService := services.NewAuthService(repo, testJWTSecret, time.Hour)

	// Without credentials nothing is seeded
	require.NoError(t, authService.EnsureAdmin("", "", ""))
	_, err := repo.GetByUsername("admin")
	assert.Error(t, err)

	require.NoError(t, authService.EnsureAdmin("admin", "", "s3cret-pass"))
	admin, err := repo.GetByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	// Running it again is a no-op
	require.NoError(t, authService.EnsureAdmin("admin", "", "s3cret-pass"))

	token, err := authService.LoginAdmin("admin", "s3cret-pass")
	require.NoError(t, err)
	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
	assert.Equal(t, "admin", claims.Username)
	assert.NotEmpty(t, claims.SessionID)

	_, err = authService.LoginAdmin("admin", "wrong-pass")
	assert.True(t, errors.Is(err, services.ErrUnauthorized))
	_, err = authService.LoginAdmin("nobody", "s3cret-pass")
	assert.True(t, errors.Is(err, services.ErrUnauthorized))
}

func TestAuthService_StartSession(t *testing.T) {
	authService := services.NewAuthService(repositories.NewInMemoryUserRepository(), testJWTSecret, time.Hour)

	token, claims, err := authService.StartSession()
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin())
	assert.NotEmpty(t, claims.SessionID)

	validated, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, claims, validated)

	_, other, err := authService.StartSession()
	require.NoError(t, err)
	assert.NotEqual(t, claims.SessionID, other.SessionID)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(repositories.NewInMemoryUserRepository(), testJWTSecret, time.Hour)

	sign := func(secret string, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	// Expired token
	expired := sign(testJWTSecret, jwt.MapClaims{"session_id": "s", "exp": time.Now().Add(-time.Minute).Unix()})
	_, err := authService.ValidateToken(expired)
	assert.True(t, errors.Is(err, services.ErrUnauthorized))

	// Wrong secret
	forged := sign("another_secret", jwt.MapClaims{"session_id": "s", "role": models.RoleAdmin, "exp": time.Now().Add(time.Hour).Unix()})
	_, err = authService.ValidateToken(forged)
	assert.True(t, errors.Is(err, services.ErrUnauthorized))

	// Token without a session
	noSession := sign(testJWTSecret, jwt.MapClaims{"role": models.RoleAdmin, "exp": time.Now().Add(time.Hour).Unix()})
	_, err = authService.ValidateToken(noSession)
	assert.True(t, errors.Is(err, services.ErrUnauthorized))

	_, err = authService.ValidateToken("not-a-token")
	assert.True(t, errors.Is(err, services.ErrUnauthorized))
}
