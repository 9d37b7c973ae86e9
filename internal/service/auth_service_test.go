// internal/service/auth_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/Hummingbird-Tech-Studio/ketone/internal/domain"
	"github.com/Hummingbird-Tech-Studio/ketone/internal/repository"
)

const testJWTSecret = "test-secret"

func TestRegister_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, testJWTSecret, time.Hour)
	newID := primitive.NewObjectID()

	userRepo.On("GetByEmail", mock.Anything, "ada@example.com").Return(nil, repository.ErrNotFound)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(newID, nil)

	user, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22")

	require.NoError(t, err)
	assert.Equal(t, newID, user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, testJWTSecret, time.Hour)
	existing := &domain.User{ID: primitive.NewObjectID(), Email: "ada@example.com"}

	userRepo.On("GetByEmail", mock.Anything, "ada@example.com").Return(existing, nil)

	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22")

	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, testJWTSecret, time.Hour)
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: primitive.NewObjectID(), Email: "ada@example.com", PasswordHash: string(hash)}

	userRepo.On("GetByEmail", mock.Anything, "ada@example.com").Return(stored, nil)

	token, user, err := svc.Login(context.Background(), "ada@example.com", "hunter22")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Empty(t, user.PasswordHash)

	// The token must parse with the same secret and carry the user id.
	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, stored.ID.Hex(), claims.UserID)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, testJWTSecret, time.Hour)
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: primitive.NewObjectID(), Email: "ada@example.com", PasswordHash: string(hash)}

	userRepo.On("GetByEmail", mock.Anything, "ada@example.com").Return(stored, nil)

	_, user, err := svc.Login(context.Background(), "ada@example.com", "wrong")

	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Nil(t, user)
}

func TestLogin_UnknownEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, testJWTSecret, time.Hour)

	userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")

	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
