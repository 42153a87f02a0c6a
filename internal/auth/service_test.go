package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/richxcame/finsight/pkg/common"
	"github.com/richxcame/finsight/pkg/middleware"
	"github.com/richxcame/finsight/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func createTestUser(password string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &models.User{
		ID:           uuid.New(),
		Email:        "jane@example.com",
		PasswordHash: string(hash),
		FullName:     "Jane Doe",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func requireAppError(t *testing.T, err error, code int) {
	t.Helper()
	appErr, ok := common.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestSignupHashesPasswordAndSeeds(t *testing.T) {
	repo := new(mockRepository)
	seeder := new(mockSeeder)
	svc := NewService(repo, testSecret, 24, seeder)

	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "jane@example.com" &&
			u.FullName == "Jane Doe" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
	})).Return(nil)
	seeder.On("SeedIfEmpty", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(250, nil)

	user, err := svc.Signup(context.Background(), &SignupRequest{
		Email:    "  Jane@Example.com ",
		Password: "password123",
		FullName: " Jane Doe ",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	repo.AssertExpectations(t)
	seeder.AssertExpectations(t)
}

func TestSignupSeedFailureDoesNotFailSignup(t *testing.T) {
	repo := new(mockRepository)
	seeder := new(mockSeeder)
	svc := NewService(repo, testSecret, 24, seeder)

	repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil)
	seeder.On("SeedIfEmpty", mock.Anything, mock.Anything).Return(0, errors.New("db down"))

	user, err := svc.Signup(context.Background(), &SignupRequest{Email: "a@b.co", Password: "password123", FullName: "A"})

	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestSignupErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"duplicate email", fmt.Errorf("failed to create user: %w", &pgconn.PgError{Code: "23505"}), http.StatusConflict},
		{"store failure", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepository)
			svc := NewService(repo, testSecret, 24, nil)
			repo.On("CreateUser", mock.Anything, mock.Anything).Return(tt.err)

			_, err := svc.Signup(context.Background(), &SignupRequest{Email: "a@b.co", Password: "password123", FullName: "A"})

			requireAppError(t, err, tt.code)
		})
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, testSecret, 2, nil)
	user := createTestUser("password123")

	repo.On("GetUserByEmail", mock.Anything, "jane@example.com").Return(user, nil)

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: "jane@example.com", Password: "password123"})

	require.NoError(t, err)
	assert.Equal(t, int64(7200), resp.ExpiresIn)
	assert.Equal(t, user, resp.User)

	claims, err := middleware.ParseToken(resp.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)

	_, err = middleware.ParseToken(resp.Token, "other-secret")
	assert.Error(t, err)
}

func TestLoginErrors(t *testing.T) {
	user := createTestUser("password123")

	tests := []struct {
		name     string
		password string
		repoUser *models.User
		repoErr  error
		code     int
	}{
		{"wrong password", "nope", user, nil, http.StatusUnauthorized},
		{"unknown email", "password123", nil, ErrUserNotFound, http.StatusUnauthorized},
		{"store failure", "password123", nil, errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepository)
			svc := NewService(repo, testSecret, 24, nil)
			repo.On("GetUserByEmail", mock.Anything, "jane@example.com").Return(tt.repoUser, tt.repoErr)

			_, err := svc.Login(context.Background(), &LoginRequest{Email: "jane@example.com", Password: tt.password})

			requireAppError(t, err, tt.code)
		})
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	svc := NewService(new(mockRepository), testSecret, 1, nil)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.issueToken(createTestUser("password123"))
	require.NoError(t, err)

	_, err = middleware.ParseToken(token, testSecret)
	assert.Error(t, err)
}

func TestGetProfile(t *testing.T) {
	user := createTestUser("password123")

	t.Run("found", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)

		got, err := NewService(repo, testSecret, 24, nil).GetProfile(context.Background(), user.ID)

		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetUserByID", mock.Anything, user.ID).Return(nil, ErrUserNotFound)

		_, err := NewService(repo, testSecret, 24, nil).GetProfile(context.Background(), user.ID)

		requireAppError(t, err, http.StatusNotFound)
	})
}
