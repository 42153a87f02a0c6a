package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/richxcame/finsight/pkg/common"
	"github.com/richxcame/finsight/pkg/database"
	"github.com/richxcame/finsight/pkg/logger"
	"github.com/richxcame/finsight/pkg/middleware"
	"github.com/richxcame/finsight/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DemoSeeder fills a fresh account with sample history
type DemoSeeder interface {
	SeedIfEmpty(ctx context.Context, userID uuid.UUID) (int, error)
}

// Service handles signup, login and profile lookups
type Service struct {
	repo       RepositoryInterface
	jwtSecret  string
	expiration time.Duration
	seeder     DemoSeeder
	now        func() time.Time
}

// NewService creates an auth service. seeder may be nil to disable demo data on signup.
func NewService(repo RepositoryInterface, jwtSecret string, expirationHours int, seeder DemoSeeder) *Service {
	return &Service{
		repo:       repo,
		jwtSecret:  jwtSecret,
		expiration: time.Duration(expirationHours) * time.Hour,
		seeder:     seeder,
		now:        time.Now,
	}
}

// Signup registers a new account
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewInternalError("failed to hash password", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, common.NewConflictError("email already registered")
		}
		return nil, common.NewInternalError("failed to create user", err)
	}

	logger.WithContext(ctx).Info("User registered", zap.String("user_id", user.ID.String()))

	if s.seeder != nil {
		if _, err := s.seeder.SeedIfEmpty(ctx, user.ID); err != nil {
			logger.WithContext(ctx).Warn("failed to seed demo data",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
		}
	}

	return user, nil
}

// Login verifies credentials and issues a signed token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, common.NewUnauthorizedError("invalid email or password")
		}
		return nil, common.NewInternalError("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, common.NewUnauthorizedError("invalid email or password")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, common.NewInternalError("failed to sign token", err)
	}

	return &LoginResponse{
		User:      user,
		Token:     token,
		ExpiresIn: int64(s.expiration.Seconds()),
	}, nil
}

// GetProfile returns the authenticated user's account
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, common.NewNotFoundError("user not found", err)
		}
		return nil, common.NewInternalError("failed to look up user", err)
	}
	return user, nil
}

// UserExists satisfies the user checks of the domain services
func (s *Service) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.repo.UserExists(ctx, userID)
}

func (s *Service) issueToken(user *models.User) (string, error) {
	now := s.now()
	claims := &middleware.Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}
