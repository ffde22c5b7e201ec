package service

import (
	"context"
	"strings"
	"time"

	"redesocial/internal/models"
	"redesocial/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles account registration, login, and profile reads.
type UserService struct {
	users     *repository.UserRepository
	jwtSecret string
	timeout   time.Duration
}

// NewUserService creates a new UserService.
func NewUserService(users *repository.UserRepository, jwtSecret string, timeout time.Duration) *UserService {
	return &UserService{users: users, jwtSecret: jwtSecret, timeout: timeout}
}

// Register creates an account with a bcrypt-hashed password. Duplicate
// emails surface as Conflict.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" {
		return nil, models.NewValidationError("name and email are required")
	}
	if len(password) < 8 {
		return nil, models.NewValidationError("password must be at least 8 characters")
	}

	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a signed token. A missing account
// and a wrong password produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return "", nil, models.NewDependencyError("user lookup", err)
	}
	if user == nil {
		return "", nil, models.NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, models.NewUnauthorizedError("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(72 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return signed, user, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies the given profile fields to the caller's account.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, bio, pictureURL *string, isPrivate *bool) (*models.User, error) {
	updates := map[string]interface{}{}
	if bio != nil {
		updates["bio"] = *bio
	}
	if pictureURL != nil {
		updates["profile_picture_url"] = *pictureURL
	}
	if isPrivate != nil {
		updates["is_private"] = *isPrivate
	}
	if len(updates) == 0 {
		return nil, models.NewValidationError("no profile fields to update")
	}

	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	if err := s.users.UpdateProfile(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}
