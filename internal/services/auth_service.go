package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"modelhub/internal/models"
	"modelhub/internal/repository"
)

// AuthService handles registration, login and bearer-token authentication.
// Tokens are opaque random strings; only their SHA-256 hash is persisted.
// Token issuance is always available, there is no optional capability probe.
type AuthService struct {
	users  *repository.UserRepository
	tokens *repository.TokenRepository
}

// NewAuthService creates a new AuthService with the given repositories.
func NewAuthService(users *repository.UserRepository, tokens *repository.TokenRepository) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new user account and issues its first access token.
func (s *AuthService) Register(name, email, password string) (*models.User, string, error) {
	v := map[string]string{}
	if name == "" {
		v["name"] = "the name field is required"
	} else if len(name) > 255 {
		v["name"] = "the name field must not exceed 255 characters"
	}
	if email == "" {
		v["email"] = "the email field is required"
	} else if _, err := mail.ParseAddress(email); err != nil || len(email) > 255 {
		v["email"] = "the email field must be a valid email address"
	}
	if len(password) < 8 {
		v["password"] = "the password field must be at least 8 characters"
	}
	if _, ok := v["email"]; !ok {
		if _, err := s.users.GetByEmail(email); err == nil {
			v["email"] = "the email has already been taken"
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errors.Wrap(err, "failed to check email uniqueness")
		}
	}
	if len(v) > 0 {
		return nil, "", &ValidationError{Fields: v}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to hash password")
	}
	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(user); err != nil {
		return nil, "", errors.Wrap(err, "failed to save user record")
	}
	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies the credentials and issues a fresh access token.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	v := map[string]string{}
	if email == "" {
		v["email"] = "the email field is required"
	}
	if password == "" {
		v["password"] = "the password field is required"
	}
	if len(v) > 0 {
		return nil, "", &ValidationError{Fields: v}
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", errors.Wrap(err, "failed to look up user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout invalidates the presented access token.
func (s *AuthService) Logout(token string) error {
	return s.tokens.DeleteByHash(hashToken(token))
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(token string) (*models.User, error) {
	record, err := s.tokens.GetByHash(hashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, errors.Wrap(err, "failed to look up token")
	}
	user, err := s.users.GetByID(record.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, errors.Wrap(err, "failed to look up token user")
	}
	_ = s.tokens.TouchLastUsed(record, time.Now())
	return user, nil
}

// CurrentUser retrieves a user by ID.
func (s *AuthService) CurrentUser(id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(id)
}

// ListUsers returns every registered user.
func (s *AuthService) ListUsers() ([]models.User, error) {
	return s.users.List()
}

func (s *AuthService) issueToken(userID uuid.UUID) (string, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Wrap(err, "failed to generate token")
	}
	plaintext := hex.EncodeToString(secret)
	record := &models.AccessToken{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      "auth_token",
		TokenHash: hashToken(plaintext),
	}
	if err := s.tokens.Create(record); err != nil {
		return "", errors.Wrap(err, "failed to save token record")
	}
	return plaintext, nil
}

func hashToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
