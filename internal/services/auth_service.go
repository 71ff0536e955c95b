package services

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"vetrina/internal/models"
	"vetrina/internal/repositories"
)

// Claims is what the rest of the application knows about a caller.
type Claims struct {
	SessionID string
	UserID    string
	Username  string
	Role      string
}

// IsAdmin reports whether the token was issued to an administrator.
func (c Claims) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// AuthService issues and verifies session tokens. Anonymous visitors get a
// session token with a fresh session id; administrators log in with a
// bcrypt-checked password and get a token carrying the admin role.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration
	validate   *validator.Validate
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenDuration time.Duration) *AuthService {
	if tokenDuration <= 0 {
		tokenDuration = 24 * time.Hour
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenDuration,
		validate:   models.NewValidator(),
	}
}

// RegisterAdmin creates an administrator account with a hashed password.
func (s *AuthService) RegisterAdmin(user *models.User) error {
	if err := s.validate.Struct(user); err != nil {
		return invalid(err)
	}
	if existing, err := s.userRepo.GetByUsername(user.Username); err == nil && existing != nil {
		return errors.Wrapf(ErrConflict, "username '%s' already taken", user.Username)
	}
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return errors.Wrapf(ErrConflict, "email '%s' already registered", user.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}
	user.Password = string(hashedPassword)
	user.Role = models.RoleAdmin

	if err := s.userRepo.Create(user); err != nil {
		return errors.Wrap(ErrWriteFailed, err.Error())
	}
	return nil
}

// EnsureAdmin creates the bootstrap administrator unless it already exists.
// Empty credentials are skipped so no default password is ever installed.
func (s *AuthService) EnsureAdmin(username, email, password string) error {
	if username == "" || password == "" {
		log.Warn("No bootstrap admin configured; set ADMIN_USERNAME and ADMIN_PASSWORD to enable the admin panel")
		return nil
	}
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil
	}
	if email == "" {
		email = username + "@localhost.localdomain"
	}
	if err := s.RegisterAdmin(&models.User{Username: username, Email: email, Password: password}); err != nil {
		return errors.Wrap(err, "bootstrap admin")
	}
	log.WithField("username", username).Info("Bootstrap admin created")
	return nil
}

// StartSession issues a token for an anonymous visitor.
func (s *AuthService) StartSession() (string, Claims, error) {
	claims := Claims{SessionID: uuid.New().String(), Role: models.RoleAnonymous}
	token, err := s.sign(claims)
	return token, claims, err
}

// LoginAdmin authenticates an administrator and returns a JWT token if successful.
func (s *AuthService) LoginAdmin(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", errors.Wrap(ErrUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.Wrap(ErrUnauthorized, "invalid credentials")
	}

	return s.sign(Claims{
		SessionID: uuid.New().String(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
	})
}

func (s *AuthService) sign(c Claims) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"session_id": c.SessionID,
		"user_id":    c.UserID,
		"username":   c.Username,
		"role":       c.Role,
		"exp":        now.Add(s.tokenDurat).Unix(),
		"iat":        now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate token")
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning its claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.WithError(err).Debug("Token validation error")
		return Claims{}, errors.Wrapf(ErrUnauthorized, "invalid token: %v", err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, errors.Wrap(ErrUnauthorized, "invalid token")
	}
	claims := Claims{
		SessionID: stringClaim(mc, "session_id"),
		UserID:    stringClaim(mc, "user_id"),
		Username:  stringClaim(mc, "username"),
		Role:      stringClaim(mc, "role"),
	}
	if claims.SessionID == "" {
		return Claims{}, errors.Wrap(ErrUnauthorized, "token carries no session")
	}
	return claims, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	v, _ := mc[key].(string)
	return v
}
