package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmailOrName(ctx context.Context, email, name string) (bool, error)
	Add(ctx context.Context, user *models.User) error
}

// AuthResult is returned by both Register and Login.
type AuthResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type tokenClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users      UserStore
	secret     string
	expiry     time.Duration
	bcryptCost int
	now        func() time.Time
	logger     zerolog.Logger
}

func NewAuthService(users UserStore, cfg *config.Config) *AuthService {
	return &AuthService{
		users:      users,
		secret:     cfg.JWTSecret,
		expiry:     cfg.TokenExpiry,
		bcryptCost: cfg.BcryptCost,
		now:        time.Now,
		logger:     log.With().Str("service", "auth").Logger(),
	}
}

// Register validates the input, stores a new user with a bcrypt hash and signs a token for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return nil, errs.NewMissingFieldsError("Name, email, and password are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, errs.NewInvalidFieldError("email", "Please provide a valid email")
	}

	exists, err := s.users.ExistsByEmailOrName(ctx, email, name)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if exists {
		return nil, errs.NewUserExistsError()
	}

	if len(password) < minPasswordLength {
		return nil, errs.NewInvalidFieldError("password", "Password must be at least 6 characters")
	}
	if s.secret == "" {
		return nil, errs.NewConfigError("JWT secret missing", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("Registration failed", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Add(ctx, user); err != nil {
		wrapped := errs.NewDatabaseError("create", "user", err)
		if errs.IsConflict(wrapped) {
			return nil, errs.NewUserExistsError()
		}
		return nil, wrapped
	}

	s.logger.Info().Str("userID", user.ID.String()).Msg("user registered")
	return s.result(user)
}

// Login rejects an unknown email and a wrong password with the same error class and field.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, errs.NewMissingFieldsError("Please provide your email and your password to continue.")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.NewInvalidCredentialsError("Invalid email. Please check your credentials and try again.")
		}
		return nil, errs.NewDatabaseError("find", "user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errs.NewInvalidCredentialsError("Incorrect password. Please try again.")
	}

	return s.result(user)
}

func (s *AuthService) result(user *models.User) (*AuthResult, error) {
	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}

// IssueToken signs an HS256 token whose id claim is userID.
func (s *AuthService) IssueToken(userID uuid.UUID) (string, error) {
	if s.secret == "" {
		return "", errs.NewConfigError("JWT secret missing", nil)
	}

	now := s.now()
	claims := tokenClaims{
		UserID:           userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return "", errs.NewInternalErrorWithCause("Failed to sign token", err)
	}
	return token, nil
}

// VerifyToken checks signature and expiry and returns the id claim.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	if s.secret == "" {
		return "", errs.NewConfigError("JWT secret missing", nil)
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errs.NewExpiredTokenError()
		}
		return "", errs.NewInvalidTokenError()
	}
	if claims.UserID == "" {
		return "", errs.NewInvalidTokenError()
	}
	return claims.UserID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
