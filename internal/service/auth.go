package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookreview/bookreview-server/internal/auth"
	"github.com/bookreview/bookreview-server/internal/domain"
	domainerrors "github.com/bookreview/bookreview-server/internal/errors"
	"github.com/bookreview/bookreview-server/internal/id"
	"github.com/bookreview/bookreview-server/internal/metrics"
	"github.com/bookreview/bookreview-server/internal/store"
	"github.com/bookreview/bookreview-server/internal/validation"
)

// Shared messages. Login failures never say which half of the pair was wrong.
const (
	msgInvalidCredentials = "invalid username or password"
	msgUsernameTaken      = "username already exists"
	msgNotAuthorized      = "not authorized"
)

// AuthService is the credential store and login flow. It also resolves
// bearer tokens to actors for the identity middleware.
type AuthService struct {
	users     store.UserStore
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users store.UserStore, tokens *auth.TokenService, validator *validation.Validator, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		validator: validator,
		logger:    logger,
	}
}

// SignupRequest contains the credentials for a new account.
type SignupRequest struct {
	Username string `json:"username" validate:"notblank,max=64"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
}

// LoginRequest contains the credentials to exchange for a token.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries an issued access token.
type LoginResponse struct {
	Token     string
	ExpiresAt time.Time
	ExpiresIn time.Duration
	User      *domain.Actor
}

// Signup creates an account. A taken username yields an ALREADY_EXISTS error.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*domain.Actor, error) {
	if err := s.validator.Validate(req); err != nil {
		metrics.RecordAuthAttempt("signup", metrics.OutcomeRejected)
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Record:       domain.Record{ID: userID},
		Username:     req.Username,
		PasswordHash: passwordHash,
	}
	user.InitTimestamps()

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			metrics.RecordAuthAttempt("signup", metrics.OutcomeRejected)
			return nil, domainerrors.AlreadyExists(msgUsernameTaken)
		}
		metrics.RecordAuthAttempt("signup", metrics.OutcomeError)
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.RecordAuthAttempt("signup", metrics.OutcomeSuccess)
	if s.logger != nil {
		s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	}

	return user.Actor(), nil
}

// VerifyCredentials returns the user when password matches. An unknown
// username and a wrong password produce the same INVALID_CREDENTIALS error.
func (s *AuthService) VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			auth.VerifyDummy(password)
			return nil, domainerrors.InvalidCredentials(msgInvalidCredentials)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, domainerrors.InvalidCredentials(msgInvalidCredentials)
	}

	return user, nil
}

// FindUser returns the user with the given ID, or a NOT_FOUND error.
func (s *AuthService) FindUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		metrics.RecordAuthAttempt("login", metrics.OutcomeRejected)
		return nil, err
	}

	user, err := s.VerifyCredentials(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCredentials) {
			metrics.RecordAuthAttempt("login", metrics.OutcomeRejected)
			if s.logger != nil {
				s.logger.Debug("Login rejected")
			}
		} else {
			metrics.RecordAuthAttempt("login", metrics.OutcomeError)
		}
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		metrics.RecordAuthAttempt("login", metrics.OutcomeError)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.RecordAuthAttempt("login", metrics.OutcomeSuccess)
	if s.logger != nil {
		s.logger.Info("User logged in", "user_id", user.ID)
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		ExpiresIn: s.tokens.Duration(),
		User:      user.Actor(),
	}, nil
}

// Authenticate resolves a bearer token to the acting user. Invalid or
// expired tokens and tokens for accounts that no longer exist all yield
// ErrUnauthorized. Storage failures are returned wrapped so the caller can
// log them; callers must still treat them as unauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Actor, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domainerrors.Unauthorized(msgNotAuthorized)
	}

	user, err := s.FindUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized(msgNotAuthorized)
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}

	return user.Actor(), nil
}
