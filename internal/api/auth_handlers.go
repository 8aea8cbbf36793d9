package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookreview/bookreview-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "signup",
		Method:        http.MethodPost,
		Path:          "/api/auth/signup",
		Summary:       "Register a new user",
		Description:   "Creates an account. Usernames are unique and case-sensitive.",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   huma.Middlewares{s.rateLimitAuth},
	}, s.handleSignup)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "User login",
		Description: "Exchanges a username and password for a bearer token",
		Tags:        []string{"Authentication"},
		Middlewares: huma.Middlewares{s.rateLimitAuth},
	}, s.handleLogin)
}

// === DTOs ===

// SignupRequest is the request body for account creation.
type SignupRequest struct {
	Username string `json:"username" minLength:"1" maxLength:"64" doc:"Unique username"`
	Password string `json:"password" minLength:"6" maxLength:"1024" doc:"Password, at least 6 characters"`
}

// SignupInput wraps the signup request for Huma.
type SignupInput struct {
	Body SignupRequest
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       string `json:"id" doc:"User ID"`
	Username string `json:"username" doc:"Username"`
}

// SignupResponse contains the created account.
type SignupResponse struct {
	Message string       `json:"message" doc:"Status message"`
	User    UserResponse `json:"user" doc:"Created user"`
}

// SignupOutput wraps the signup response for Huma.
type SignupOutput struct {
	Body SignupResponse
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Username string `json:"username" minLength:"1" maxLength:"64" doc:"Username"`
	Password string `json:"password" minLength:"1" maxLength:"1024" doc:"Password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// LoginResponse contains the issued access token.
type LoginResponse struct {
	Token     string `json:"token" doc:"PASETO access token"`
	TokenType string `json:"tokenType" doc:"Token type (Bearer)"`
	ExpiresIn int    `json:"expiresIn" doc:"Token expiry in seconds"`
}

// LoginOutput wraps the login response for Huma.
type LoginOutput struct {
	Body LoginResponse
}

// === Handlers ===

func (s *Server) handleSignup(ctx context.Context, input *SignupInput) (*SignupOutput, error) {
	actor, err := s.services.Auth.Signup(ctx, service.SignupRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, s.mapError(ctx, "signup", err)
	}

	return &SignupOutput{
		Body: SignupResponse{
			Message: "User registered successfully",
			User: UserResponse{
				ID:       actor.ID,
				Username: actor.Username,
			},
		},
	}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, s.mapError(ctx, "login", err)
	}

	return &LoginOutput{
		Body: LoginResponse{
			Token:     resp.Token,
			TokenType: "Bearer",
			ExpiresIn: int(resp.ExpiresIn.Seconds()),
		},
	}, nil
}
