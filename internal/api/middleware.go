package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookreview/bookreview-server/internal/domain"
	domainerrors "github.com/bookreview/bookreview-server/internal/errors"
	"github.com/bookreview/bookreview-server/internal/metrics"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// actorKey is the context key for the authenticated actor.
const actorKey ctxKey = "actor"

const msgNotAuthorized = "not authorized"

// GetActor returns the authenticated actor from context.
// Returns a 401 error if the request was not authenticated.
func GetActor(ctx context.Context) (*domain.Actor, error) {
	actor, ok := ctx.Value(actorKey).(*domain.Actor)
	if !ok || actor == nil {
		return nil, huma.Error401Unauthorized(msgNotAuthorized)
	}
	return actor, nil
}

// requireAuth resolves the bearer token to an actor and attaches it to the
// request context. Every failure short-circuits with the same 401 so callers
// learn nothing about why the token was rejected.
func (s *Server) requireAuth(ctx huma.Context, next func(huma.Context)) {
	token, ok := bearerToken(ctx.Header("Authorization"))
	if !ok {
		s.writeErr(ctx, http.StatusUnauthorized, msgNotAuthorized)
		return
	}

	actor, err := s.services.Auth.Authenticate(ctx.Context(), token)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrUnauthorized) {
			s.logger.Error("Failed to resolve token subject", "error", err)
		}
		s.writeErr(ctx, http.StatusUnauthorized, msgNotAuthorized)
		return
	}

	next(huma.WithValue(ctx, actorKey, actor))
}

// rateLimitAuth throttles credential endpoints per client IP.
func (s *Server) rateLimitAuth(ctx huma.Context, next func(huma.Context)) {
	if s.authRateLimiter == nil {
		next(ctx)
		return
	}

	key := clientIP(ctx.RemoteAddr())
	if !s.authRateLimiter.Allow(key) {
		metrics.RecordRateLimited()
		s.logger.Warn("Rate limit exceeded",
			"ip", key,
			"path", ctx.URL().Path,
		)
		s.writeErr(ctx, http.StatusTooManyRequests, domainerrors.ErrRateLimited.Message)
		return
	}

	next(ctx)
}

func (s *Server) writeErr(ctx huma.Context, status int, message string) {
	if err := huma.WriteErr(s.api, ctx, status, message); err != nil {
		s.logger.Error("Failed to write error response", "error", err)
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// clientIP strips the port from a remote address. chi's RealIP middleware
// has already applied X-Forwarded-For and X-Real-IP.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
