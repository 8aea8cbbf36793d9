package auth

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "bookreview-server"
	tokenAudience = "bookreview-client"

	// PASETO v4 symmetric key requirements.
	keyBytesSize = 32
	keyHexSize   = 64
)

// ErrTokenInvalid covers every reason a token is rejected: bad signature,
// malformed structure, wrong issuer or audience, or expiry in the past.
var ErrTokenInvalid = errors.New("token invalid or expired")

// Claims is the identity carried inside an access token.
type Claims struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Issuer    string    `json:"iss"`
	Subject   string    `json:"sub"`
	Audience  string    `json:"aud"`
	ExpiresAt time.Time `json:"exp"`
	NotBefore time.Time `json:"nbf"`
	IssuedAt  time.Time `json:"iat"`
	TokenID   string    `json:"jti"`
}

// TokenService issues and verifies PASETO v4.local access tokens.
type TokenService struct {
	symmetricKey paseto.V4SymmetricKey
	duration     time.Duration
	now          func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a token service from a 64 character hex key.
func NewTokenService(keyHex string, duration time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d hex characters (%d bytes), got %d", keyHexSize, keyBytesSize, len(keyHex))
	}
	if duration <= 0 {
		return nil, fmt.Errorf("token duration must be positive, got %s", duration)
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string for PASETO key: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	s := &TokenService{
		symmetricKey: key,
		duration:     duration,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue creates an encrypted token for the user that expires after the
// configured duration. It returns the token and its expiry.
func (s *TokenService) Issue(userID, username string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.duration)

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(userID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expiresAt)
	token.SetJti(uuid.NewString())

	if err := token.Set("user_id", userID); err != nil {
		return "", time.Time{}, fmt.Errorf("set user_id claim: %w", err)
	}
	if err := token.Set("username", username); err != nil {
		return "", time.Time{}, fmt.Errorf("set username claim: %w", err)
	}

	return token.V4Encrypt(s.symmetricKey, nil), expiresAt, nil
}

// Verify decrypts and validates a token. Any failure is reported as ErrTokenInvalid.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenInvalid
	}

	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(s.now()))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	var claims Claims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, ErrTokenInvalid
	}
	if claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	return &claims, nil
}

// Duration returns the configured token lifetime.
func (s *TokenService) Duration() time.Duration {
	return s.duration
}
