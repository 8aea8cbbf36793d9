package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bookreview/bookreview-server/internal/auth"
	"github.com/bookreview/bookreview-server/internal/store/sqlite"
	"github.com/bookreview/bookreview-server/internal/validation"
)

const testKeyHex = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

type testServices struct {
	store   *sqlite.Store
	tokens  *auth.TokenService
	auth    *AuthService
	books   *BookService
	reviews *ReviewService
}

// setupServices wires every service against a fresh SQLite database.
func setupServices(t *testing.T) *testServices {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	tokens, err := auth.NewTokenService(testKeyHex, time.Hour)
	require.NoError(t, err)

	v := validation.New()

	return &testServices{
		store:   s,
		tokens:  tokens,
		auth:    NewAuthService(s, tokens, v, nil),
		books:   NewBookService(s, v, nil),
		reviews: NewReviewService(s, v, nil),
	}
}
