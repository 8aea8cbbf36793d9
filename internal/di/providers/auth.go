package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/bookreview/bookreview-server/internal/auth"
	"github.com/bookreview/bookreview-server/internal/config"
)

// AuthKey is the hex encoded PASETO v4 symmetric key.
type AuthKey string

// ProvideAuthKey resolves the configured key or loads/generates one in the data directory.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	key, err := auth.ResolveKey(cfg.Auth.AccessTokenKey, cfg.Storage.DataPath)
	if err != nil {
		return "", err
	}

	source := "configured"
	if cfg.Auth.AccessTokenKey == "" {
		source = "data directory"
	}
	log.Info("Authentication key loaded",
		"source", source,
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(string(authKey), cfg.Auth.AccessTokenDuration)
}
