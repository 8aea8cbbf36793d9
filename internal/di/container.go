// Package di provides dependency injection configuration for the book review server.
package di

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/bookreview/bookreview-server/internal/auth"
	"github.com/bookreview/bookreview-server/internal/config"
	"github.com/bookreview/bookreview-server/internal/di/providers"
	"github.com/bookreview/bookreview-server/internal/service"
	"github.com/bookreview/bookreview-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideAuthRateLimiter)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideReviewService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes the core services, returning the first failure
// instead of panicking so main can report it cleanly.
func Bootstrap(injector do.Injector) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*slog.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[providers.AuthKey](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*auth.TokenService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*validation.Validator](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.AuthService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.BookService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.ReviewService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.AuthRateLimiterHandle](injector); err != nil {
		return err
	}
	_, err := do.Invoke[*providers.HTTPServerHandle](injector)
	return err
}
