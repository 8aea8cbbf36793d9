package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/bookreview/bookreview-server/internal/auth"
	"github.com/bookreview/bookreview-server/internal/service"
	"github.com/bookreview/bookreview-server/internal/validation"
)

// ProvideValidator provides the shared input validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideAuthService provides the credential store and login service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, v, log), nil
}

// ProvideBookService provides the catalog service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewBookService(storeHandle.Store, v, log), nil
}

// ProvideReviewService provides the review service.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewReviewService(storeHandle.Store, v, log), nil
}
