package api

import "github.com/bookreview/bookreview-server/internal/service"

// Services groups the business logic services used by the API server.
type Services struct {
	Auth   *service.AuthService
	Book   *service.BookService
	Review *service.ReviewService
}
