// Package store defines the persistence contracts for the book review server.
package store

import (
	"context"
	"time"

	"github.com/bookreview/bookreview-server/internal/domain"
)

// UserStore persists accounts.
type UserStore interface {
	// CreateUser returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// BookStore persists catalog entries.
type BookStore interface {
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	// ListBooks returns books in creation order.
	ListBooks(ctx context.Context, filter domain.BookFilter, page PageParams) ([]*domain.Book, error)
	// SearchBooks matches query case-insensitively against title or author.
	SearchBooks(ctx context.Context, query string) ([]*domain.Book, error)
}

// ReviewStore persists reviews. Mutations are scoped to the owning user:
// a review owned by someone else is indistinguishable from a missing one.
type ReviewStore interface {
	// CreateReview returns ErrAlreadyExists if the user already reviewed the
	// book and ErrNotFound if the book or user does not exist.
	CreateReview(ctx context.Context, review *domain.Review) error
	GetReviewByBookAndUser(ctx context.Context, bookID, userID string) (*domain.Review, error)
	// GetReview returns the review only when userID owns it.
	GetReview(ctx context.Context, id, userID string) (*domain.Review, error)
	UpdateReview(ctx context.Context, id, userID string, patch domain.ReviewPatch, updatedAt time.Time) (*domain.Review, error)
	DeleteReview(ctx context.Context, id, userID string) error
	// ListBookReviews returns newest first with the reviewer's username joined.
	ListBookReviews(ctx context.Context, bookID string, page PageParams) ([]*domain.Review, error)
	// RatingSummary aggregates over every review of the book.
	RatingSummary(ctx context.Context, bookID string) (domain.RatingSummary, error)
}

// Store is the full persistence surface.
type Store interface {
	UserStore
	BookStore
	ReviewStore

	Ping(ctx context.Context) error
	Close() error
}
