// Package service implements the catalog, review and authentication logic
// on top of the store contracts.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bookreview/bookreview-server/internal/domain"
	domainerrors "github.com/bookreview/bookreview-server/internal/errors"
	"github.com/bookreview/bookreview-server/internal/id"
	"github.com/bookreview/bookreview-server/internal/store"
	"github.com/bookreview/bookreview-server/internal/validation"
)

const msgBookNotFound = "book not found"

// BookService orchestrates catalog operations.
type BookService struct {
	books     store.BookStore
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(books store.BookStore, validator *validation.Validator, logger *slog.Logger) *BookService {
	return &BookService{
		books:     books,
		validator: validator,
		logger:    logger,
	}
}

// CreateBookRequest contains the fields of a new catalog entry.
type CreateBookRequest struct {
	Title  string `json:"title" validate:"notblank,max=500"`
	Author string `json:"author" validate:"notblank,max=300"`
	Genre  string `json:"genre,omitempty" validate:"max=100"`
}

// CreateBook adds a book to the catalog. Any authenticated actor may do so.
func (s *BookService) CreateBook(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.Book{
		Record: domain.Record{ID: bookID},
		Title:  strings.TrimSpace(req.Title),
		Author: strings.TrimSpace(req.Author),
		Genre:  strings.TrimSpace(req.Genre),
	}
	book.InitTimestamps()

	if err := s.books.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book created", "book_id", book.ID, "title", book.Title)
	}

	return book, nil
}

// ListBooks returns one page of the catalog in creation order. Pages and
// limits below 1 fall back to 1 and 10.
func (s *BookService) ListBooks(ctx context.Context, filter domain.BookFilter, page store.PageParams) ([]*domain.Book, error) {
	page.Validate(store.DefaultBookLimit)

	books, err := s.books.ListBooks(ctx, filter.Normalize(), page)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// SearchBooks returns every book whose title or author contains query,
// ignoring case. The result is not paginated.
func (s *BookService) SearchBooks(ctx context.Context, query string) ([]*domain.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{"q": "is required"})
	}

	books, err := s.books.SearchBooks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return books, nil
}

// GetBook returns a single book or a NOT_FOUND error.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.books.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(msgBookNotFound)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}
