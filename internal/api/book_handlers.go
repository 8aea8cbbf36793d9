package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookreview/bookreview-server/internal/domain"
	"github.com/bookreview/bookreview-server/internal/service"
	"github.com/bookreview/bookreview-server/internal/store"
)

var bearerSecurity = []map[string][]string{{"bearer": {}}}

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/books",
		Summary:       "Create book",
		Description:   "Adds a book to the catalog",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
		Security:      bearerSecurity,
		Middlewares:   huma.Middlewares{s.requireAuth},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/books",
		Summary:     "List books",
		Description: "Returns a page of books, optionally filtered by author substring and exact genre",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/books/search",
		Summary:     "Search books",
		Description: "Case-insensitive match against title or author",
		Tags:        []string{"Books"},
	}, s.handleSearchBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book with its average rating and a page of its reviews",
		Tags:        []string{"Books"},
	}, s.handleGetBook)
}

// === DTOs ===

// CreateBookRequest is the request body for adding a book.
type CreateBookRequest struct {
	Title  string `json:"title" minLength:"1" maxLength:"500" doc:"Book title"`
	Author string `json:"author" minLength:"1" maxLength:"500" doc:"Author name"`
	Genre  string `json:"genre,omitempty" maxLength:"100" doc:"Optional genre"`
}

// CreateBookInput wraps the create book request for Huma.
type CreateBookInput struct {
	Body CreateBookRequest
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body *domain.Book
}

// ListBooksInput contains the listing window and filters.
type ListBooksInput struct {
	Page   int    `query:"page" minimum:"1" default:"1" doc:"Page number, starting at 1"`
	Limit  int    `query:"limit" minimum:"1" default:"10" doc:"Books per page, capped at 100"`
	Author string `query:"author" doc:"Case-insensitive author substring"`
	Genre  string `query:"genre" doc:"Exact genre"`
}

// BooksOutput wraps a list of books for Huma.
type BooksOutput struct {
	Body []*domain.Book
}

// SearchBooksInput contains the free-text query.
type SearchBooksInput struct {
	Q string `query:"q" required:"true" minLength:"1" doc:"Search text"`
}

// GetBookInput identifies a book and the review page to return with it.
type GetBookInput struct {
	ID    string `path:"id" doc:"Book ID"`
	Page  int    `query:"page" minimum:"1" default:"1" doc:"Review page, starting at 1"`
	Limit int    `query:"limit" minimum:"1" default:"5" doc:"Reviews per page, capped at 100"`
}

// BookDetailsResponse is a book with its rating aggregate and a page of reviews.
type BookDetailsResponse struct {
	Book          *domain.Book    `json:"book" doc:"The book"`
	AverageRating float64         `json:"averageRating" doc:"Mean rating over all reviews, 0 when none"`
	ReviewCount   int             `json:"reviewCount" doc:"Total number of reviews"`
	Reviews       []domain.Review `json:"reviews" doc:"Reviews on this page, newest first"`
}

// BookDetailsOutput wraps the book details for Huma.
type BookDetailsOutput struct {
	Body BookDetailsResponse
}

// === Handlers ===

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	actor, err := GetActor(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.CreateBook(ctx, service.CreateBookRequest{
		Title:  input.Body.Title,
		Author: input.Body.Author,
		Genre:  input.Body.Genre,
	})
	if err != nil {
		return nil, s.mapError(ctx, "createBook", err)
	}

	s.logger.Debug("Book created", "book_id", book.ID, "user_id", actor.ID)
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BooksOutput, error) {
	filter := domain.BookFilter{Author: input.Author, Genre: input.Genre}
	page := store.NewPageParams(input.Page, input.Limit, store.DefaultBookLimit)

	books, err := s.services.Book.ListBooks(ctx, filter, page)
	if err != nil {
		return nil, s.mapError(ctx, "listBooks", err)
	}

	return &BooksOutput{Body: books}, nil
}

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*BooksOutput, error) {
	books, err := s.services.Book.SearchBooks(ctx, input.Q)
	if err != nil {
		return nil, s.mapError(ctx, "searchBooks", err)
	}

	return &BooksOutput{Body: books}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookDetailsOutput, error) {
	book, err := s.services.Book.GetBook(ctx, input.ID)
	if err != nil {
		return nil, s.mapError(ctx, "getBook", err)
	}

	page := store.NewPageParams(input.Page, input.Limit, store.DefaultReviewLimit)
	reviews, err := s.services.Review.GetBookReviews(ctx, book.ID, page)
	if err != nil {
		return nil, s.mapError(ctx, "getBook", err)
	}

	return &BookDetailsOutput{
		Body: BookDetailsResponse{
			Book:          book,
			AverageRating: reviews.AverageRating,
			ReviewCount:   reviews.ReviewCount,
			Reviews:       reviews.Reviews,
		},
	}, nil
}
