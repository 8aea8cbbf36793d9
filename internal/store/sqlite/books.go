package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/bookreview/bookreview-server/internal/domain"
	"github.com/bookreview/bookreview-server/internal/store"
)

// bookColumns must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, title, author, genre`

// Books are listed oldest first; id breaks ties between equal timestamps.
const bookOrder = ` ORDER BY created_at ASC, id ASC`

func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var (
		b         domain.Book
		createdAt string
		updatedAt string
		genre     sql.NullString
	)

	if err := scanner.Scan(&b.ID, &createdAt, &updatedAt, &b.Title, &b.Author, &genre); err != nil {
		return nil, err
	}

	var err error
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	b.Genre = genre.String
	return &b, nil
}

// CreateBook inserts a new book.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, created_at, updated_at, title, author, genre)
		VALUES (?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.Title,
		book.Author,
		nullString(book.Genre),
	)
	return constraintError(err)
}

// GetBook retrieves a book by ID.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks returns one page of books. The author filter is a
// case-insensitive substring match; genre must match exactly.
func (s *Store) ListBooks(ctx context.Context, filter domain.BookFilter, page store.PageParams) ([]*domain.Book, error) {
	var (
		where []string
		args  []any
	)
	if filter.Author != "" {
		where = append(where, `instr(lower(author), lower(?)) > 0`)
		args = append(args, filter.Author)
	}
	if filter.Genre != "" {
		where = append(where, `genre = ?`)
		args = append(args, filter.Genre)
	}

	query := `SELECT ` + bookColumns + ` FROM books`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += bookOrder + ` LIMIT ? OFFSET ?`
	args = append(args, page.Limit, page.Offset())

	return s.queryBooks(ctx, query, args...)
}

// SearchBooks matches query case-insensitively anywhere in title or author.
func (s *Store) SearchBooks(ctx context.Context, query string) ([]*domain.Book, error) {
	return s.queryBooks(ctx, `SELECT `+bookColumns+` FROM books
		WHERE instr(lower(title), lower(?)) > 0 OR instr(lower(author), lower(?)) > 0`+bookOrder,
		query, query)
}

func (s *Store) queryBooks(ctx context.Context, query string, args ...any) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*domain.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}
