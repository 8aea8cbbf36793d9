package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bookreview/bookreview-server/internal/domain"
	"github.com/bookreview/bookreview-server/internal/store"
)

// reviewColumns must match the scan order in scanReview.
const reviewColumns = `id, created_at, updated_at, book_id, user_id, rating, comment`

func scanReview(scanner interface{ Scan(dest ...any) error }, extra ...any) (*domain.Review, error) {
	var (
		r         domain.Review
		createdAt string
		updatedAt string
		comment   sql.NullString
	)

	dest := append([]any{&r.ID, &createdAt, &updatedAt, &r.BookID, &r.UserID, &r.Rating, &comment}, extra...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	r.Comment = comment.String
	return &r, nil
}

// CreateReview inserts a review. The (book_id, user_id) unique constraint
// is the final word on duplicates: a racing second insert fails with
// store.ErrAlreadyExists. A missing book or user yields store.ErrNotFound.
func (s *Store) CreateReview(ctx context.Context, review *domain.Review) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (id, created_at, updated_at, book_id, user_id, rating, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		review.ID,
		formatTime(review.CreatedAt),
		formatTime(review.UpdatedAt),
		review.BookID,
		review.UserID,
		review.Rating,
		nullString(review.Comment),
	)
	return constraintError(err)
}

// GetReviewByBookAndUser returns the user's review of a book.
// Returns store.ErrNotFound if there is none.
func (s *Store) GetReviewByBookAndUser(ctx context.Context, bookID, userID string) (*domain.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE book_id = ? AND user_id = ?`, bookID, userID)

	r, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetReview returns the review matching both id and owner, with the
// reviewer's username joined in. Returns store.ErrNotFound when no such pair
// exists.
func (s *Store) GetReview(ctx context.Context, id, userID string) (*domain.Review, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT r.id, r.created_at, r.updated_at, r.book_id, r.user_id, r.rating, r.comment,
			COALESCE(u.username, '')
		FROM reviews r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.id = ? AND r.user_id = ?`, id, userID)

	var username string
	r, err := scanReview(row, &username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.Username = username
	return r, nil
}

// UpdateReview applies patch to the review matching both id and owner in a
// single statement. Returns store.ErrNotFound when no such pair exists.
func (s *Store) UpdateReview(ctx context.Context, id, userID string, patch domain.ReviewPatch, updatedAt time.Time) (*domain.Review, error) {
	var rating sql.NullInt64
	if patch.Rating != nil {
		rating = sql.NullInt64{Int64: int64(*patch.Rating), Valid: true}
	}
	var comment sql.NullString
	if patch.Comment != nil {
		comment = nullString(*patch.Comment)
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE reviews SET
			rating = COALESCE(?, rating),
			comment = CASE WHEN ? THEN ? ELSE comment END,
			updated_at = ?
		WHERE id = ? AND user_id = ?
		RETURNING `+reviewColumns,
		rating,
		patch.Comment != nil,
		comment,
		formatTime(updatedAt),
		id,
		userID,
	)

	r, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, constraintError(err)
	}
	return r, nil
}

// DeleteReview removes the review matching both id and owner.
// Returns store.ErrNotFound when no such pair exists.
func (s *Store) DeleteReview(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListBookReviews returns one page of a book's reviews, newest first, with
// each reviewer's username joined in.
func (s *Store) ListBookReviews(ctx context.Context, bookID string, page store.PageParams) ([]*domain.Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.created_at, r.updated_at, r.book_id, r.user_id, r.rating, r.comment,
			COALESCE(u.username, '')
		FROM reviews r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.book_id = ?
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT ? OFFSET ?`,
		bookID, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []*domain.Review{}
	for rows.Next() {
		var username string
		r, err := scanReview(rows, &username)
		if err != nil {
			return nil, err
		}
		r.Username = username
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// RatingSummary returns the mean rating and review count over all of a
// book's reviews. The mean is 0 when the book has none.
func (s *Store) RatingSummary(ctx context.Context, bookID string) (domain.RatingSummary, error) {
	var sum domain.RatingSummary
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE book_id = ?`, bookID,
	).Scan(&sum.Average, &sum.Count)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	return sum, nil
}
