package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bookreview/bookreview-server/internal/domain"
	domainerrors "github.com/bookreview/bookreview-server/internal/errors"
	"github.com/bookreview/bookreview-server/internal/id"
	"github.com/bookreview/bookreview-server/internal/metrics"
	"github.com/bookreview/bookreview-server/internal/store"
	"github.com/bookreview/bookreview-server/internal/validation"
)

// msgReviewNotFound is shared by missing and not-owned reviews so the two
// cases are indistinguishable to callers.
const msgReviewNotFound = "review not found"

// ErrInvalidRating is returned for ratings outside 1..5.
var ErrInvalidRating = domainerrors.ValidationWithDetails("validation failed",
	map[string]string{"rating": fmt.Sprintf("must be an integer between %d and %d", domain.MinRating, domain.MaxRating)})

// ReviewStore is the persistence needed by ReviewService.
type ReviewStore interface {
	store.BookStore
	store.ReviewStore
}

// ReviewService enforces the one-review-per-user-per-book rule and the
// ownership gate on review mutations.
type ReviewService struct {
	store     ReviewStore
	validator *validation.Validator
	logger    *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(store ReviewStore, validator *validation.Validator, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// AddReviewRequest contains a new rating for a book.
type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"max=5000"`
}

// UpdateReviewRequest is a partial update; nil fields are left alone.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitnil,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitnil,max=5000"`
}

// AddReview records the actor's review of a book.
//
// The existence pre-check gives the common case a clean DUPLICATE_REVIEW
// error. Two concurrent requests can both pass it; the store's unique
// (book, user) constraint then rejects the loser, which is reported the
// same way. At most one review per pair is ever stored.
func (s *ReviewService) AddReview(ctx context.Context, bookID string, actor *domain.Actor, req AddReviewRequest) (*domain.Review, error) {
	if !domain.ValidRating(req.Rating) {
		s.record("add", metrics.OutcomeRejected)
		return nil, ErrInvalidRating
	}
	if err := s.validator.Validate(req); err != nil {
		s.record("add", metrics.OutcomeRejected)
		return nil, err
	}

	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.record("add", metrics.OutcomeRejected)
			return nil, domainerrors.NotFound(msgBookNotFound)
		}
		return nil, s.fail("add", fmt.Errorf("get book: %w", err))
	}

	_, err := s.store.GetReviewByBookAndUser(ctx, bookID, actor.ID)
	switch {
	case err == nil:
		s.record("add", metrics.OutcomeRejected)
		return nil, domainerrors.ErrDuplicateReview
	case !errors.Is(err, store.ErrNotFound):
		return nil, s.fail("add", fmt.Errorf("check existing review: %w", err))
	}

	reviewID, err := id.Generate(id.PrefixReview)
	if err != nil {
		return nil, s.fail("add", fmt.Errorf("generate review ID: %w", err))
	}

	review := &domain.Review{
		Record:   domain.Record{ID: reviewID},
		BookID:   bookID,
		UserID:   actor.ID,
		Rating:   req.Rating,
		Comment:  req.Comment,
		Username: actor.Username,
	}
	review.InitTimestamps()

	if err := s.store.CreateReview(ctx, review); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			s.record("add", metrics.OutcomeRejected)
			if s.logger != nil {
				s.logger.Info("Concurrent duplicate review rejected by constraint", "book_id", bookID, "user_id", actor.ID)
			}
			return nil, domainerrors.ErrDuplicateReview
		case errors.Is(err, store.ErrNotFound):
			s.record("add", metrics.OutcomeRejected)
			return nil, domainerrors.NotFound(msgBookNotFound)
		case errors.Is(err, store.ErrInvalidInput):
			s.record("add", metrics.OutcomeRejected)
			return nil, ErrInvalidRating
		}
		return nil, s.fail("add", fmt.Errorf("create review: %w", err))
	}

	s.record("add", metrics.OutcomeSuccess)
	if s.logger != nil {
		s.logger.Info("Review added", "review_id", review.ID, "book_id", bookID, "user_id", actor.ID)
	}

	return review, nil
}

// UpdateReview applies a partial update to a review owned by the actor.
// A review that does not exist and one owned by someone else both yield
// the same NOT_FOUND error. An empty patch leaves UpdatedAt untouched.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID string, actor *domain.Actor, req UpdateReviewRequest) (*domain.Review, error) {
	if req.Rating != nil && !domain.ValidRating(*req.Rating) {
		s.record("update", metrics.OutcomeRejected)
		return nil, ErrInvalidRating
	}
	if err := s.validator.Validate(req); err != nil {
		s.record("update", metrics.OutcomeRejected)
		return nil, err
	}

	patch := domain.ReviewPatch{Rating: req.Rating, Comment: req.Comment}

	// Nothing to change: return the owned review as stored, without a write.
	if patch.IsEmpty() {
		review, err := s.store.GetReview(ctx, reviewID, actor.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				s.record("update", metrics.OutcomeRejected)
				return nil, domainerrors.NotFound(msgReviewNotFound)
			}
			return nil, s.fail("update", fmt.Errorf("get review: %w", err))
		}
		s.record("update", metrics.OutcomeSuccess)
		return review, nil
	}

	review, err := s.store.UpdateReview(ctx, reviewID, actor.ID, patch, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			s.record("update", metrics.OutcomeRejected)
			return nil, domainerrors.NotFound(msgReviewNotFound)
		case errors.Is(err, store.ErrInvalidInput):
			s.record("update", metrics.OutcomeRejected)
			return nil, ErrInvalidRating
		}
		return nil, s.fail("update", fmt.Errorf("update review: %w", err))
	}

	review.Username = actor.Username
	s.record("update", metrics.OutcomeSuccess)

	return review, nil
}

// DeleteReview removes a review owned by the actor, with the same
// not-found-or-not-owner semantics as UpdateReview.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID string, actor *domain.Actor) error {
	if err := s.store.DeleteReview(ctx, reviewID, actor.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.record("delete", metrics.OutcomeRejected)
			return domainerrors.NotFound(msgReviewNotFound)
		}
		return s.fail("delete", fmt.Errorf("delete review: %w", err))
	}

	s.record("delete", metrics.OutcomeSuccess)
	if s.logger != nil {
		s.logger.Info("Review deleted", "review_id", reviewID, "user_id", actor.ID)
	}
	return nil
}

// GetBookReviews returns one page of a book's reviews, newest first, and
// the average rating over all of them. Page and limit default to 1 and 5.
// The caller is responsible for confirming the book exists.
func (s *ReviewService) GetBookReviews(ctx context.Context, bookID string, page store.PageParams) (*domain.BookReviews, error) {
	page.Validate(store.DefaultReviewLimit)

	var (
		summary domain.RatingSummary
		reviews []*domain.Review
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.store.RatingSummary(gctx, bookID)
		if err != nil {
			return fmt.Errorf("rating summary: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		reviews, err = s.store.ListBookReviews(gctx, bookID, page)
		if err != nil {
			return fmt.Errorf("list reviews: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &domain.BookReviews{
		AverageRating: summary.Average,
		ReviewCount:   summary.Count,
		Reviews:       make([]domain.Review, 0, len(reviews)),
	}
	for _, r := range reviews {
		result.Reviews = append(result.Reviews, *r)
	}
	return result, nil
}

func (s *ReviewService) record(action, outcome string) {
	metrics.RecordReviewOperation(action, outcome)
}

func (s *ReviewService) fail(action string, err error) error {
	metrics.RecordReviewOperation(action, metrics.OutcomeError)
	if s.logger != nil {
		s.logger.Error("Review operation failed", "action", action, "error", err)
	}
	return err
}
