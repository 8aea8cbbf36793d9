package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookreview/bookreview-server/internal/domain"
	"github.com/bookreview/bookreview-server/internal/service"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "addReview",
		Method:        http.MethodPost,
		Path:          "/api/books/{id}/reviews",
		Summary:       "Review a book",
		Description:   "Adds the caller's review. Each user may review a book once.",
		Tags:          []string{"Reviews"},
		DefaultStatus: http.StatusCreated,
		Security:      bearerSecurity,
		Middlewares:   huma.Middlewares{s.requireAuth},
	}, s.handleAddReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateReview",
		Method:      http.MethodPut,
		Path:        "/api/reviews/{id}",
		Summary:     "Update review",
		Description: "Changes the rating and/or comment of the caller's own review",
		Tags:        []string{"Reviews"},
		Security:    bearerSecurity,
		Middlewares: huma.Middlewares{s.requireAuth},
	}, s.handleUpdateReview)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteReview",
		Method:        http.MethodDelete,
		Path:          "/api/reviews/{id}",
		Summary:       "Delete review",
		Description:   "Removes the caller's own review",
		Tags:          []string{"Reviews"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearerSecurity,
		Middlewares:   huma.Middlewares{s.requireAuth},
	}, s.handleDeleteReview)
}

// === DTOs ===

// AddReviewRequest is the request body for a new review.
type AddReviewRequest struct {
	Rating  int    `json:"rating" minimum:"1" maximum:"5" doc:"Rating from 1 to 5"`
	Comment string `json:"comment,omitempty" maxLength:"5000" doc:"Optional comment"`
}

// AddReviewInput wraps the add review request for Huma.
type AddReviewInput struct {
	BookID string `path:"id" doc:"Book ID"`
	Body   AddReviewRequest
}

// UpdateReviewRequest is a partial update. Omitted fields keep their value.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" minimum:"1" maximum:"5" doc:"New rating from 1 to 5"`
	Comment *string `json:"comment,omitempty" maxLength:"5000" doc:"New comment"`
}

// UpdateReviewInput wraps the update review request for Huma.
type UpdateReviewInput struct {
	ID   string `path:"id" doc:"Review ID"`
	Body UpdateReviewRequest
}

// DeleteReviewInput identifies the review to delete.
type DeleteReviewInput struct {
	ID string `path:"id" doc:"Review ID"`
}

// ReviewOutput wraps a single review for Huma.
type ReviewOutput struct {
	Body *domain.Review
}

// === Handlers ===

func (s *Server) handleAddReview(ctx context.Context, input *AddReviewInput) (*ReviewOutput, error) {
	actor, err := GetActor(ctx)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Review.AddReview(ctx, input.BookID, actor, service.AddReviewRequest{
		Rating:  input.Body.Rating,
		Comment: input.Body.Comment,
	})
	if err != nil {
		return nil, s.mapError(ctx, "addReview", err)
	}

	return &ReviewOutput{Body: review}, nil
}

func (s *Server) handleUpdateReview(ctx context.Context, input *UpdateReviewInput) (*ReviewOutput, error) {
	actor, err := GetActor(ctx)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Review.UpdateReview(ctx, input.ID, actor, service.UpdateReviewRequest{
		Rating:  input.Body.Rating,
		Comment: input.Body.Comment,
	})
	if err != nil {
		return nil, s.mapError(ctx, "updateReview", err)
	}

	return &ReviewOutput{Body: review}, nil
}

func (s *Server) handleDeleteReview(ctx context.Context, input *DeleteReviewInput) (*struct{}, error) {
	actor, err := GetActor(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Review.DeleteReview(ctx, input.ID, actor); err != nil {
		return nil, s.mapError(ctx, "deleteReview", err)
	}

	return nil, nil
}
