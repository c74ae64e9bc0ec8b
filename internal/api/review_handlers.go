package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookrackapp/bookrack-server/internal/domain"
	"github.com/bookrackapp/bookrack-server/internal/service"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBookReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{bookID}/reviews",
		Summary:     "List reviews",
		Description: "Returns all reviews for a book",
		Tags:        []string{"Reviews"},
	}, s.handleListBookReviews)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addReview",
		Method:        http.MethodPost,
		Path:          "/api/v1/books/{bookID}/reviews",
		Summary:       "Add review",
		Description:   "Adds the caller's review of a book. Each user gets one review per book.",
		Tags:          []string{"Reviews"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateReview",
		Method:      http.MethodPatch,
		Path:        "/api/v1/reviews/{id}",
		Summary:     "Update review",
		Description: "Updates the caller's own review. Only provided fields change.",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteReview",
		Method:      http.MethodDelete,
		Path:        "/api/v1/reviews/{id}",
		Summary:     "Delete review",
		Description: "Deletes the caller's own review",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteReview)
}

// === DTOs ===

// ReviewResponse contains review data in API responses.
type ReviewResponse struct {
	ID        string    `json:"id" doc:"Review ID"`
	UserID    string    `json:"user_id" doc:"Reviewer's user ID"`
	BookID    string    `json:"book_id" doc:"Reviewed book ID"`
	Rating    int       `json:"rating" doc:"Rating from 1 to 5"`
	Comment   string    `json:"comment,omitempty" doc:"Review text"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// ReviewsResponse contains a book's reviews.
type ReviewsResponse struct {
	Reviews []ReviewResponse `json:"reviews" doc:"Reviews for the book"`
	Total   int              `json:"total" doc:"Number of reviews returned"`
}

// ListBookReviewsInput identifies the book by path parameter.
type ListBookReviewsInput struct {
	BookID string `path:"bookID" maxLength:"100" doc:"Book ID"`
}

// ReviewsOutput wraps the review list for Huma.
type ReviewsOutput struct {
	Body ReviewsResponse
}

// AddReviewRequest is the request body for creating a review.
type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5" doc:"Rating from 1 to 5"`
	Comment string `json:"comment,omitempty" validate:"omitempty,max=2000" doc:"Review text"`
}

// AddReviewInput wraps the add request for Huma.
type AddReviewInput struct {
	BookID string `path:"bookID" maxLength:"100" doc:"Book ID"`
	Body   AddReviewRequest
}

// ReviewOutput wraps a single review for Huma.
type ReviewOutput struct {
	Body ReviewResponse
}

// UpdateReviewRequest is the request body for updating a review.
// Omitted fields are left unchanged.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5" doc:"New rating from 1 to 5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000" doc:"New review text"`
}

// UpdateReviewInput wraps the update request for Huma.
type UpdateReviewInput struct {
	ID   string `path:"id" maxLength:"100" doc:"Review ID"`
	Body UpdateReviewRequest
}

// DeleteReviewInput identifies the review by path parameter.
type DeleteReviewInput struct {
	ID string `path:"id" maxLength:"100" doc:"Review ID"`
}

// === Handlers ===

func (s *Server) handleListBookReviews(ctx context.Context, input *ListBookReviewsInput) (*ReviewsOutput, error) {
	reviews, err := s.services.Review.ListForBook(ctx, input.BookID)
	if err != nil {
		return nil, err
	}

	out := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, mapReviewResponse(review))
	}

	return &ReviewsOutput{Body: ReviewsResponse{Reviews: out, Total: len(out)}}, nil
}

func (s *Server) handleAddReview(ctx context.Context, input *AddReviewInput) (*ReviewOutput, error) {
	caller, err := GetCaller(ctx)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Review.Add(ctx, caller, input.BookID, service.AddReviewRequest{
		Rating:  input.Body.Rating,
		Comment: input.Body.Comment,
	})
	if err != nil {
		return nil, err
	}

	return &ReviewOutput{Body: mapReviewResponse(review)}, nil
}

func (s *Server) handleUpdateReview(ctx context.Context, input *UpdateReviewInput) (*ReviewOutput, error) {
	caller, err := GetCaller(ctx)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Review.Update(ctx, caller, input.ID, service.UpdateReviewRequest{
		Rating:  input.Body.Rating,
		Comment: input.Body.Comment,
	})
	if err != nil {
		return nil, err
	}

	return &ReviewOutput{Body: mapReviewResponse(review)}, nil
}

func (s *Server) handleDeleteReview(ctx context.Context, input *DeleteReviewInput) (*MessageOutput, error) {
	caller, err := GetCaller(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Review.Delete(ctx, caller, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Review deleted"}}, nil
}

// mapReviewResponse converts a domain review to the API shape.
func mapReviewResponse(review *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID,
		UserID:    review.UserID,
		BookID:    review.BookID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}
