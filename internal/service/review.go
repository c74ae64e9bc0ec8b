package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bookrackapp/bookrack-server/internal/domain"
	domainerrors "github.com/bookrackapp/bookrack-server/internal/errors"
	"github.com/bookrackapp/bookrack-server/internal/store"
	"github.com/bookrackapp/bookrack-server/internal/validation"
)

// ReviewService handles the review ledger.
// Every mutation takes a Caller; ownership checks live here, not in the
// HTTP layer.
type ReviewService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// AddReviewRequest contains a new review.
type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// UpdateReviewRequest contains review changes. Nil fields are left as is.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// Add creates the caller's review of a book.
// A caller gets one review per book; a second submission fails with a
// conflict rather than overwriting the first.
func (s *ReviewService) Add(ctx context.Context, caller Caller, bookID string, req AddReviewRequest) (*domain.Review, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	// The book must exist before anything gets written.
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	review := &domain.Review{
		UserID:  caller.UserID(),
		BookID:  bookID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	if err := s.store.CreateReview(ctx, review); err != nil {
		if errors.Is(err, store.ErrReviewExists) {
			return nil, domainerrors.Conflict("you have already reviewed this book")
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	return review, nil
}

// ListForBook returns all reviews of a book.
// Returns not found if the book itself doesn't exist, so a missing book
// and a book with no reviews are distinguishable.
func (s *ReviewService) ListForBook(ctx context.Context, bookID string) ([]*domain.Review, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	reviews, err := s.store.GetReviewsForBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, nil
}

// Update modifies the caller's review.
// A review that exists but belongs to someone else yields forbidden,
// not not-found: hiding its existence buys nothing since review IDs are
// public on the book's review listing.
func (s *ReviewService) Update(ctx context.Context, caller Caller, reviewID string, req UpdateReviewRequest) (*domain.Review, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	review, err := s.getOwned(ctx, caller, reviewID)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	if err := s.store.UpdateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	return review, nil
}

// Delete removes the caller's review. The caller may review the book
// again afterwards.
func (s *ReviewService) Delete(ctx context.Context, caller Caller, reviewID string) error {
	review, err := s.getOwned(ctx, caller, reviewID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteReview(ctx, review.ID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("review deleted", "review_id", review.ID, "user_id", caller.UserID())
	}

	return nil
}

// getOwned loads a review and verifies the caller owns it.
func (s *ReviewService) getOwned(ctx context.Context, caller Caller, reviewID string) (*domain.Review, error) {
	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		if errors.Is(err, store.ErrReviewNotFound) {
			return nil, domainerrors.NotFound("review not found")
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	if !review.OwnedBy(caller.UserID()) {
		return nil, domainerrors.Forbidden("you can only modify your own reviews")
	}

	return review, nil
}
