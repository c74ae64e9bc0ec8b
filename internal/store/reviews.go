package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookrackapp/bookrack-server/internal/domain"
	"github.com/bookrackapp/bookrack-server/internal/id"
)

var (
	// ErrReviewNotFound is returned when a review is not found.
	ErrReviewNotFound = errors.New("review not found")
	// ErrReviewExists is returned when the user has already reviewed the book.
	ErrReviewExists = errors.New("user has already reviewed this book")
)

// CreateReview stores a new review.
// Returns ErrReviewExists if this user already reviewed this book. The
// uniqueness check rides on the user_book index inside the create
// transaction, so two concurrent submissions cannot both land.
func (s *Store) CreateReview(ctx context.Context, review *domain.Review) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if review.ID == "" {
		reviewID, err := id.Generate("review")
		if err != nil {
			return fmt.Errorf("generate review ID: %w", err)
		}
		review.ID = reviewID
	}
	review.InitTimestamps()

	if err := s.Reviews.Create(ctx, review.ID, review); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return ErrReviewExists
		}
		// Two in-flight creates for the same (user, book) race on the
		// user_book index key; the loser's transaction aborts with a
		// commit conflict, which is the same duplicate.
		if errors.Is(err, badger.ErrConflict) {
			return ErrReviewExists
		}
		return fmt.Errorf("create review: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("review created",
			"review_id", review.ID,
			"book_id", review.BookID,
			"user_id", review.UserID,
			"rating", review.Rating,
		)
	}

	return nil
}

// GetReview retrieves a review by ID.
func (s *Store) GetReview(ctx context.Context, reviewID string) (*domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	review, err := s.Reviews.Get(ctx, reviewID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	return review, nil
}

// GetReviewsForBook returns all reviews of the given book.
func (s *Store) GetReviewsForBook(ctx context.Context, bookID string) ([]*domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reviews, err := s.Reviews.FindByIndex(ctx, "book", bookID)
	if err != nil {
		return nil, fmt.Errorf("get reviews for book: %w", err)
	}

	return reviews, nil
}

// UpdateReview persists changes to an existing review.
func (s *Store) UpdateReview(ctx context.Context, review *domain.Review) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	review.Touch()

	if err := s.Reviews.Update(ctx, review.ID, review); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("update review: %w", err)
	}

	return nil
}

// DeleteReview removes a review by ID.
func (s *Store) DeleteReview(ctx context.Context, reviewID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.Reviews.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	return nil
}
