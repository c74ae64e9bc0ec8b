package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookrackapp/bookrack-server/internal/domain"
	"github.com/bookrackapp/bookrack-server/internal/store"
)

func seedBook(t *testing.T, s *store.Store, title, author string) *domain.Book {
	t.Helper()
	book := &domain.Book{Title: title, Author: author}
	require.NoError(t, s.CreateBook(context.Background(), book))
	return book
}

func TestStore_CreateReview(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := seedBook(t, s, "The Hobbit", "J.R.R. Tolkien")

	review := &domain.Review{UserID: "user-1", BookID: book.ID, Rating: 5, Comment: "a classic"}
	require.NoError(t, s.CreateReview(ctx, review))

	require.Contains(t, review.ID, "review-")
	require.False(t, review.CreatedAt.IsZero())

	got, err := s.GetReview(ctx, review.ID)
	require.NoError(t, err)
	require.Equal(t, 5, got.Rating)
	require.Equal(t, "a classic", got.Comment)
}

func TestStore_CreateReview_OnePerUserPerBook(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := seedBook(t, s, "The Hobbit", "J.R.R. Tolkien")

	require.NoError(t, s.CreateReview(ctx, &domain.Review{UserID: "user-1", BookID: book.ID, Rating: 5}))

	// Second review by the same user for the same book is rejected.
	err := s.CreateReview(ctx, &domain.Review{UserID: "user-1", BookID: book.ID, Rating: 2})
	require.ErrorIs(t, err, store.ErrReviewExists)

	// A different user can still review the same book.
	require.NoError(t, s.CreateReview(ctx, &domain.Review{UserID: "user-2", BookID: book.ID, Rating: 3}))

	// And the same user can review a different book.
	other := seedBook(t, s, "The Silmarillion", "J.R.R. Tolkien")
	require.NoError(t, s.CreateReview(ctx, &domain.Review{UserID: "user-1", BookID: other.ID, Rating: 4}))
}

func TestStore_CreateReview_ConcurrentDuplicates(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := seedBook(t, s, "The Hobbit", "J.R.R. Tolkien")

	// Racing submissions for the same (user, book): exactly one commits,
	// and every loser sees the duplicate error whether it lost to the
	// index check or to a transaction commit conflict.
	const attempts = 8
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			errs <- s.CreateReview(ctx, &domain.Review{UserID: "user-1", BookID: book.ID, Rating: 4})
		}()
	}

	var created int
	for i := 0; i < attempts; i++ {
		err := <-errs
		if err == nil {
			created++
			continue
		}
		require.ErrorIs(t, err, store.ErrReviewExists)
	}
	require.Equal(t, 1, created)

	reviews, err := s.GetReviewsForBook(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
}

func TestStore_GetReviewsForBook(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	hobbit := seedBook(t, s, "The Hobbit", "J.R.R. Tolkien")
	dune := seedBook(t, s, "Dune", "Frank Herbert")

	require.NoError(t, s.CreateReview(ctx, &domain.Review{UserID: "user-1", BookID: hobbit.ID, Rating: 5}))
	require.NoError(t, s.CreateReview(ctx, &domain.Review{UserID: "user-2", BookID: hobbit.ID, Rating: 4}))
	require.NoError(t, s.CreateReview(ctx, &domain.Review{UserID: "user-1", BookID: dune.ID, Rating: 3}))

	reviews, err := s.GetReviewsForBook(ctx, hobbit.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	for _, r := range reviews {
		require.Equal(t, hobbit.ID, r.BookID)
	}

	empty, err := s.GetReviewsForBook(ctx, "book-without-reviews")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestStore_UpdateReview(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := seedBook(t, s, "The Hobbit", "J.R.R. Tolkien")

	review := &domain.Review{UserID: "user-1", BookID: book.ID, Rating: 2, Comment: "slow start"}
	require.NoError(t, s.CreateReview(ctx, review))

	review.Rating = 4
	review.Comment = "it grew on me"
	require.NoError(t, s.UpdateReview(ctx, review))

	got, err := s.GetReview(ctx, review.ID)
	require.NoError(t, err)
	require.Equal(t, 4, got.Rating)
	require.Equal(t, "it grew on me", got.Comment)
	require.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func TestStore_UpdateReview_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	review := &domain.Review{UserID: "user-1", BookID: "book-1", Rating: 3}
	review.ID = "review-missing"

	err := s.UpdateReview(context.Background(), review)
	require.ErrorIs(t, err, store.ErrReviewNotFound)
}

func TestStore_DeleteReview_FreesTheSlot(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := seedBook(t, s, "The Hobbit", "J.R.R. Tolkien")

	review := &domain.Review{UserID: "user-1", BookID: book.ID, Rating: 1}
	require.NoError(t, s.CreateReview(ctx, review))
	require.NoError(t, s.DeleteReview(ctx, review.ID))

	_, err := s.GetReview(ctx, review.ID)
	require.ErrorIs(t, err, store.ErrReviewNotFound)

	// After deleting, the user may review the book again.
	require.NoError(t, s.CreateReview(ctx, &domain.Review{UserID: "user-1", BookID: book.ID, Rating: 5}))
}

func TestStore_Books(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, err := s.GetBook(ctx, "book-missing")
	require.ErrorIs(t, err, store.ErrBookNotFound)

	book := seedBook(t, s, "Dune", "Frank Herbert")
	got, err := s.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, "Dune", got.Title)

	seedBook(t, s, "The Hobbit", "J.R.R. Tolkien")

	all, err := s.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
