package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookrackapp/bookrack-server/internal/domain"
	domainerrors "github.com/bookrackapp/bookrack-server/internal/errors"
	"github.com/bookrackapp/bookrack-server/internal/store"
	"github.com/bookrackapp/bookrack-server/internal/validation"
)

// setupReviewTest creates review and book services over temporary storage.
func setupReviewTest(t *testing.T) (*ReviewService, *BookService, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "bookrack-review-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	v := validation.New()

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return NewReviewService(s, v, nil), NewBookService(s, v, nil), cleanup
}

// testCaller fabricates a caller for service-level tests.
func testCaller(userID string) Caller {
	return Caller{userID: userID, username: "user-" + userID}
}

func createBook(t *testing.T, books *BookService, caller Caller) *domain.Book {
	t.Helper()
	book, err := books.Create(context.Background(), caller, CreateBookRequest{
		Title:  "The Hobbit",
		Author: "J.R.R. Tolkien",
		Genre:  "Fantasy",
	})
	require.NoError(t, err)
	return book
}

func TestReviewService_Add(t *testing.T) {
	reviews, books, cleanup := setupReviewTest(t)
	defer cleanup()

	ctx := context.Background()
	alice := testCaller("alice")
	book := createBook(t, books, alice)

	review, err := reviews.Add(ctx, alice, book.ID, AddReviewRequest{Rating: 5, Comment: "re-read it every year"})
	require.NoError(t, err)

	assert.Equal(t, "alice", review.UserID)
	assert.Equal(t, book.ID, review.BookID)
	assert.Equal(t, 5, review.Rating)
	assert.NotEmpty(t, review.ID)
}

func TestReviewService_Add_UnknownBook(t *testing.T) {
	reviews, _, cleanup := setupReviewTest(t)
	defer cleanup()

	_, err := reviews.Add(context.Background(), testCaller("alice"), "book-missing", AddReviewRequest{Rating: 3})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestReviewService_Add_DuplicateIsConflict(t *testing.T) {
	reviews, books, cleanup := setupReviewTest(t)
	defer cleanup()

	ctx := context.Background()
	alice := testCaller("alice")
	book := createBook(t, books, alice)

	_, err := reviews.Add(ctx, alice, book.ID, AddReviewRequest{Rating: 5})
	require.NoError(t, err)

	_, err = reviews.Add(ctx, alice, book.ID, AddReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	// Another user is unaffected.
	_, err = reviews.Add(ctx, testCaller("bob"), book.ID, AddReviewRequest{Rating: 2})
	require.NoError(t, err)
}

func TestReviewService_Add_RatingBounds(t *testing.T) {
	reviews, books, cleanup := setupReviewTest(t)
	defer cleanup()

	ctx := context.Background()
	alice := testCaller("alice")
	book := createBook(t, books, alice)

	_, err := reviews.Add(ctx, alice, book.ID, AddReviewRequest{Rating: 0})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = reviews.Add(ctx, alice, book.ID, AddReviewRequest{Rating: 6})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestReviewService_ListForBook(t *testing.T) {
	reviews, books, cleanup := setupReviewTest(t)
	defer cleanup()

	ctx := context.Background()
	alice := testCaller("alice")
	book := createBook(t, books, alice)

	_, err := reviews.Add(ctx, alice, book.ID, AddReviewRequest{Rating: 5})
	require.NoError(t, err)
	_, err = reviews.Add(ctx, testCaller("bob"), book.ID, AddReviewRequest{Rating: 3})
	require.NoError(t, err)

	list, err := reviews.ListForBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = reviews.ListForBook(ctx, "book-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestReviewService_Update(t *testing.T) {
	reviews, books, cleanup := setupReviewTest(t)
	defer cleanup()

	ctx := context.Background()
	alice := testCaller("alice")
	book := createBook(t, books, alice)

	review, err := reviews.Add(ctx, alice, book.ID, AddReviewRequest{Rating: 2, Comment: "slow start"})
	require.NoError(t, err)

	rating := 4
	updated, err := reviews.Update(ctx, alice, review.ID, UpdateReviewRequest{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	// Unset fields keep their value.
	assert.Equal(t, "slow start", updated.Comment)
}

func TestReviewService_Update_OwnerOnly(t *testing.T) {
	reviews, books, cleanup := setupReviewTest(t)
	defer cleanup()

	ctx := context.Background()
	alice := testCaller("alice")
	book := createBook(t, books, alice)

	review, err := reviews.Add(ctx, alice, book.ID, AddReviewRequest{Rating: 5})
	require.NoError(t, err)

	rating := 1
	_, err = reviews.Update(ctx, testCaller("mallory"), review.ID, UpdateReviewRequest{Rating: &rating})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// Missing reviews are not found, regardless of caller.
	_, err = reviews.Update(ctx, alice, "review-missing", UpdateReviewRequest{Rating: &rating})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestReviewService_Delete(t *testing.T) {
	reviews, books, cleanup := setupReviewTest(t)
	defer cleanup()

	ctx := context.Background()
	alice := testCaller("alice")
	book := createBook(t, books, alice)

	review, err := reviews.Add(ctx, alice, book.ID, AddReviewRequest{Rating: 5})
	require.NoError(t, err)

	err = reviews.Delete(ctx, testCaller("mallory"), review.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	require.NoError(t, reviews.Delete(ctx, alice, review.ID))

	err = reviews.Delete(ctx, alice, review.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// The slot is free again.
	_, err = reviews.Add(ctx, alice, book.ID, AddReviewRequest{Rating: 3})
	require.NoError(t, err)
}

func TestBookService_GetAndList(t *testing.T) {
	_, books, cleanup := setupReviewTest(t)
	defer cleanup()

	ctx := context.Background()
	alice := testCaller("alice")

	book := createBook(t, books, alice)

	got, err := books.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", got.Title)
	assert.Equal(t, "alice", got.AddedBy)

	_, err = books.Get(ctx, "book-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	all, err := books.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBookService_Create_Validation(t *testing.T) {
	_, books, cleanup := setupReviewTest(t)
	defer cleanup()

	_, err := books.Create(context.Background(), testCaller("alice"), CreateBookRequest{Title: "", Author: "Someone"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
