package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookrackapp/bookrack-server/internal/domain"
	"github.com/bookrackapp/bookrack-server/internal/id"
)

// ErrBookNotFound is returned when a book is not found.
var ErrBookNotFound = errors.New("book not found")

// CreateBook adds a new book to the catalog and indexes it for search.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if book.ID == "" {
		bookID, err := id.Generate("book")
		if err != nil {
			return fmt.Errorf("generate book ID: %w", err)
		}
		book.ID = bookID
	}
	book.InitTimestamps()

	if err := s.Books.Create(ctx, book.ID, book); err != nil {
		return fmt.Errorf("create book: %w", err)
	}

	if s.searchIndexer != nil {
		if err := s.searchIndexer.IndexBook(ctx, book); err != nil && s.logger != nil {
			// The book is persisted either way; the index catches up on rebuild.
			s.logger.Warn("failed to index book", "book_id", book.ID, "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("book created", "book_id", book.ID, "title", book.Title)
	}

	return nil
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	book, err := s.Books.Get(ctx, bookID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	return book, nil
}

// ListBooks returns every book in the catalog.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var books []*domain.Book
	for book, err := range s.Books.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list books: %w", err)
		}
		books = append(books, book)
	}

	return books, nil
}

// DeleteBook removes a book and its search index entry.
// Reviews of the book are left in place; they become unreachable through
// the book routes but keep their owner's history intact.
func (s *Store) DeleteBook(ctx context.Context, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.Books.Delete(ctx, bookID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if s.searchIndexer != nil {
		if err := s.searchIndexer.DeleteBook(ctx, bookID); err != nil && s.logger != nil {
			s.logger.Warn("failed to remove book from index", "book_id", bookID, "error", err)
		}
	}

	return nil
}
