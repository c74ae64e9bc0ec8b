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

// BookService handles catalog reads and writes.
type BookService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *BookService {
	return &BookService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateBookRequest contains a new catalog entry.
type CreateBookRequest struct {
	Title  string `json:"title" validate:"required,max=500"`
	Author string `json:"author" validate:"required,max=200"`
	Genre  string `json:"genre" validate:"max=100"`
}

// List returns the whole catalog.
func (s *BookService) List(ctx context.Context) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Get returns a single book by ID.
func (s *BookService) Get(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// Create adds a book to the catalog on behalf of the caller.
func (s *BookService) Create(ctx context.Context, caller Caller, req CreateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	book := &domain.Book{
		Title:   req.Title,
		Author:  req.Author,
		Genre:   req.Genre,
		AddedBy: caller.UserID(),
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	return book, nil
}
