package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bookrackapp/bookrack-server/internal/domain"
	"github.com/bookrackapp/bookrack-server/internal/search"
	"github.com/bookrackapp/bookrack-server/internal/store"
)

// SearchService wraps the Bleve index with catalog-aware operations.
// It also implements store.SearchIndexer so the store can keep the
// index in sync as books change.
type SearchService struct {
	index  *search.Index
	store  *store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.Index, store *store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search runs a catalog query.
func (s *SearchService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	if params.Limit <= 0 {
		params.Limit = search.DefaultParams().Limit
	}

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return result, nil
}

// IndexBook implements store.SearchIndexer.
func (s *SearchService) IndexBook(_ context.Context, book *domain.Book) error {
	return s.index.IndexDocument(search.BookToDocument(book))
}

// DeleteBook implements store.SearchIndexer.
func (s *SearchService) DeleteBook(_ context.Context, bookID string) error {
	return s.index.DeleteDocument(bookID)
}

// DocumentCount returns the number of indexed books.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll rebuilds the index from the catalog.
// Called at startup so the index and store converge even after crashes
// or mapping changes.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return fmt.Errorf("list books for reindex: %w", err)
	}

	docs := make([]*search.BookDocument, 0, len(books))
	for _, book := range books {
		docs = append(docs, search.BookToDocument(book))
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("reindex books: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("catalog reindexed", "books", len(docs))
	}

	return nil
}
