package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookrackapp/bookrack-server/internal/domain"
	"github.com/bookrackapp/bookrack-server/internal/search"
	"github.com/bookrackapp/bookrack-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the full catalog",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/search",
		Summary:     "Search books",
		Description: "Full-text search over title, author and genre with substring and fuzzy matching",
		Tags:        []string{"Books"},
	}, s.handleSearchBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a single book by ID",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Add book",
		Description:   "Adds a book to the catalog",
		Tags:          []string{"Books"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)
}

// === DTOs ===

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID        string    `json:"id" doc:"Book ID"`
	Title     string    `json:"title" doc:"Book title"`
	Author    string    `json:"author" doc:"Book author"`
	Genre     string    `json:"genre,omitempty" doc:"Book genre"`
	AddedBy   string    `json:"added_by,omitempty" doc:"ID of the user who added the book"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// BooksResponse contains a list of books.
type BooksResponse struct {
	Books []BookResponse `json:"books" doc:"Books in the catalog"`
	Total int            `json:"total" doc:"Number of books returned"`
}

// BooksOutput wraps the book list for Huma.
type BooksOutput struct {
	Body BooksResponse
}

// BookInput identifies a book by path parameter.
type BookInput struct {
	ID string `path:"id" maxLength:"100" doc:"Book ID"`
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body BookResponse
}

// CreateBookRequest is the request body for adding a book.
type CreateBookRequest struct {
	Title  string `json:"title" validate:"required,max=500" doc:"Book title"`
	Author string `json:"author" validate:"required,max=200" doc:"Book author"`
	Genre  string `json:"genre,omitempty" validate:"omitempty,max=100" doc:"Book genre"`
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	Body CreateBookRequest
}

// SearchBooksInput carries search query parameters.
type SearchBooksInput struct {
	Query  string `query:"q" maxLength:"200" doc:"Search query; empty matches everything"`
	Limit  int    `query:"limit" minimum:"0" maximum:"100" doc:"Maximum hits to return (default 20)"`
	Offset int    `query:"offset" minimum:"0" doc:"Number of hits to skip"`
	Sort   string `query:"sort" enum:"relevance,title,author,recent" default:"relevance" doc:"Sort order"`
	Order  string `query:"order" enum:"asc,desc" default:"desc" doc:"Sort direction"`
}

// SearchHitResponse is a single search result.
type SearchHitResponse struct {
	ID         string            `json:"id" doc:"Book ID"`
	Score      float64           `json:"score" doc:"Relevance score"`
	Title      string            `json:"title" doc:"Book title"`
	Author     string            `json:"author" doc:"Book author"`
	Genre      string            `json:"genre,omitempty" doc:"Book genre"`
	Highlights map[string]string `json:"highlights,omitempty" doc:"Matched fragments by field"`
}

// SearchBooksResponse contains search results.
type SearchBooksResponse struct {
	Query  string              `json:"query" doc:"The query that was run"`
	Total  uint64              `json:"total" doc:"Total matching books"`
	TookMs int64               `json:"took_ms" doc:"Search duration in milliseconds"`
	Hits   []SearchHitResponse `json:"hits" doc:"Search hits"`
}

// SearchBooksOutput wraps search results for Huma.
type SearchBooksOutput struct {
	Body SearchBooksResponse
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, _ *struct{}) (*BooksOutput, error) {
	books, err := s.services.Book.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]BookResponse, 0, len(books))
	for _, book := range books {
		out = append(out, mapBookResponse(book))
	}

	return &BooksOutput{Body: BooksResponse{Books: out, Total: len(out)}}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookInput) (*BookOutput, error) {
	book, err := s.services.Book.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	caller, err := GetCaller(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.Create(ctx, caller, service.CreateBookRequest{
		Title:  input.Body.Title,
		Author: input.Body.Author,
		Genre:  input.Body.Genre,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*SearchBooksOutput, error) {
	params := search.DefaultParams()
	params.Query = input.Query
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	params.Offset = input.Offset
	if input.Sort != "" {
		params.SortBy = input.Sort
	}
	if input.Order != "" {
		params.SortOrder = input.Order
	}

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHitResponse, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hits = append(hits, SearchHitResponse{
			ID:         hit.ID,
			Score:      hit.Score,
			Title:      hit.Title,
			Author:     hit.Author,
			Genre:      hit.Genre,
			Highlights: hit.Highlights,
		})
	}

	return &SearchBooksOutput{
		Body: SearchBooksResponse{
			Query:  result.Query,
			Total:  result.Total,
			TookMs: result.TookMs,
			Hits:   hits,
		},
	}, nil
}

// mapBookResponse converts a domain book to the API shape.
func mapBookResponse(book *domain.Book) BookResponse {
	return BookResponse{
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.Author,
		Genre:     book.Genre,
		AddedBy:   book.AddedBy,
		CreatedAt: book.CreatedAt,
		UpdatedAt: book.UpdatedAt,
	}
}
