// Package search provides full-text catalog search using Bleve.
// Books are matched on title, author and genre with fuzzy and
// substring tolerance.
package search

import (
	"github.com/bookrackapp/bookrack-server/internal/domain"
	"github.com/bookrackapp/bookrack-server/internal/normalize"
)

// BookDocument is the document structure for the Bleve index.
//
// Each searchable field is indexed twice: once analyzed for full-text
// relevance, and once case-folded as a single keyword term so wildcard
// queries can do cheap substring matching regardless of case or accents.
type BookDocument struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre,omitempty"`

	// Folded variants for substring matching
	TitleFold  string `json:"title_fold"`
	AuthorFold string `json:"author_fold"`
	GenreFold  string `json:"genre_fold,omitempty"`

	// Timestamps for sorting (Unix millis)
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *BookDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":          d.ID,
		"title":       d.Title,
		"author":      d.Author,
		"title_fold":  d.TitleFold,
		"author_fold": d.AuthorFold,
		"created_at":  d.CreatedAt,
		"updated_at":  d.UpdatedAt,
	}

	if d.Genre != "" {
		m["genre"] = d.Genre
		m["genre_fold"] = d.GenreFold
	}

	return m
}

// BookToDocument converts a domain Book to its index document.
func BookToDocument(book *domain.Book) *BookDocument {
	return &BookDocument{
		ID:         book.ID,
		Title:      book.Title,
		Author:     book.Author,
		Genre:      book.Genre,
		TitleFold:  normalize.Fold(book.Title),
		AuthorFold: normalize.Fold(book.Author),
		GenreFold:  normalize.Fold(book.Genre),
		CreatedAt:  book.CreatedAt.UnixMilli(),
		UpdatedAt:  book.UpdatedAt.UnixMilli(),
	}
}
