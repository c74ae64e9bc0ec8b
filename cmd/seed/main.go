// Package main provides a tool to seed the database with sample catalog data.
//
// This creates a demo user, a handful of well-known books and a review or
// two, which is handy for poking at the API locally.
//
// Usage:
//
//	DATA_PATH=~/Bookrack/data go run ./cmd/seed
//	DATA_PATH=~/Bookrack/data go run ./cmd/seed --with-reviews
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/bookrackapp/bookrack-server/internal/auth"
	"github.com/bookrackapp/bookrack-server/internal/domain"
	"github.com/bookrackapp/bookrack-server/internal/store"
)

var withReviews = flag.Bool("with-reviews", false, "Also create sample reviews from the demo user")

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Bookrack/data")
	}
	dbPath := filepath.Join(dataPath, "db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	user := seedUser(ctx, s)
	books := seedBooks(ctx, s)

	if *withReviews && user != nil {
		seedReviews(ctx, s, user, books)
	}

	fmt.Println("Done. Restart the server to reindex search if it was running.")
}

func seedUser(ctx context.Context, s *store.Store) *domain.User {
	hash, err := auth.HashPassword("demo-password-123")
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &domain.User{
		Username:     "demo",
		PasswordHash: hash,
	}

	if err := s.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			fmt.Println("Demo user already exists, reusing it")
			existing, err := s.GetUserByUsername(ctx, "demo")
			if err != nil {
				log.Fatalf("Failed to load demo user: %v", err)
			}
			return existing
		}
		log.Fatalf("Failed to create demo user: %v", err)
	}

	fmt.Printf("Created user %q (password: demo-password-123)\n", user.Username)
	return user
}

func seedBooks(ctx context.Context, s *store.Store) []*domain.Book {
	samples := []*domain.Book{
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy"},
		{Title: "The Fellowship of the Ring", Author: "J.R.R. Tolkien", Genre: "Fantasy"},
		{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction"},
		{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Romance"},
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Genre: "Science Fiction"},
	}

	existing, err := s.ListBooks(ctx)
	if err != nil {
		log.Fatalf("Failed to list books: %v", err)
	}
	have := make(map[string]*domain.Book, len(existing))
	for _, b := range existing {
		have[b.Title] = b
	}

	var books []*domain.Book
	for _, book := range samples {
		if b, ok := have[book.Title]; ok {
			books = append(books, b)
			continue
		}
		if err := s.CreateBook(ctx, book); err != nil {
			log.Fatalf("Failed to create book %q: %v", book.Title, err)
		}
		fmt.Printf("Created book: %s by %s\n", book.Title, book.Author)
		books = append(books, book)
	}

	return books
}

func seedReviews(ctx context.Context, s *store.Store, user *domain.User, books []*domain.Book) {
	samples := []struct {
		rating  int
		comment string
	}{
		{5, "Read it in one sitting."},
		{4, "Slow start but worth it."},
		{5, "The spice must flow."},
	}

	for i, sample := range samples {
		if i >= len(books) {
			break
		}
		review := &domain.Review{
			UserID:  user.ID,
			BookID:  books[i].ID,
			Rating:  sample.rating,
			Comment: sample.comment,
		}
		if err := s.CreateReview(ctx, review); err != nil {
			if errors.Is(err, store.ErrReviewExists) {
				continue
			}
			log.Fatalf("Failed to create review: %v", err)
		}
		fmt.Printf("Created review of %q (%d stars)\n", books[i].Title, sample.rating)
	}
}
