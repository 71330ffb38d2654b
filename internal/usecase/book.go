package usecase

import (
	"context"

	"bookreviews/internal/entity"
)

// Repository interface
// Defines the contract for fetching books. Books are seeded externally;
// nothing here creates or mutates them.
type BookRepository interface {
	GetByID(ctx context.Context, id int64) (entity.Book, error)
	// GetByISBN returns the first match when the catalog holds duplicates.
	GetByISBN(ctx context.Context, isbn string) (entity.Book, error)
	// Search matches q case-insensitively as a substring of title, isbn or
	// author. An empty q matches everything.
	Search(ctx context.Context, q string) ([]entity.Book, error)
}
