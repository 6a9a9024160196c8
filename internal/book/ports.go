package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mocks/mock_repository.go -package=mocks

// Repository defines the contract for book data storage.
type Repository interface {
	// FindByISBN returns ErrNotFound when no row has the isbn.
	FindByISBN(ctx context.Context, isbn string) (Record, error)
	// FindAll returns one sorted page and the total row count.
	FindAll(ctx context.Context, p PageRequest) ([]Record, int, error)
	// Save inserts the record or overwrites the row with the same isbn.
	Save(ctx context.Context, r Record) error
	// Delete returns ErrNotFound when no row has the isbn.
	Delete(ctx context.Context, isbn string) error
}
