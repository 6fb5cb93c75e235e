package book

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

import (
	"context"
)

// Repository defines the contract for book data storage.
type Repository interface {
	// Add stores a new book.
	Add(ctx context.Context, b Book) error
	// GetByID returns the book with the given id or ErrNotFound.
	GetByID(ctx context.Context, id string) (Book, error)
	// List returns, in insertion order, every book accepted by keep.
	List(ctx context.Context, keep func(Book) bool) ([]Book, error)
	// Update applies mutate to the stored book atomically. It returns
	// ErrNotFound when id is unknown and any error mutate returns.
	Update(ctx context.Context, id string, mutate func(*Book) error) error
	// Delete removes the book with the given id or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// Count returns the number of stored books.
	Count(ctx context.Context) (int, error)
}
