package book

import (
	"context"
	"sync"
)

// MemoryRepo is a Repository over a process-local Catalog. Each operation,
// including the find-then-mutate sequences of Update and Delete, holds the lock
// for its whole duration.
type MemoryRepo struct {
	mu      sync.RWMutex
	catalog *Catalog
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{catalog: NewCatalog()}
}

func (r *MemoryRepo) Add(ctx context.Context, b Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalog.Add(b)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Book, error) {
	if err := ctx.Err(); err != nil {
		return Book{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.catalog.FindIndexByID(id)
	if i < 0 {
		return Book{}, ErrNotFound
	}
	return r.catalog.At(i), nil
}

func (r *MemoryRepo) List(ctx context.Context, keep func(Book) bool) ([]Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog.FilterBy(keep), nil
}

func (r *MemoryRepo) Update(ctx context.Context, id string, mutate func(*Book) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.catalog.FindIndexByID(id)
	if i < 0 {
		return ErrNotFound
	}
	b := r.catalog.At(i)
	if err := mutate(&b); err != nil {
		return err
	}
	r.catalog.ReplaceAt(i, b)
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.catalog.FindIndexByID(id)
	if i < 0 {
		return ErrNotFound
	}
	r.catalog.RemoveAt(i)
	return nil
}

func (r *MemoryRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog.Len(), nil
}
