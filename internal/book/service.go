package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// IDLength is the length of generated book ids.
const IDLength = 16

// Options tunes the behaviour of a Service.
type Options struct {
	FilterMode        FilterMode
	RecomputeFinished bool
	Logger            *slog.Logger
	Now               func() time.Time
	NewID             func() (string, error)
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		FilterMode:        FilterModeAll,
		RecomputeFinished: true,
	}
}

// Service provides book-related business logic.
type Service struct {
	repo              Repository
	filterMode        FilterMode
	recomputeFinished bool
	logger            *slog.Logger
	now               func() time.Time
	newID             func() (string, error)
}

// NewService creates a new book service.
func NewService(repo Repository, opts Options) *Service {
	s := &Service{
		repo:              repo,
		filterMode:        opts.FilterMode,
		recomputeFinished: opts.RecomputeFinished,
		logger:            opts.Logger,
		now:               opts.Now,
		newID:             opts.NewID,
	}
	if s.filterMode == "" {
		s.filterMode = FilterModeAll
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }
	}
	if s.newID == nil {
		s.newID = func() (string, error) { return gonanoid.New(IDLength) }
	}
	return s
}

// Create validates in, stores a new book and returns its id.
func (s *Service) Create(ctx context.Context, in Input) (string, error) {
	if err := Validate(in); err != nil {
		return "", err
	}

	id, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("generate book id: %w", err)
	}
	now := s.now()
	b := Book{
		ID:         id,
		Finished:   in.PageCount == in.ReadPage,
		InsertedAt: now,
		UpdatedAt:  now,
	}
	in.apply(&b)

	if err := s.repo.Add(ctx, b); err != nil {
		return "", fmt.Errorf("add book: %w", err)
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInsertFailed
		}
		return "", fmt.Errorf("verify book %s: %w", id, err)
	}

	s.logger.DebugContext(ctx, "book created", "book_id", id)
	return id, nil
}

// List returns the summaries of the books matching q.
func (s *Service) List(ctx context.Context, q ListQuery) ([]Summary, error) {
	var keep func(Book) bool
	if s.filterMode == FilterModeLast {
		keep = lastFilter(q)
	} else {
		keep = allFilters(q)
	}

	books, err := s.repo.List(ctx, keep)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(books))
	for _, b := range books {
		out = append(out, b.Summarize())
	}
	return out, nil
}

// GetByID returns a book by its id.
func (s *Service) GetByID(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Update replaces the mutable fields of the book with the given id. Payload
// errors take precedence over ErrNotFound.
func (s *Service) Update(ctx context.Context, id string, in Input) error {
	if err := Validate(in); err != nil {
		return err
	}

	now := s.now()
	err := s.repo.Update(ctx, id, func(b *Book) error {
		in.apply(b)
		if s.recomputeFinished {
			b.Finished = b.PageCount == b.ReadPage
		}
		b.UpdatedAt = now
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "book updated", "book_id", id)
	return nil
}

// Delete removes the book with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "book deleted", "book_id", id)
	return nil
}

func allFilters(q ListQuery) func(Book) bool {
	return func(b Book) bool {
		if q.Name != nil && b.Name != *q.Name {
			return false
		}
		if q.Reading != nil && !readingIs(b, *q.Reading) {
			return false
		}
		if q.Finished != nil && b.Finished != *q.Finished {
			return false
		}
		return true
	}
}

// lastFilter keeps only the last supplied filter in the order name, reading,
// finished; earlier ones are overwritten.
func lastFilter(q ListQuery) func(Book) bool {
	keep := func(Book) bool { return true }
	if q.Name != nil {
		name := *q.Name
		keep = func(b Book) bool { return b.Name == name }
	}
	if q.Reading != nil {
		reading := *q.Reading
		keep = func(b Book) bool { return readingIs(b, reading) }
	}
	if q.Finished != nil {
		finished := *q.Finished
		keep = func(b Book) bool { return b.Finished == finished }
	}
	return keep
}

// readingIs reports whether b declares the given reading state. Books created
// without a reading value match neither state.
func readingIs(b Book, want bool) bool {
	return b.Reading != nil && *b.Reading == want
}
