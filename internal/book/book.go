package book

import (
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// TimestampLayout renders insertedAt/updatedAt with exactly three fractional
// digits in UTC, e.g. 2026-01-02T03:04:05.120Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	// ErrNotFound is returned when no book carries the requested id.
	ErrNotFound = errors.New("book not found")

	// ErrValidation is the parent of every client-side payload rule violation.
	ErrValidation      = errors.New("validation failed")
	ErrNameRequired    = fmt.Errorf("%w: name required", ErrValidation)
	ErrReadPageExceeds = fmt.Errorf("%w: readPage exceeds pageCount", ErrValidation)

	// ErrInvalidPayload is returned when the request body cannot be decoded.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrInsertFailed is returned when a freshly added book cannot be read back.
	ErrInsertFailed = errors.New("book insert could not be verified")
)

// Book represents a book record on the shelf.
type Book struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Year       int       `json:"year"`
	Author     string    `json:"author"`
	Summary    string    `json:"summary"`
	Publisher  string    `json:"publisher"`
	PageCount  int       `json:"pageCount"`
	ReadPage   int       `json:"readPage"`
	Reading    *bool     `json:"reading"`
	Finished   bool      `json:"finished"`
	InsertedAt time.Time `json:"insertedAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type bookJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Year       int    `json:"year"`
	Author     string `json:"author"`
	Summary    string `json:"summary"`
	Publisher  string `json:"publisher"`
	PageCount  int    `json:"pageCount"`
	ReadPage   int    `json:"readPage"`
	Reading    *bool  `json:"reading"`
	Finished   bool   `json:"finished"`
	InsertedAt string `json:"insertedAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// MarshalJSON writes the timestamps in TimestampLayout so their width never
// varies with trailing zeros.
func (b Book) MarshalJSON() ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(bookJSON{
		ID:         b.ID,
		Name:       b.Name,
		Year:       b.Year,
		Author:     b.Author,
		Summary:    b.Summary,
		Publisher:  b.Publisher,
		PageCount:  b.PageCount,
		ReadPage:   b.ReadPage,
		Reading:    b.Reading,
		Finished:   b.Finished,
		InsertedAt: b.InsertedAt.UTC().Format(TimestampLayout),
		UpdatedAt:  b.UpdatedAt.UTC().Format(TimestampLayout),
	})
}

// Summary is the list projection of a book.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Publisher string `json:"publisher"`
}

// Summarize projects b onto its list view.
func (b Book) Summarize() Summary {
	return Summary{ID: b.ID, Name: b.Name, Publisher: b.Publisher}
}

// Input carries the mutable fields accepted by create and update.
type Input struct {
	Name      string `json:"name" validate:"required"`
	Year      int    `json:"year"`
	Author    string `json:"author"`
	Summary   string `json:"summary"`
	Publisher string `json:"publisher"`
	PageCount int    `json:"pageCount"`
	ReadPage  int    `json:"readPage" validate:"ltefield=PageCount"`
	Reading   *bool  `json:"reading"`
}

// apply copies the mutable fields of in onto b.
func (in Input) apply(b *Book) {
	b.Name = in.Name
	b.Year = in.Year
	b.Author = in.Author
	b.Summary = in.Summary
	b.Publisher = in.Publisher
	b.PageCount = in.PageCount
	b.ReadPage = in.ReadPage
	b.Reading = in.Reading
}

// ListQuery holds the optional filters of GET /books. A nil field means the
// filter was not supplied.
type ListQuery struct {
	Name     *string
	Reading  *bool
	Finished *bool
}

// FilterMode selects how multiple list filters interact.
type FilterMode string

const (
	// FilterModeAll keeps books matching every supplied filter.
	FilterModeAll FilterMode = "all"
	// FilterModeLast re-filters the whole shelf per filter, in the order
	// name, reading, finished, so only the last supplied filter counts.
	FilterModeLast FilterMode = "last"
)

// ParseFilterMode maps a configuration value onto a FilterMode.
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(s) {
	case "", FilterModeAll:
		return FilterModeAll, nil
	case FilterModeLast:
		return FilterModeLast, nil
	default:
		return "", fmt.Errorf("unknown filter mode: %q", s)
	}
}
