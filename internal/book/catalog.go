package book

// Catalog is the ordered, in-memory sequence of books. It performs no locking;
// callers that share a Catalog across goroutines must serialize access.
type Catalog struct {
	books []Book
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Add appends b. Id uniqueness is the caller's responsibility.
func (c *Catalog) Add(b Book) {
	c.books = append(c.books, b)
}

// FindIndexByID returns the position of the book with the given id, or -1.
func (c *Catalog) FindIndexByID(id string) int {
	for i := range c.books {
		if c.books[i].ID == id {
			return i
		}
	}
	return -1
}

// At returns the book stored at index i.
func (c *Catalog) At(i int) Book {
	return c.books[i]
}

// ReplaceAt overwrites the book stored at index i.
func (c *Catalog) ReplaceAt(i int, b Book) {
	c.books[i] = b
}

// RemoveAt deletes the book at index i, keeping the order of the rest.
func (c *Catalog) RemoveAt(i int) {
	c.books = append(c.books[:i], c.books[i+1:]...)
}

// FilterBy returns, in insertion order, a copy of every book accepted by keep.
func (c *Catalog) FilterBy(keep func(Book) bool) []Book {
	out := make([]Book, 0, len(c.books))
	for _, b := range c.books {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// Len reports the number of stored books.
func (c *Catalog) Len() int {
	return len(c.books)
}
