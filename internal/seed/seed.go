// Package seed fills a fresh shelf with generated sample books.
package seed

import (
	"context"
	"fmt"
	"math/rand"

	"bookshelf/internal/book"
)

var (
	publishers = []string{"Penguin", "HarperCollins", "Oxford", "Cambridge", "MIT Press", "Springer", "Wiley", "Elsevier"}
	authors    = []string{"Tere Liye", "Andrea Hirata", "Pramoedya Ananta Toer", "Dee Lestari", "Eka Kurniawan", "Ursula K. Le Guin"}
	words      = []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
)

// Books creates count random books through svc and returns their ids.
func Books(ctx context.Context, svc *book.Service, rng *rand.Rand, count int) ([]string, error) {
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		id, err := svc.Create(ctx, Input(rng, i))
		if err != nil {
			return ids, fmt.Errorf("seed book %d: %w", i+1, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Input generates the i-th sample payload. Roughly a quarter of the books come
// out finished.
func Input(rng *rand.Rand, i int) book.Input {
	pages := 100 + rng.Intn(800)
	read := rng.Intn(pages + 1)
	if rng.Intn(4) == 0 {
		read = pages
	}
	reading := read > 0 && read < pages

	return book.Input{
		Name:      fmt.Sprintf("Book Title %d - %s", i+1, pick(rng, words)),
		Year:      1950 + rng.Intn(75),
		Author:    pick(rng, authors),
		Summary:   fmt.Sprintf("This is a book about %s.", pick(rng, words)),
		Publisher: pick(rng, publishers),
		PageCount: pages,
		ReadPage:  read,
		Reading:   &reading,
	}
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.Intn(len(from))]
}
