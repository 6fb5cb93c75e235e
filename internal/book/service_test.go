package book

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func sequentialIDs() func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("book-%011d", n), nil
	}
}

func newTestService(repo Repository, mode FilterMode, recompute bool) (*Service, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)}
	svc := NewService(repo, Options{
		FilterMode:        mode,
		RecomputeFinished: recompute,
		Now:               clock.Now,
		NewID:             sequentialIDs(),
	})
	return svc, clock
}

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func validInput() Input {
	return Input{
		Name:      "A",
		Year:      2020,
		Author:    "x",
		Summary:   "s",
		Publisher: "p",
		PageCount: 100,
		ReadPage:  100,
		Reading:   boolPtr(false),
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("valid book is stored and finished is derived", func(t *testing.T) {
		repo := NewMemoryRepo()
		svc, clock := newTestService(repo, FilterModeAll, true)

		id, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
		assert.Len(t, id, IDLength)

		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.Finished)
		assert.Equal(t, "A", got.Name)
		assert.Equal(t, clock.now, got.InsertedAt)
		assert.Equal(t, got.InsertedAt, got.UpdatedAt)
	})

	t.Run("unfinished when readPage is below pageCount", func(t *testing.T) {
		repo := NewMemoryRepo()
		svc, _ := newTestService(repo, FilterModeAll, true)
		in := validInput()
		in.ReadPage = 10

		id, err := svc.Create(ctx, in)
		require.NoError(t, err)
		got, _ := repo.GetByID(ctx, id)
		assert.False(t, got.Finished)
	})

	t.Run("absent reading is stored as-is", func(t *testing.T) {
		repo := NewMemoryRepo()
		svc, _ := newTestService(repo, FilterModeAll, true)
		in := validInput()
		in.Reading = nil

		id, err := svc.Create(ctx, in)
		require.NoError(t, err)
		got, _ := repo.GetByID(ctx, id)
		assert.Nil(t, got.Reading)
	})

	tests := []struct {
		name    string
		mutate  func(*Input)
		wantErr error
	}{
		{"empty name", func(in *Input) { in.Name = "" }, ErrNameRequired},
		{"readPage exceeds pageCount", func(in *Input) { in.ReadPage, in.PageCount = 150, 100 }, ErrReadPageExceeds},
		{"empty name wins over readPage", func(in *Input) { in.Name, in.ReadPage = "", 150 }, ErrNameRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMemoryRepo()
			svc, _ := newTestService(repo, FilterModeAll, true)
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Create(ctx, in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)

			n, _ := repo.Count(ctx)
			assert.Zero(t, n)
		})
	}
}

func TestService_CreateWithDefaultIDGenerator(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	svc := NewService(repo, DefaultOptions())

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
		assert.Len(t, id, IDLength)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestService_CreateVerification(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("insert not visible", func(t *testing.T) {
		mockRepo := NewMockRepository(ctrl)
		svc, _ := newTestService(mockRepo, FilterModeAll, true)

		mockRepo.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil)
		mockRepo.EXPECT().GetByID(gomock.Any(), "book-00000000001").Return(Book{}, ErrNotFound)

		_, err := svc.Create(ctx, validInput())
		assert.ErrorIs(t, err, ErrInsertFailed)
	})

	t.Run("add fails", func(t *testing.T) {
		mockRepo := NewMockRepository(ctrl)
		svc, _ := newTestService(mockRepo, FilterModeAll, true)

		mockRepo.EXPECT().Add(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded)

		_, err := svc.Create(ctx, validInput())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotErrorIs(t, err, ErrInsertFailed)
	})

	t.Run("id generator fails", func(t *testing.T) {
		mockRepo := NewMockRepository(ctrl)
		svc := NewService(mockRepo, Options{
			NewID: func() (string, error) { return "", errors.New("entropy exhausted") },
		})

		_, err := svc.Create(ctx, validInput())
		assert.Error(t, err)
	})
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	svc, _ := newTestService(repo, FilterModeAll, true)

	id, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, 2020, got.Year)
	assert.Equal(t, got.InsertedAt, got.UpdatedAt)

	_, err = svc.GetByID(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces mutable fields and advances updatedAt", func(t *testing.T) {
		repo := NewMemoryRepo()
		svc, clock := newTestService(repo, FilterModeAll, true)
		id, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
		before, _ := repo.GetByID(ctx, id)

		clock.Advance(time.Minute)
		in := Input{
			Name:      "B",
			Year:      2021,
			Author:    "y",
			Summary:   "t",
			Publisher: "q",
			PageCount: 200,
			ReadPage:  50,
			Reading:   boolPtr(true),
		}
		require.NoError(t, svc.Update(ctx, id, in))

		after, _ := repo.GetByID(ctx, id)
		assert.Equal(t, before.ID, after.ID)
		assert.Equal(t, before.InsertedAt, after.InsertedAt)
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
		assert.Equal(t, "B", after.Name)
		assert.Equal(t, 2021, after.Year)
		assert.Equal(t, "y", after.Author)
		assert.Equal(t, "t", after.Summary)
		assert.Equal(t, "q", after.Publisher)
		assert.Equal(t, 200, after.PageCount)
		assert.Equal(t, 50, after.ReadPage)
		assert.True(t, *after.Reading)
		assert.False(t, after.Finished)
	})

	t.Run("finished snapshot kept when recompute is off", func(t *testing.T) {
		repo := NewMemoryRepo()
		svc, _ := newTestService(repo, FilterModeAll, false)
		in := validInput()
		in.ReadPage = 10
		id, err := svc.Create(ctx, in)
		require.NoError(t, err)

		in.ReadPage = in.PageCount
		require.NoError(t, svc.Update(ctx, id, in))

		got, _ := repo.GetByID(ctx, id)
		assert.False(t, got.Finished)
	})

	t.Run("finished recomputed by default", func(t *testing.T) {
		repo := NewMemoryRepo()
		svc, _ := newTestService(repo, FilterModeAll, true)
		in := validInput()
		in.ReadPage = 10
		id, err := svc.Create(ctx, in)
		require.NoError(t, err)

		in.ReadPage = in.PageCount
		require.NoError(t, svc.Update(ctx, id, in))

		got, _ := repo.GetByID(ctx, id)
		assert.True(t, got.Finished)
	})

	tests := []struct {
		name    string
		id      string
		mutate  func(*Input)
		wantErr error
	}{
		{"unknown id", "nope", func(*Input) {}, ErrNotFound},
		{"empty name beats unknown id", "nope", func(in *Input) { in.Name = "" }, ErrNameRequired},
		{"readPage beats unknown id", "nope", func(in *Input) { in.ReadPage = 500 }, ErrReadPageExceeds},
		{"empty name beats readPage", "nope", func(in *Input) { in.Name, in.ReadPage = "", 500 }, ErrNameRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(NewMemoryRepo(), FilterModeAll, true)
			in := validInput()
			tt.mutate(&in)
			assert.ErrorIs(t, svc.Update(ctx, tt.id, in), tt.wantErr)
		})
	}
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	svc, _ := newTestService(repo, FilterModeAll, true)

	keep, _ := svc.Create(ctx, validInput())
	drop, _ := svc.Create(ctx, validInput())

	require.NoError(t, svc.Delete(ctx, drop))
	assert.ErrorIs(t, svc.Delete(ctx, drop), ErrNotFound)

	n, _ := repo.Count(ctx)
	assert.Equal(t, 1, n)
	_, err := repo.GetByID(ctx, keep)
	assert.NoError(t, err)
}

// shelf creates three books:
//
//	X   reading   finished
//	X   idle      unfinished
//	Y   reading   unfinished
func shelf(t *testing.T, svc *Service) (xReadingDone, xIdle, yReading string) {
	t.Helper()
	ctx := context.Background()

	create := func(name string, reading bool, read int) string {
		in := validInput()
		in.Name = name
		in.Reading = boolPtr(reading)
		in.ReadPage = read
		id, err := svc.Create(ctx, in)
		require.NoError(t, err)
		return id
	}
	xReadingDone = create("X", true, 100)
	xIdle = create("X", false, 10)
	yReading = create("Y", true, 10)
	return
}

func summaryIDs(s []Summary) []string {
	out := make([]string, 0, len(s))
	for _, b := range s {
		out = append(out, b.ID)
	}
	return out
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(NewMemoryRepo(), FilterModeAll, true)
	a, b, c := shelf(t, svc)

	tests := []struct {
		name  string
		query ListQuery
		want  []string
	}{
		{"no filters", ListQuery{}, []string{a, b, c}},
		{"name exact", ListQuery{Name: strPtr("X")}, []string{a, b}},
		{"name is not substring", ListQuery{Name: strPtr("x")}, []string{}},
		{"reading", ListQuery{Reading: boolPtr(true)}, []string{a, c}},
		{"not reading", ListQuery{Reading: boolPtr(false)}, []string{b}},
		{"finished", ListQuery{Finished: boolPtr(true)}, []string{a}},
		{"unfinished", ListQuery{Finished: boolPtr(false)}, []string{b, c}},
		{"name and reading combine", ListQuery{Name: strPtr("X"), Reading: boolPtr(true)}, []string{a}},
		{"all three combine", ListQuery{Name: strPtr("Y"), Reading: boolPtr(true), Finished: boolPtr(true)}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, summaryIDs(got))
		})
	}
}

func TestService_ListLastFilterWins(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(NewMemoryRepo(), FilterModeLast, true)
	a, b, c := shelf(t, svc)

	tests := []struct {
		name  string
		query ListQuery
		want  []string
	}{
		{"name only", ListQuery{Name: strPtr("X")}, []string{a, b}},
		{"reading overrides name", ListQuery{Name: strPtr("X"), Reading: boolPtr(true)}, []string{a, c}},
		{"finished overrides reading", ListQuery{Reading: boolPtr(false), Finished: boolPtr(false)}, []string{b, c}},
		{"finished overrides everything", ListQuery{Name: strPtr("Y"), Reading: boolPtr(true), Finished: boolPtr(true)}, []string{a}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, summaryIDs(got))
		})
	}
}

func TestService_ListProjection(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc, _ := newTestService(mockRepo, FilterModeAll, true)

	mockRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return([]Book{
		{ID: "1", Name: "One", Publisher: "P", Author: "hidden"},
	}, nil)

	got, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, []Summary{{ID: "1", Name: "One", Publisher: "P"}}, got)
}

func TestParseFilterMode(t *testing.T) {
	mode, err := ParseFilterMode("")
	require.NoError(t, err)
	assert.Equal(t, FilterModeAll, mode)

	mode, err = ParseFilterMode("last")
	require.NoError(t, err)
	assert.Equal(t, FilterModeLast, mode)

	_, err = ParseFilterMode("first")
	assert.Error(t, err)
}
