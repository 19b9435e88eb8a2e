package memory

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/shelfsync/book-catalog/internal/core/domain"
)

func ids(books []domain.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func mustList(t *testing.T, r *BookRepository) []domain.Book {
	t.Helper()
	books, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	return books
}

func TestBookRepository_SeedKeepsOrderAndFirstPosition(t *testing.T) {
	r := NewBookRepository([]domain.Book{
		{ID: "b", Title: "B"},
		{ID: "a", Title: "A"},
		{ID: "b", Title: "B2"},
	})

	books := mustList(t, r)
	if got, want := ids(books), []string{"b", "a"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	if books[0].Title != "B2" {
		t.Fatalf("later seed entry should win, got %q", books[0].Title)
	}
}

func TestBookRepository_InsertAppends(t *testing.T) {
	r := NewBookRepository([]domain.Book{{ID: "1"}, {ID: "2"}})
	ctx := context.Background()

	for _, id := range []string{"9", "3"} {
		if err := r.Insert(ctx, domain.Book{ID: id}); err != nil {
			t.Fatalf("Insert(%s) returned error: %v", id, err)
		}
	}
	if got, want := ids(mustList(t, r)), []string{"1", "2", "9", "3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
}

func TestBookRepository_InsertDuplicateID(t *testing.T) {
	r := NewBookRepository([]domain.Book{{ID: "1", Title: "Dune"}, {ID: "2", Title: "Hobbit"}})

	err := r.Insert(context.Background(), domain.Book{ID: "1", Title: "Other"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	books := mustList(t, r)
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}
	if books[0].Title != "Dune" {
		t.Fatalf("existing book overwritten: %+v", books[0])
	}
}

func TestBookRepository_ReplaceKeepsPosition(t *testing.T) {
	r := NewBookRepository([]domain.Book{{ID: "1"}, {ID: "2", Title: "Hobbit"}, {ID: "3"}})

	if err := r.Replace(context.Background(), domain.Book{ID: "2", Title: "The Hobbit"}); err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	books := mustList(t, r)
	if got, want := ids(books), []string{"1", "2", "3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	if books[1].Title != "The Hobbit" {
		t.Fatalf("title = %q, want %q", books[1].Title, "The Hobbit")
	}
}

func TestBookRepository_UnknownID(t *testing.T) {
	r := NewBookRepository([]domain.Book{{ID: "1"}})
	ctx := context.Background()

	if err := r.Replace(ctx, domain.Book{ID: "999"}); !errors.Is(err, domain.ErrBookNotFound) {
		t.Errorf("Replace: expected ErrBookNotFound, got %v", err)
	}
	if err := r.Delete(ctx, "999"); !errors.Is(err, domain.ErrBookNotFound) {
		t.Errorf("Delete: expected ErrBookNotFound, got %v", err)
	}
	if got := ids(mustList(t, r)); !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("ids = %v, want [1]", got)
	}
}

func TestBookRepository_DeleteThenReinsert(t *testing.T) {
	r := NewBookRepository([]domain.Book{{ID: "1"}, {ID: "2"}, {ID: "3"}})
	ctx := context.Background()

	if err := r.Delete(ctx, "2"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := r.Delete(ctx, "2"); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("second Delete: expected ErrBookNotFound, got %v", err)
	}
	if err := r.Insert(ctx, domain.Book{ID: "2"}); err != nil {
		t.Fatalf("Insert after delete returned error: %v", err)
	}
	if got, want := ids(mustList(t, r)), []string{"1", "3", "2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
}

func TestBookRepository_ListIsCopy(t *testing.T) {
	r := NewBookRepository([]domain.Book{{ID: "1", Title: "Dune"}})

	books := mustList(t, r)
	books[0].Title = "mutated"

	if got := mustList(t, r)[0].Title; got != "Dune" {
		t.Fatalf("stored book changed through List result: %q", got)
	}
}

func TestBookRepository_ConcurrentInserts(t *testing.T) {
	r := NewBookRepository(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := r.Insert(ctx, domain.Book{ID: string(rune('A' + i))}); err != nil {
				t.Errorf("Insert returned error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if n := len(mustList(t, r)); n != 50 {
		t.Fatalf("expected 50 books, got %d", n)
	}
}
