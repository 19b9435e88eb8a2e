package memory

import (
	"context"
	"testing"

	"github.com/shelfsync/book-catalog/internal/core/domain"
)

func TestAuditRepository_EventsIsCopy(t *testing.T) {
	r := NewAuditRepository()
	ctx := context.Background()

	for _, a := range []domain.BookAction{domain.ActionCreated, domain.ActionDeleted} {
		if err := r.InsertEvent(ctx, domain.BookEvent{BookID: "1", Action: a}); err != nil {
			t.Fatalf("InsertEvent returned error: %v", err)
		}
	}

	events := r.Events()
	if len(events) != 2 || events[1].Action != domain.ActionDeleted {
		t.Fatalf("unexpected events: %+v", events)
	}
	events[0].BookID = "mutated"
	if r.Events()[0].BookID != "1" {
		t.Fatal("stored event changed through Events result")
	}
}
