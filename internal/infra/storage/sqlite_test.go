package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"exchange_chat/internal/domain"
)

func setupTestDB(t *testing.T) *Storage {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := NewStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestRecordAndList(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	rec := domain.AuditRecord{
		Time:      time.Now(),
		Requester: "Jane Doe",
		Command:   "exchange 2 usd",
		Result:    `[{"date":"01.12.2014"}]`,
		Reply:     "01.12.2014: USD - sale: 15.7; purchase: 15.35; ",
	}

	// 1. Create
	if err := s.Record(ctx, rec); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// 2. Get
	entries, err := s.ListByRequester(ctx, "Jane Doe")
	if err != nil {
		t.Fatalf("ListByRequester failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Command != "exchange 2 usd" || entries[0].Reply != rec.Reply {
		t.Errorf("unexpected entry %+v", entries[0])
	}
}

func TestListByRequester_Filters(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	s.Record(ctx, domain.AuditRecord{Time: time.Now(), Requester: "A", Command: "exchange"})
	s.Record(ctx, domain.AuditRecord{Time: time.Now(), Requester: "B", Command: "exchange 3"})
	s.Record(ctx, domain.AuditRecord{Time: time.Now(), Requester: "A", Command: "exchange 11"})

	entries, err := s.ListByRequester(ctx, "A")
	if err != nil {
		t.Fatalf("ListByRequester failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for A, got %d", len(entries))
	}
	if entries[0].Command != "exchange" || entries[1].Command != "exchange 11" {
		t.Errorf("entries out of order: %q, %q", entries[0].Command, entries[1].Command)
	}
}

func TestRecent(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	for _, cmd := range []string{"exchange 1", "exchange 2", "exchange 3"} {
		if err := s.Record(ctx, domain.AuditRecord{Time: time.Now(), Requester: "A", Command: cmd}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	recent, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].Command != "exchange 3" {
		t.Errorf("expected newest first, got %q", recent[0].Command)
	}
}
