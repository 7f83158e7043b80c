package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"testing"

	"vtuwallet/internal/ledger"
)

func TestEntryStoreInsertOmitsEmptyReference(t *testing.T) {
	ctx := context.Background()
	execer := execFunc(func(_ context.Context, query string, args ...any) (sql.Result, error) {
		if !strings.Contains(query, "ON CONFLICT (id) DO NOTHING") {
			t.Fatalf("unexpected query: %s", query)
		}
		if len(args) != 9 || args[0] != "e1" || args[1] != "s1" {
			t.Fatalf("unexpected args: %#v", args)
		}
		if ref, ok := args[6].(*string); !ok || ref != nil {
			t.Fatalf("expected nil reference, got %#v", args[6])
		}
		return driver.RowsAffected(1), nil
	})
	store := NewEntryStore(&fakeDB{})
	err := store.Insert(ctx, execer, "s1", ledger.Entry{ID: "e1", Category: ledger.CategoryAirtime, Amount: -100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEntryStoreListBySessionWithoutCategory(t *testing.T) {
	ctx := context.Background()
	store := NewEntryStore(&fakeDB{
		sel: func(_ context.Context, dest any, query string, args ...any) error {
			if strings.Contains(query, "AND category") {
				t.Fatalf("unexpected category filter: %s", query)
			}
			if !strings.Contains(query, "LIMIT $2 OFFSET $3") {
				t.Fatalf("unexpected paging: %s", query)
			}
			if len(args) != 3 || args[0] != "s1" || args[1] != 50 || args[2] != 10 {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]entryRow) = []entryRow{{ID: "e1", Category: "data", Metadata: "null"}}
			return nil
		},
	})
	rows, err := store.ListBySession(ctx, "s1", "", 50, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Category != ledger.CategoryData {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestEntryStoreListBySessionWithCategoryShiftsPaging(t *testing.T) {
	ctx := context.Background()
	store := NewEntryStore(&fakeDB{
		sel: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "AND category = $2") {
				t.Fatalf("missing category filter: %s", query)
			}
			if !strings.Contains(query, "LIMIT $3 OFFSET $4") {
				t.Fatalf("unexpected paging: %s", query)
			}
			if len(args) != 4 || args[1] != "airtime" || args[2] != 20 || args[3] != 0 {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]entryRow) = nil
			return nil
		},
	})
	rows, err := store.ListBySession(ctx, "s1", ledger.CategoryAirtime, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %#v", rows)
	}
}

func TestEntryStoreNetBySession(t *testing.T) {
	ctx := context.Background()
	store := NewEntryStore(&fakeDB{
		get: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "status <> 'failed'") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*int64) = -2500
			return nil
		},
	})
	net, err := store.NetBySession(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if net != -2500 {
		t.Fatalf("expected -2500, got %d", net)
	}
}

func TestEntryStoreDecodeError(t *testing.T) {
	_, err := entryRowsToEntries([]entryRow{{ID: "bad", Metadata: "{"}})
	if err == nil {
		t.Fatalf("expected decode error")
	}
}
