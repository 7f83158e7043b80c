package store

import (
	"context"
	"strings"
	"testing"

	"vtuwallet/internal/subaccount"
)

func TestSubAccountStoreUpsertOverwritesBalances(t *testing.T) {
	db := &fakeDB{}
	err := NewSubAccountStore(db).Upsert(context.Background(), db, subaccount.SubAccount{
		ID:             "card-1",
		Kind:           subaccount.KindVirtualCard,
		Currency:       "USD",
		SubBalance:     1000,
		TotalFunded:    1000,
		Status:         subaccount.StatusActive,
		OwnerLedgerRef: "session-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(db.executed) != 1 {
		t.Fatalf("expected one statement, got %d", len(db.executed))
	}
	if !strings.Contains(db.executed[0], "ON CONFLICT (id) DO UPDATE") {
		t.Fatalf("expected upsert, got %s", db.executed[0])
	}
}
