package store

import (
	"context"

	"vtuwallet/internal/subaccount"
)

type SubAccountStore struct {
	db DB
}

func NewSubAccountStore(db DB) *SubAccountStore {
	return &SubAccountStore{db: db}
}

func (s *SubAccountStore) Upsert(ctx context.Context, tx Execer, account subaccount.SubAccount) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO sub_accounts (id, session_id, kind, label, currency, sub_balance, total_funded, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET sub_balance = EXCLUDED.sub_balance,
		    total_funded = EXCLUDED.total_funded,
		    status = EXCLUDED.status,
		    updated_at = now()
	`, account.ID, account.OwnerLedgerRef, string(account.Kind), account.Label, account.Currency,
		account.SubBalance, account.TotalFunded, string(account.Status), account.CreatedAt)
	return err
}
