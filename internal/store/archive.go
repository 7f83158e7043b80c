package store

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"vtuwallet/internal/db"
	"vtuwallet/internal/ledger"
	"vtuwallet/internal/subaccount"
)

// Archive mirrors committed wallet activity to Postgres. The in-memory ledger stays
// authoritative; each write lands in one serializable transaction with its audit row.
type Archive struct {
	runner      db.TxRunner
	entries     *EntryStore
	subAccounts *SubAccountStore
	audit       *AuditStore
}

func NewArchive(conn *sqlx.DB) *Archive {
	return newArchive(db.NewTxRunner(conn), conn)
}

func newArchive(runner db.TxRunner, conn DB) *Archive {
	return &Archive{
		runner:      runner,
		entries:     NewEntryStore(conn),
		subAccounts: NewSubAccountStore(conn),
		audit:       NewAuditStore(conn),
	}
}

// RecordEntry stores a new entry and, when the operation touched a sub-account, its new state.
func (a *Archive) RecordEntry(ctx context.Context, sessionID, action string, entry ledger.Entry, account *subaccount.SubAccount) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return a.runner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := a.entries.Insert(ctx, tx, sessionID, entry); err != nil {
			return err
		}
		if account != nil {
			if err := a.subAccounts.Upsert(ctx, tx, *account); err != nil {
				return err
			}
		}
		return a.audit.Log(ctx, tx, sessionID, action, "wallet_entry", entry.ID, string(data))
	})
}

func (a *Archive) RecordSettlement(ctx context.Context, sessionID string, entry ledger.Entry) error {
	return a.runner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := a.entries.UpdateStatus(ctx, tx, entry.ID, entry.Status); err != nil {
			return err
		}
		return a.audit.Log(ctx, tx, sessionID, "transaction.settle", "wallet_entry", entry.ID, `{"status":"`+string(entry.Status)+`"}`)
	})
}

func (a *Archive) RecordSubAccount(ctx context.Context, sessionID, action string, account subaccount.SubAccount) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return a.runner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := a.subAccounts.Upsert(ctx, tx, account); err != nil {
			return err
		}
		return a.audit.Log(ctx, tx, sessionID, action, "sub_account", account.ID, string(data))
	})
}

func (a *Archive) History(ctx context.Context, sessionID string, category ledger.Category, limit, offset int) ([]ArchivedEntry, error) {
	return a.entries.ListBySession(ctx, sessionID, category, limit, offset)
}

// Net is the archived balance movement for a session, excluding failed entries.
func (a *Archive) Net(ctx context.Context, sessionID string) (int64, error) {
	return a.entries.NetBySession(ctx, sessionID)
}

func (a *Archive) Audit(ctx context.Context, sessionID string, limit, offset int) ([]AuditRecord, error) {
	return a.audit.ListBySession(ctx, sessionID, limit, offset)
}
