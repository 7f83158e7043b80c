package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"vtuwallet/internal/ledger"
)

type EntryStore struct {
	db DB
}

type entryRow struct {
	ID        string    `db:"id"`
	SessionID string    `db:"session_id"`
	Category  string    `db:"category"`
	Amount    int64     `db:"amount"`
	Points    int64     `db:"points"`
	Status    string    `db:"status"`
	Reference *string   `db:"reference"`
	Metadata  string    `db:"metadata"`
	CreatedAt time.Time `db:"created_at"`
}

// ArchivedEntry is a ledger entry as mirrored to the database.
type ArchivedEntry struct {
	SessionID string `json:"session_id"`
	ledger.Entry
}

func NewEntryStore(db DB) *EntryStore {
	return &EntryStore{db: db}
}

// Insert is idempotent on the entry id so a retried archive write is harmless.
func (s *EntryStore) Insert(ctx context.Context, tx Execer, sessionID string, entry ledger.Entry) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	var reference *string
	if ref := entry.Reference(); ref != "" {
		reference = &ref
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO wallet_entries (id, session_id, category, amount, points, status, reference, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`, entry.ID, sessionID, string(entry.Category), entry.Amount, entry.Points, string(entry.Status), reference, string(metadata), entry.Timestamp)
	return err
}

func (s *EntryStore) UpdateStatus(ctx context.Context, tx Execer, entryID string, status ledger.Status) error {
	_, err := tx.ExecContext(ctx, `UPDATE wallet_entries SET status = $1 WHERE id = $2 AND status = 'pending'`, string(status), entryID)
	return err
}

func (s *EntryStore) ListBySession(ctx context.Context, sessionID string, category ledger.Category, limit, offset int) ([]ArchivedEntry, error) {
	var rows []entryRow
	query := `
		SELECT id, session_id, category, amount, points, status, reference, metadata, created_at
		FROM wallet_entries
		WHERE session_id = $1
	`
	args := []any{sessionID}
	param := 2
	if category != "" {
		query += " AND category = $2"
		args = append(args, string(category))
		param = 3
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT $" + strconv.Itoa(param) + " OFFSET $" + strconv.Itoa(param+1)
	args = append(args, limit, offset)
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return entryRowsToEntries(rows)
}

// NetBySession sums the non-failed amounts archived for a session.
func (s *EntryStore) NetBySession(ctx context.Context, sessionID string) (int64, error) {
	var sum int64
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0)
		FROM wallet_entries
		WHERE session_id = $1 AND status <> 'failed'
	`, sessionID)
	return sum, err
}

func entryRowsToEntries(rows []entryRow) ([]ArchivedEntry, error) {
	out := make([]ArchivedEntry, 0, len(rows))
	for _, row := range rows {
		var metadata map[string]string
		if row.Metadata != "" {
			if err := json.Unmarshal([]byte(row.Metadata), &metadata); err != nil {
				return nil, fmt.Errorf("decode metadata for %s: %w", row.ID, err)
			}
		}
		out = append(out, ArchivedEntry{
			SessionID: row.SessionID,
			Entry: ledger.Entry{
				ID:        row.ID,
				Category:  ledger.Category(row.Category),
				Amount:    row.Amount,
				Points:    row.Points,
				Status:    ledger.Status(row.Status),
				Timestamp: row.CreatedAt,
				Metadata:  metadata,
			},
		})
	}
	return out, nil
}
