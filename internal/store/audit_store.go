package store

import (
	"context"
	"time"
)

type AuditStore struct {
	db DB
}

type auditRow struct {
	ID         string    `db:"id"`
	SessionID  string    `db:"session_id"`
	Action     string    `db:"action"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	Data       string    `db:"data"`
	CreatedAt  time.Time `db:"created_at"`
}

type AuditRecord struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Data       string    `json:"data"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewAuditStore(db DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Log(ctx context.Context, tx Execer, sessionID, action, entityType, entityID, data string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO audit_logs (id, session_id, action, entity_type, entity_id, data)
		VALUES (gen_random_uuid()::text, $1, $2, $3, $4, $5)
	`, sessionID, action, entityType, entityID, data)
	return err
}

func (s *AuditStore) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]AuditRecord, error) {
	var rows []auditRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, session_id, action, entity_type, entity_id, data, created_at
		FROM audit_logs
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	records := make([]AuditRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, AuditRecord{
			ID:         row.ID,
			Action:     row.Action,
			EntityType: row.EntityType,
			EntityID:   row.EntityID,
			Data:       row.Data,
			CreatedAt:  row.CreatedAt,
		})
	}
	return records, nil
}
