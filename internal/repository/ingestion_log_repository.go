package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/iliyamo/camp-registration/internal/model"
)

// IngestionLogRepo provides data access to the ingestion_logs table, the
// append-only audit trail of ingestion attempts.  Successful rows also
// populate the dedupe_key column, whose unique index is the authoritative
// guard against processing the same inbound email twice: concurrent
// duplicate deliveries race on the index instead of on an application
// level check-then-act sequence.
type IngestionLogRepo struct {
	db *sql.DB
}

// NewIngestionLogRepo returns a new IngestionLogRepo bound to the given
// database.
func NewIngestionLogRepo(db *sql.DB) *IngestionLogRepo { return &IngestionLogRepo{db: db} }

// FindSuccessByRawEmailID looks up a prior successful ingestion of the
// given raw email id.  It returns the recorded log row when one exists,
// or (nil, nil) when the email has not been processed yet.
func (r *IngestionLogRepo) FindSuccessByRawEmailID(ctx context.Context, rawEmailID string) (*model.IngestionLog, error) {
	const q = `SELECT id, raw_email_id, status, stage, message, guardian_id, purchase_ids, created_at
	           FROM ingestion_logs
	           WHERE dedupe_key = ? AND status = 'success'`
	var rec model.IngestionLog
	var guardianID sql.NullInt64
	var purchaseIDs sql.NullString
	err := r.db.QueryRowContext(ctx, q, rawEmailID).Scan(
		&rec.ID, &rec.RawEmailID, &rec.Status, &rec.Stage, &rec.Message,
		&guardianID, &purchaseIDs, &rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if guardianID.Valid {
		g := uint64(guardianID.Int64)
		rec.GuardianID = &g
	}
	if purchaseIDs.Valid && purchaseIDs.String != "" {
		if err := json.Unmarshal([]byte(purchaseIDs.String), &rec.PurchaseIDs); err != nil {
			return nil, err
		}
	}
	return &rec, nil
}

// InsertSuccessTx appends the success audit row for one ingestion within
// the provided transaction.  The dedupe_key unique index makes this
// insert the atomic idempotency guard: a concurrent duplicate delivery
// that raced past the lookup fails here with ErrDuplicateEvent and the
// whole transaction rolls back without creating a second purchase set.
func (r *IngestionLogRepo) InsertSuccessTx(ctx context.Context, tx *sql.Tx, rawEmailID string, guardianID uint64, purchaseIDs []uint64) error {
	idsJSON, err := json.Marshal(purchaseIDs)
	if err != nil {
		return err
	}
	const q = `INSERT INTO ingestion_logs (raw_email_id, dedupe_key, status, stage, message, guardian_id, purchase_ids)
	           VALUES (?, ?, 'success', 'done', 'processed', ?, ?)`
	if _, err := tx.ExecContext(ctx, q, rawEmailID, rawEmailID, guardianID, string(idsJSON)); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateEvent
		}
		return err
	}
	return nil
}

// InsertFailure appends a failure audit row outside any transaction.  The
// dedupe_key stays NULL so a later retry of the same email is free to
// succeed.  Failures here are best-effort: the caller logs and moves on.
func (r *IngestionLogRepo) InsertFailure(ctx context.Context, rawEmailID, stage, message string) error {
	const q = `INSERT INTO ingestion_logs (raw_email_id, status, stage, message)
	           VALUES (?, 'failure', ?, ?)`
	_, err := r.db.ExecContext(ctx, q, rawEmailID, stage, message)
	return err
}
