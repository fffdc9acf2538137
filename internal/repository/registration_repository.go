package repository

import (
	"context"
	"database/sql"
	"encoding/json"
)

// RegistrationRepo provides data access to the registrations table.  A
// registration stores the submitted form answers for exactly one
// purchase; the unique index on purchase_id enforces the 1:1 invariant
// at the storage layer.
type RegistrationRepo struct {
	db *sql.DB
}

// NewRegistrationRepo returns a new RegistrationRepo bound to the given
// database.
func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

// CreateTx inserts the registration row for a purchase within the
// provided transaction.  Answers are stored as JSON.  A duplicate
// submission collides with the unique purchase_id index and surfaces as
// ErrConflict; together with the state guard in PurchaseRepo.CompleteTx
// this keeps registrations create-once.
func (r *RegistrationRepo) CreateTx(ctx context.Context, tx *sql.Tx, purchaseID uint64, answers map[string]any) error {
	payload, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	const q = `INSERT INTO registrations (purchase_id, answers) VALUES (?, ?)`
	if _, err := tx.ExecContext(ctx, q, purchaseID, string(payload)); err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}
