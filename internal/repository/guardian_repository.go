package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/camp-registration/internal/model"
)

// GuardianRepo provides data access to the guardians table.  Guardians
// are keyed by their lower-cased email address, which carries a unique
// index; the repository normalizes addresses on every write and lookup so
// callers never have to worry about case.
type GuardianRepo struct {
	db *sql.DB
}

// NewGuardianRepo returns a new GuardianRepo bound to the given database.
func NewGuardianRepo(db *sql.DB) *GuardianRepo { return &GuardianRepo{db: db} }

// DB exposes the underlying handle for transaction management.
func (r *GuardianRepo) DB() *sql.DB { return r.db }

// UpsertByEmailTx creates the guardian for the given email or reuses the
// existing row, returning its id.  The LAST_INSERT_ID(id) trick makes the
// duplicate-key path report the id of the existing row, so one statement
// covers both cases.  A real name never gets downgraded back to the
// "Unknown" sentinel by a later nameless purchase.
func (r *GuardianRepo) UpsertByEmailTx(ctx context.Context, tx *sql.Tx, email, fullName string) (uint64, error) {
	norm := strings.ToLower(strings.TrimSpace(email))
	const q = `INSERT INTO guardians (email, full_name) VALUES (?, ?)
	           ON DUPLICATE KEY UPDATE
	               id = LAST_INSERT_ID(id),
	               full_name = IF(VALUES(full_name) = ?, full_name, VALUES(full_name))`
	result, err := tx.ExecContext(ctx, q, norm, fullName, model.UnknownGuardianName)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID returns a guardian by primary key.  ErrNotFound is returned
// when no row exists.
func (r *GuardianRepo) GetByID(ctx context.Context, id uint64) (*model.Guardian, error) {
	const q = `SELECT id, email, full_name, created_at, updated_at FROM guardians WHERE id = ?`
	var g model.Guardian
	err := r.db.QueryRowContext(ctx, q, id).Scan(&g.ID, &g.Email, &g.FullName, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}
