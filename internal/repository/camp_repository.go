package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/camp-registration/internal/model"
)

// CampRepo provides read access to the camps table.  Camp rows are
// created through operational tooling outside this service; ingestion and
// the public listing only ever read them.
type CampRepo struct {
	db *sql.DB
}

// NewCampRepo returns a new CampRepo bound to the given database.
func NewCampRepo(db *sql.DB) *CampRepo { return &CampRepo{db: db} }

// ListActive returns all camps whose status is active, newest season
// first.  The resolver consumes this list when matching forwarded camp
// names; the public /v1/camps listing serves it directly.
func (r *CampRepo) ListActive(ctx context.Context) ([]model.Camp, error) {
	const q = `SELECT id, name, year, status, reminder_cadence_days, max_reminders, created_at
	           FROM camps
	           WHERE status = 'active'
	           ORDER BY year DESC, created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	camps := make([]model.Camp, 0)
	for rows.Next() {
		var c model.Camp
		var cadence, maxRem sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Name, &c.Year, &c.Status, &cadence, &maxRem, &c.CreatedAt); err != nil {
			return nil, err
		}
		if cadence.Valid {
			n := int(cadence.Int64)
			c.ReminderCadenceDays = &n
		}
		if maxRem.Valid {
			n := int(maxRem.Int64)
			c.MaxReminders = &n
		}
		camps = append(camps, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return camps, nil
}

// GetByID returns a camp by primary key.  ErrNotFound is returned when no
// row exists.
func (r *CampRepo) GetByID(ctx context.Context, id uint64) (*model.Camp, error) {
	const q = `SELECT id, name, year, status, reminder_cadence_days, max_reminders, created_at
	           FROM camps WHERE id = ?`
	var c model.Camp
	var cadence, maxRem sql.NullInt64
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Year, &c.Status, &cadence, &maxRem, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if cadence.Valid {
		n := int(cadence.Int64)
		c.ReminderCadenceDays = &n
	}
	if maxRem.Valid {
		n := int(maxRem.Int64)
		c.MaxReminders = &n
	}
	return &c, nil
}
