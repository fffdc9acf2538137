package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/camp-registration/internal/model"
)

// PurchaseRepo provides data access to the purchases table.  A purchase
// is one paid seat; ingestion creates the rows and the reminder sweep and
// registration submission advance their state.  All timestamps are UTC.
type PurchaseRepo struct {
	db *sql.DB
}

// NewPurchaseRepo returns a new PurchaseRepo bound to the given database.
func NewPurchaseRepo(db *sql.DB) *PurchaseRepo { return &PurchaseRepo{db: db} }

// DB exposes the underlying handle for transaction management.
func (r *PurchaseRepo) DB() *sql.DB { return r.db }

// PurchaseRecord mirrors the insertable columns of the purchases table.
// It is used by CreateBatchTx; business logic should use model.Purchase.
type PurchaseRecord struct {
	GuardianID        uint64
	CampID            uint64
	ProductID         *uint64
	AmountCents       uint32
	Currency          string
	RegistrationToken string
}

// CreateBatchTx inserts one purchase row per record within the provided
// transaction and returns the generated ids in input order.  Every row
// starts in the uninvited state.  Rows are inserted individually so the
// ids can be collected reliably; they still commit or roll back together
// with the rest of the ingestion transaction.
func (r *PurchaseRepo) CreateBatchTx(ctx context.Context, tx *sql.Tx, recs []PurchaseRecord) ([]uint64, error) {
	if len(recs) == 0 {
		return []uint64{}, nil
	}
	const q = `INSERT INTO purchases
	               (guardian_id, camp_id, product_id, amount_cents, currency, registration_token, registration_state)
	           VALUES (?, ?, ?, ?, ?, ?, 'uninvited')`
	ids := make([]uint64, 0, len(recs))
	for _, rec := range recs {
		var productID any
		if rec.ProductID != nil {
			productID = *rec.ProductID
		}
		result, err := tx.ExecContext(ctx, q,
			rec.GuardianID, rec.CampID, productID, rec.AmountCents, rec.Currency, rec.RegistrationToken)
		if err != nil {
			return nil, err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint64(id))
	}
	return ids, nil
}

// ListOpen returns purchases that are still progressing through the
// registration lifecycle: not completed and belonging to an active camp.
// The rows come joined with the guardian and camp columns the reminder
// sweep needs; cadence and cap evaluation is left to the service layer.
func (r *PurchaseRepo) ListOpen(ctx context.Context) ([]model.ReminderCandidate, error) {
	const q = `SELECT p.id, p.registration_token, p.registration_state,
	                  p.reminder_count, p.last_reminded_at, p.created_at,
	                  g.email, g.full_name,
	                  c.name, c.reminder_cadence_days, c.max_reminders
	           FROM purchases p
	           JOIN guardians g ON g.id = p.guardian_id
	           JOIN camps c ON c.id = p.camp_id
	           WHERE p.registration_state <> 'completed' AND c.status = 'active'
	           ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.ReminderCandidate, 0)
	for rows.Next() {
		var it model.ReminderCandidate
		var lastReminded sql.NullTime
		var cadence, maxRem sql.NullInt64
		if err := rows.Scan(
			&it.PurchaseID, &it.RegistrationToken, &it.RegistrationState,
			&it.ReminderCount, &lastReminded, &it.PurchasedAt,
			&it.GuardianEmail, &it.GuardianName,
			&it.CampName, &cadence, &maxRem,
		); err != nil {
			return nil, err
		}
		if lastReminded.Valid {
			t := lastReminded.Time
			it.LastRemindedAt = &t
		}
		if cadence.Valid {
			n := int(cadence.Int64)
			it.ReminderCadenceDays = &n
		}
		if maxRem.Valid {
			n := int(maxRem.Int64)
			it.MaxReminders = &n
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// MarkReminded records a successful reminder send for one purchase: the
// counter is incremented, the last-reminder timestamp is set and an
// uninvited purchase advances to invited.  The single UPDATE keeps the
// change atomic without an explicit transaction; completed purchases are
// never touched.
func (r *PurchaseRepo) MarkReminded(ctx context.Context, purchaseID uint64, at time.Time) error {
	const q = `UPDATE purchases
	           SET reminder_count = reminder_count + 1,
	               last_reminded_at = ?,
	               registration_state = IF(registration_state = 'uninvited', 'invited', registration_state)
	           WHERE id = ? AND registration_state <> 'completed'`
	result, err := r.db.ExecContext(ctx, q, at.UTC().Format("2006-01-02 15:04:05"), purchaseID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// PurchaseDetail is the guardian-facing view of a purchase, returned when
// a registration link is opened.  It deliberately exposes no internal
// identifiers beyond the purchase id.
type PurchaseDetail struct {
	ID                uint64  `json:"id"`
	RegistrationState string  `json:"registration_state"`
	AmountCents       uint32  `json:"amount_cents"`
	Currency          string  `json:"currency"`
	CampName          string  `json:"camp_name"`
	CampYear          int     `json:"camp_year"`
	ProductName       *string `json:"product_name,omitempty"`
	FormTemplate      *string `json:"form_template,omitempty"`
	GuardianName      string  `json:"guardian_name"`
	GuardianEmail     string  `json:"-"` // used for the confirmation email, never rendered
}

// GetByToken resolves a registration token to its purchase with the camp,
// product and guardian columns the registration page needs.  ErrNotFound
// is returned when the token does not exist.
func (r *PurchaseRepo) GetByToken(ctx context.Context, token string) (*PurchaseDetail, error) {
	const q = `SELECT p.id, p.registration_state, p.amount_cents, p.currency,
	                  c.name, c.year, pr.name, pr.form_template, g.full_name, g.email
	           FROM purchases p
	           JOIN camps c ON c.id = p.camp_id
	           JOIN guardians g ON g.id = p.guardian_id
	           LEFT JOIN products pr ON pr.id = p.product_id
	           WHERE p.registration_token = ?`
	var det PurchaseDetail
	var productName, formTemplate sql.NullString
	err := r.db.QueryRowContext(ctx, q, token).Scan(
		&det.ID, &det.RegistrationState, &det.AmountCents, &det.Currency,
		&det.CampName, &det.CampYear, &productName, &formTemplate, &det.GuardianName, &det.GuardianEmail,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if productName.Valid {
		n := productName.String
		det.ProductName = &n
	}
	if formTemplate.Valid {
		f := formTemplate.String
		det.FormTemplate = &f
	}
	return &det, nil
}

// CompleteTx moves a purchase to the completed state within the provided
// transaction.  The state guard keeps transitions forward-only: a
// purchase that is already completed is not updated and ErrConflict is
// returned so replayed submissions surface as invalid links.
func (r *PurchaseRepo) CompleteTx(ctx context.Context, tx *sql.Tx, purchaseID uint64) error {
	const q = `UPDATE purchases SET registration_state = 'completed'
	           WHERE id = ? AND registration_state <> 'completed'`
	result, err := tx.ExecContext(ctx, q, purchaseID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}
