package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/camp-registration/internal/model"
)

// IngestionInsert describes the durable outcome of one successfully
// parsed and resolved inbound email: the guardian to upsert and the
// purchase rows to create.  Tokens must contain one pre-generated
// registration token per unit.
type IngestionInsert struct {
	RawEmailID       string   // idempotency key recorded in the audit log
	GuardianEmail    string   // buyer email, normalized by the guardian repo
	GuardianName     string   // buyer name or the Unknown sentinel
	CampID           uint64   // resolved camp
	Quantity         int      // number of purchase rows to create
	AmountCentsTotal uint32   // total amount across all units, in cents
	Currency         string   // ISO 4217 code for every row
	Tokens           []string // one registration token per unit
}

// IngestionCreated reports the rows created by CreatePurchases.
type IngestionCreated struct {
	GuardianID  uint64
	PurchaseIDs []uint64
}

// Store bundles the repositories behind the service-layer interfaces and
// owns the transaction that makes one ingestion event all-or-nothing.
type Store struct {
	db            *sql.DB
	Guardians     *GuardianRepo
	Camps         *CampRepo
	Products      *ProductRepo
	Purchases     *PurchaseRepo
	Logs          *IngestionLogRepo
	Registrations *RegistrationRepo
}

// NewStore constructs a Store with one repository per table bound to the
// given database.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:            db,
		Guardians:     NewGuardianRepo(db),
		Camps:         NewCampRepo(db),
		Products:      NewProductRepo(db),
		Purchases:     NewPurchaseRepo(db),
		Logs:          NewIngestionLogRepo(db),
		Registrations: NewRegistrationRepo(db),
	}
}

// DB exposes the underlying handle for handlers that manage their own
// transactions (registration submission).
func (s *Store) DB() *sql.DB { return s.db }

// ListActiveCamps returns all active camps for the resolver.
func (s *Store) ListActiveCamps(ctx context.Context) ([]model.Camp, error) {
	return s.Camps.ListActive(ctx)
}

// FindProcessed returns the success audit row previously recorded for the
// raw email id, or nil when the email has not been processed.
func (s *Store) FindProcessed(ctx context.Context, rawEmailID string) (*model.IngestionLog, error) {
	return s.Logs.FindSuccessByRawEmailID(ctx, rawEmailID)
}

// CreatePurchases executes the ingestion write as one transaction:
// guardian upsert, purchase inserts and the success audit row either all
// commit or all roll back.  The audit row's unique dedupe index is the
// final guard; a concurrent duplicate delivery surfaces here as
// ErrDuplicateEvent with nothing written.
//
// The total amount is split evenly across units, with any remainder cents
// carried by the first row so the per-row amounts always sum back to the
// total.
func (s *Store) CreatePurchases(ctx context.Context, ins IngestionInsert) (*IngestionCreated, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	guardianID, err := s.Guardians.UpsertByEmailTx(ctx, tx, ins.GuardianEmail, ins.GuardianName)
	if err != nil {
		return nil, err
	}
	productID, err := s.Products.DefaultForCampTx(ctx, tx, ins.CampID)
	if err != nil {
		return nil, err
	}

	unit := ins.AmountCentsTotal / uint32(ins.Quantity)
	first := ins.AmountCentsTotal - unit*uint32(ins.Quantity-1)
	recs := make([]PurchaseRecord, 0, ins.Quantity)
	for i := 0; i < ins.Quantity; i++ {
		amount := unit
		if i == 0 {
			amount = first
		}
		recs = append(recs, PurchaseRecord{
			GuardianID:        guardianID,
			CampID:            ins.CampID,
			ProductID:         productID,
			AmountCents:       amount,
			Currency:          ins.Currency,
			RegistrationToken: ins.Tokens[i],
		})
	}
	purchaseIDs, err := s.Purchases.CreateBatchTx(ctx, tx, recs)
	if err != nil {
		return nil, err
	}
	if err := s.Logs.InsertSuccessTx(ctx, tx, ins.RawEmailID, guardianID, purchaseIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &IngestionCreated{GuardianID: guardianID, PurchaseIDs: purchaseIDs}, nil
}

// RecordFailure appends a failure row to the audit log.
func (s *Store) RecordFailure(ctx context.Context, rawEmailID, stage, message string) error {
	return s.Logs.InsertFailure(ctx, rawEmailID, stage, message)
}

// ListOpenPurchases returns reminder candidates: purchases not yet
// completed whose camp is still active.
func (s *Store) ListOpenPurchases(ctx context.Context) ([]model.ReminderCandidate, error) {
	return s.Purchases.ListOpen(ctx)
}

// MarkReminded records one successful reminder send.
func (s *Store) MarkReminded(ctx context.Context, purchaseID uint64, at time.Time) error {
	return s.Purchases.MarkReminded(ctx, purchaseID, at)
}
