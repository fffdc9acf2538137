package model

import "time"

// Ingestion log statuses.
const (
	IngestionSuccess = "success"
	IngestionFailure = "failure"
)

// IngestionLog is an append‑only audit record of one ingestion attempt.
// Rows are never mutated after insert.  Successful rows carry the raw
// email identifier in a unique dedupe column, which is the authoritative
// guard against double‑processing of webhook retries; failure rows keep
// the identifier for diagnostics but stay outside the unique index so a
// later retry of the same email can still succeed.
//
// Fields:
//  ID          – primary key identifier.
//  RawEmailID  – message id of the inbound email (or a synthesized id).
//  Status      – success or failure.
//  Stage       – pipeline stage that produced the outcome (auth, parse,
//                resolve, persist, done).
//  Message     – human‑readable detail for operators.
//  GuardianID  – guardian created/reused on success (nullable).
//  PurchaseIDs – purchases created on success (nullable).
//  CreatedAt   – insert timestamp.
type IngestionLog struct {
	ID          uint64    `json:"id"`                     // ingestion_logs.id
	RawEmailID  string    `json:"raw_email_id"`           // ingestion_logs.raw_email_id
	Status      string    `json:"status"`                 // ingestion_logs.status
	Stage       string    `json:"stage"`                  // ingestion_logs.stage
	Message     string    `json:"message"`                // ingestion_logs.message
	GuardianID  *uint64   `json:"guardian_id,omitempty"`  // ingestion_logs.guardian_id (nullable)
	PurchaseIDs []uint64  `json:"purchase_ids,omitempty"` // ingestion_logs.purchase_ids (JSON, nullable)
	CreatedAt   time.Time `json:"created_at"`             // ingestion_logs.created_at
}
