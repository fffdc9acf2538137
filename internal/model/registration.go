package model

import "time"

// Registration holds the submitted form answers tied 1:1 to a completed
// purchase.  A registration is created exactly once, in the same
// transaction that moves its purchase to the completed state, and is
// never updated afterwards.
//
// Fields:
//  ID         – primary key identifier.
//  PurchaseID – purchase this registration completes (unique).
//  Answers    – submitted form answers, stored as JSON.
//  CreatedAt  – submission timestamp.
type Registration struct {
	ID         uint64         `json:"id"`          // registrations.id
	PurchaseID uint64         `json:"purchase_id"` // registrations.purchase_id
	Answers    map[string]any `json:"answers"`     // registrations.answers (JSON)
	CreatedAt  time.Time      `json:"created_at"`  // registrations.created_at
}
