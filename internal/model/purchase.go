package model

import "time"

// Registration lifecycle states for a purchase.  Transitions only move
// forward (uninvited -> invited -> completed) and completed is terminal.
const (
	StateUninvited = "uninvited"
	StateInvited   = "invited"
	StateCompleted = "completed"
)

// Purchase is the central transactional record: one paid seat tied to a
// guardian, camp and (optionally) product.  Ingestion creates one row per
// purchased unit, each with its own registration token, so reminders and
// registration submission operate per seat.
//
// The registration token is a random hex capability string embedded in the
// guardian‑facing registration link.  It is unique and stable for the
// lifetime of the purchase.
//
// Fields:
//  ID                – primary key identifier.
//  GuardianID        – guardian who made the purchase.
//  CampID            – camp the seat belongs to.
//  ProductID         – default product of the camp at ingestion time (nullable).
//  AmountCents       – amount paid for this seat in cents.
//  Currency          – ISO 4217 currency code.
//  RegistrationToken – unique capability token for the registration link.
//  RegistrationState – uninvited, invited or completed.
//  ReminderCount     – number of reminder emails sent so far.
//  LastRemindedAt    – timestamp of the most recent reminder (nullable).
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Purchase struct {
	ID                uint64     `json:"id"`                       // purchases.id
	GuardianID        uint64     `json:"guardian_id"`              // purchases.guardian_id
	CampID            uint64     `json:"camp_id"`                  // purchases.camp_id
	ProductID         *uint64    `json:"product_id,omitempty"`     // purchases.product_id (nullable)
	AmountCents       uint32     `json:"amount_cents"`             // purchases.amount_cents
	Currency          string     `json:"currency"`                 // purchases.currency
	RegistrationToken string     `json:"registration_token"`       // purchases.registration_token
	RegistrationState string     `json:"registration_state"`       // purchases.registration_state
	ReminderCount     int        `json:"reminder_count"`           // purchases.reminder_count
	LastRemindedAt    *time.Time `json:"last_reminded_at,omitempty"` // purchases.last_reminded_at (nullable)
	CreatedAt         time.Time  `json:"created_at"`               // purchases.created_at
	UpdatedAt         time.Time  `json:"updated_at"`               // purchases.updated_at
}

// ReminderCandidate is a purchase row joined with the guardian and camp
// columns the reminder sweep needs.  The repository pre‑filters out
// completed purchases and inactive camps; cadence and cap evaluation
// happens in the service layer so the policy stays unit‑testable.
type ReminderCandidate struct {
	PurchaseID          uint64     // purchases.id
	RegistrationToken   string     // purchases.registration_token
	RegistrationState   string     // purchases.registration_state
	ReminderCount       int        // purchases.reminder_count
	LastRemindedAt      *time.Time // purchases.last_reminded_at
	PurchasedAt         time.Time  // purchases.created_at
	GuardianEmail       string     // guardians.email
	GuardianName        string     // guardians.full_name
	CampName            string     // camps.name
	ReminderCadenceDays *int       // camps.reminder_cadence_days (nullable override)
	MaxReminders        *int       // camps.max_reminders (nullable override)
}
