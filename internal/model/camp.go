package model

import "time"

// Camp statuses.  Only active camps participate in ingestion matching and
// reminder sweeps.
const (
	CampStatusActive      = "active"
	CampStatusDeactivated = "deactivated"
	CampStatusArchived    = "archived"
)

// Camp is a single camp offering for a given year.  Camps are resolved by
// fuzzy name match during ingestion; their identity is immutable once
// created.  Reminder cadence and cap can be overridden per camp; nil means
// the system‑wide default applies.
//
// Fields:
//  ID                  – primary key identifier.
//  Name                – display name matched against forwarded emails.
//  Year                – season year of the camp.
//  Status              – active, deactivated or archived.
//  ReminderCadenceDays – per‑camp override of the reminder cadence (nullable).
//  MaxReminders        – per‑camp override of the reminder cap (nullable).
//  CreatedAt           – creation timestamp.
type Camp struct {
	ID                  uint64    `json:"id"`                              // camps.id
	Name                string    `json:"name"`                            // camps.name
	Year                int       `json:"year"`                            // camps.year
	Status              string    `json:"status"`                          // camps.status
	ReminderCadenceDays *int      `json:"reminder_cadence_days,omitempty"` // camps.reminder_cadence_days (nullable)
	MaxReminders        *int      `json:"max_reminders,omitempty"`         // camps.max_reminders (nullable)
	CreatedAt           time.Time `json:"created_at"`                      // camps.created_at
}
