package model

import "time"

// Guardian is the purchasing adult associated with one or more purchases.
// Guardians are identified by their e‑mail address, which is stored
// lower‑cased and carries a unique index.  A guardian row is created the
// first time a purchase references the address and is never deleted.
//
// Fields:
//  ID        – primary key identifier.
//  Email     – contact e‑mail, unique, lower‑cased.
//  FullName  – guardian's full name; "Unknown" when the source email did
//              not carry a Buyer Name field.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Guardian struct {
	ID        uint64    `json:"id"`         // guardians.id
	Email     string    `json:"email"`      // guardians.email
	FullName  string    `json:"full_name"`  // guardians.full_name
	CreatedAt time.Time `json:"created_at"` // guardians.created_at
	UpdatedAt time.Time `json:"updated_at"` // guardians.updated_at
}

// UnknownGuardianName is the sentinel stored when a forwarded sale email
// carries no Buyer Name field.
const UnknownGuardianName = "Unknown"
