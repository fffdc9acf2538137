// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers and services to distinguish between failure scenarios without
// inspecting driver-specific errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a requested row does not exist.  Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEvent is returned when an insert collides with the unique
// index guarding ingestion idempotency.  It signals that another delivery
// of the same raw email has already been processed; callers treat it as
// an idempotent replay, not a failure.
var ErrDuplicateEvent = errors.New("event already processed")

// ErrConflict is returned when an update cannot be performed because of
// conflicting state, such as submitting a registration for a purchase
// that is already completed.  Handlers should translate this into an
// HTTP 409 or a generic invalid-link response for guardian-facing routes.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether err is a MySQL duplicate-entry violation
// (error 1062) on a unique index.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
