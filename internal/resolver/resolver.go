// Package resolver maps the free-text camp name extracted from a forwarded
// email to exactly one active camp record.  Matching is approximate but
// never guesses: ambiguous candidates fail resolution instead of silently
// picking one.
package resolver

import (
	"errors"
	"strings"

	"github.com/iliyamo/camp-registration/internal/model"
)

// ErrNotFound is returned when no active camp matches the name.
var ErrNotFound = errors.New("no camp matches the given name")

// ErrAmbiguous is returned when more than one active camp matches and no
// deterministic tie-break applies.
var ErrAmbiguous = errors.New("multiple camps match the given name")

// Resolve finds the single active camp matching name.  Policy:
//
//  1. Exact case-insensitive match on the camp name wins.  When several
//     camps share the same name (typically across seasons), the greatest
//     year is preferred, then the most recently created row; a full tie
//     fails with ErrAmbiguous.
//  2. With no exact match, case-insensitive substring containment is
//     tried in both directions, so "Summer Camp 2026 - Early Bird"
//     matches the camp "Summer Camp 2026".  A single candidate wins;
//     several fail with ErrAmbiguous.
//
// Camps that are not active are never considered.
func Resolve(name string, camps []model.Camp) (*model.Camp, error) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return nil, ErrNotFound
	}

	var exact []model.Camp
	var partial []model.Camp
	for _, c := range camps {
		if c.Status != model.CampStatusActive {
			continue
		}
		cn := strings.ToLower(strings.TrimSpace(c.Name))
		switch {
		case cn == q:
			exact = append(exact, c)
		case strings.Contains(cn, q) || strings.Contains(q, cn):
			partial = append(partial, c)
		}
	}

	if len(exact) > 0 {
		return pickExact(exact)
	}
	switch len(partial) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &partial[0], nil
	default:
		return nil, ErrAmbiguous
	}
}

// pickExact applies the deterministic tie-break among exact name matches:
// greatest year first, then most recent creation time.  Candidates that
// remain tied are ambiguous.
func pickExact(exact []model.Camp) (*model.Camp, error) {
	best := exact[0]
	tied := false
	for _, c := range exact[1:] {
		switch {
		case c.Year > best.Year:
			best, tied = c, false
		case c.Year == best.Year && c.CreatedAt.After(best.CreatedAt):
			best, tied = c, false
		case c.Year == best.Year && c.CreatedAt.Equal(best.CreatedAt):
			tied = true
		}
	}
	if tied {
		return nil, ErrAmbiguous
	}
	return &best, nil
}
