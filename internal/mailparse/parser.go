// Package mailparse extracts structured purchase fields from forwarded
// sale-notification emails.  Parsing is pure and deterministic: the same
// (subject, body, sender) input always yields the same result or the same
// failure, and no external I/O is performed.
package mailparse

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparsable is returned when a mandatory labeled field (Product or
// Buyer Email) is missing from the body.  There are no partial results:
// a body without both mandatory fields yields no Result at all.
var ErrUnparsable = errors.New("email body is missing required fields")

// Result carries the fields extracted from one forwarded sale email.
// CampName and GuardianEmail are always present; GuardianName falls back
// to the "Unknown" sentinel and Amount to zero when the corresponding
// labels are absent or malformed.  Quantity defaults to one seat.
type Result struct {
	CampName      string  // value of the "Product:" label (free-text camp name)
	GuardianEmail string  // value of the "Buyer Email:" label
	GuardianName  string  // value of the "Buyer Name:" label, or "Unknown"
	Amount        float64 // value of the "Amount:" label in currency units, or 0
	Quantity      int     // value of the "Quantity:" label, or 1
}

// Labeled-field patterns.  Each matches the first occurrence of its label
// anywhere in the body, case-insensitively, and captures the remainder of
// the line.
var (
	reProduct  = regexp.MustCompile(`(?i)product\s*:\s*([^\r\n]+)`)
	reEmail    = regexp.MustCompile(`(?i)buyer\s+email\s*:\s*([^\r\n]+)`)
	reName     = regexp.MustCompile(`(?i)buyer\s+name\s*:\s*([^\r\n]+)`)
	reAmount   = regexp.MustCompile(`(?i)amount\s*:\s*([^\r\n]+)`)
	reQuantity = regexp.MustCompile(`(?i)quantity\s*:\s*([^\r\n]+)`)
	reNumber   = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
)

// Parse extracts purchase fields from the given subject line and raw body.
// The declared sender is accepted for interface completeness; extraction
// operates on the body alone.  It returns ErrUnparsable when either the
// Product or the Buyer Email label is absent.
func Parse(subject, body, from string) (*Result, error) {
	_ = subject
	_ = from

	campName := firstMatch(reProduct, body)
	guardianEmail := firstMatch(reEmail, body)
	if campName == "" || guardianEmail == "" {
		return nil, ErrUnparsable
	}

	res := &Result{
		CampName:      campName,
		GuardianEmail: guardianEmail,
		GuardianName:  "Unknown",
		Quantity:      1,
	}
	if name := firstMatch(reName, body); name != "" {
		res.GuardianName = name
	}
	if raw := firstMatch(reAmount, body); raw != "" {
		// Take the leading numeric token so values like "500 USD" or
		// "$500.00" still parse; anything without digits stays zero.
		if num := reNumber.FindString(raw); num != "" {
			if v, err := strconv.ParseFloat(num, 64); err == nil {
				res.Amount = v
			}
		}
	}
	if raw := firstMatch(reQuantity, body); raw != "" {
		if num := reNumber.FindString(raw); num != "" {
			if n, err := strconv.Atoi(num); err == nil && n > 0 {
				res.Quantity = n
			}
		}
	}
	return res, nil
}

// firstMatch returns the trimmed capture of the first occurrence of re in
// body, or "" when the label is absent or its value is empty.
func firstMatch(re *regexp.Regexp, body string) string {
	m := re.FindStringSubmatch(body)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
