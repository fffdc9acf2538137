package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for synthetic email identifiers
	"encoding/hex"  // hex encoding of random bytes and digests
	"time"          // expiration handling for job tokens

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// RandomToken generates a random hexadecimal string of n bytes (2n hex
// characters).  It is used to mint registration tokens; crypto/rand
// guarantees the bytes are cryptographically secure.  For a 64 character
// token, pass 32.
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// SyntheticEmailID derives a stable identifier for an inbound email that
// arrived without a message id.  The digest covers sender, subject and
// body, so a webhook retry of the same email reproduces the same id and
// still deduplicates.  The "synth-" prefix keeps synthesized ids
// distinguishable from provider message ids in the audit log.
func SyntheticEmailID(from, subject, body string) string {
	h := sha256.New()
	h.Write([]byte(from))
	h.Write([]byte{0})
	h.Write([]byte(subject))
	h.Write([]byte{0})
	h.Write([]byte(body))
	return "synth-" + hex.EncodeToString(h.Sum(nil))
}

// NewJobToken builds and signs an HS256 JWT authorizing a scheduler job.
// The job name is stored in the "job" claim and the token expires after
// ttl.  Operators mint these tokens out of band and configure them on the
// cron system that invokes the reminder endpoint.
func NewJobToken(secret, job string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"job": job,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
