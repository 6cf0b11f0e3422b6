package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Unit is a single translatable string instance within a translation.
type Unit struct {
	ID            uuid.UUID
	TranslationID uuid.UUID
	// IDHash is a deterministic fingerprint of the source string plus
	// context. Units sharing an IDHash represent the same source string
	// across translations, which is what merge and revert verify.
	IDHash    string
	Position  int
	Context   string
	Source    string
	Target    string
	Fuzzy     bool
	UpdatedAt time.Time
}

// Translated reports whether the unit carries a reviewed translation.
func (u Unit) Translated() bool {
	return u.Target != "" && !u.Fuzzy
}

// Checksum computes the identity hash for a source string and its
// disambiguation context. The result is stable across processes, so it
// doubles as the `checksum` URL parameter.
func Checksum(source, context string) string {
	h := sha256.New()
	h.Write([]byte(context))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil)[:8])
}
