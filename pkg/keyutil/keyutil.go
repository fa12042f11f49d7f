package keyutil

import "github.com/google/uuid"

// NewRecordKey returns a fresh random record identifier.
//
// Keys are UUIDv4 strings. Collisions are not checked: with 122 random bits
// the probability is negligible, and the store would silently overwrite on
// the impossible collision rather than fail. Counter keys never collide with
// record keys because they are fixed, non-UUID names.
func NewRecordKey() string {
	return uuid.NewString()
}
