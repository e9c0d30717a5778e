package ledger

import "github.com/google/uuid"

// NewID returns a collision-resistant opaque record identifier.
// The engine takes an ID generator so tests can substitute a
// deterministic sequence; this is the production default.
func NewID() string {
	return uuid.NewString()
}
