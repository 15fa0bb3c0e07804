package model

import (
	"time"
)

// TokenLength is the number of random bytes in a key token. Tokens are the
// hex encoding of these bytes, so the stored string is twice as long.
const TokenLength = 16

// APIKey is a bearer credential for machine callers, bound to one account.
// Lifecycle is two-state: a key is issued active and may be deactivated once;
// there is no path back to active and keys are never deleted.
type APIKey struct {
	ID          string    `db:"id"`
	AccountID   string    `db:"account_id"`
	Token       string    `db:"token"`
	Description string    `db:"description"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
}
