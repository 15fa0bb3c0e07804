package model

import (
	"time"
)

// StoredFile records an upload accepted through the key-gated API. Ownership
// is fixed at creation to the account the API key resolved to.
type StoredFile struct {
	ID          string    `db:"id"`
	AccountID   string    `db:"account_id"`
	Filename    string    `db:"filename"`     // sanitized original name
	StoragePath string    `db:"storage_path"` // location within the storage backend
	CreatedAt   time.Time `db:"created_at"`
}
