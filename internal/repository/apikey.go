package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/keydrop/keydrop/internal/model"
)

var (
	// ErrKeyNotFound covers both "no such token" and "token owned by someone
	// else"; the two outcomes are deliberately indistinguishable.
	ErrKeyNotFound    = errors.New("api key not found")
	ErrDuplicateToken = errors.New("api key token already exists")
)

type APIKeyRepository interface {
	Create(key *model.APIKey) error
	AccountIDByActiveToken(token string) (string, error)
	Deactivate(accountID, token string) error
	ByAccount(accountID string) ([]*model.APIKey, error)
}

type apiKeyRepository struct {
	db *sqlx.DB
}

func NewAPIKeyRepository(db *sqlx.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) Create(key *model.APIKey) error {
	query := `INSERT INTO api_keys (id, account_id, token, description, active, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query, key.ID, key.AccountID, key.Token, key.Description, key.Active, key.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateToken
		}
		return err
	}

	return nil
}

// AccountIDByActiveToken resolves a token to its owning account. A single read
// against the active flag, so a concurrent deactivation is either fully
// visible or not at all.
func (r *apiKeyRepository) AccountIDByActiveToken(token string) (string, error) {
	var accountID string
	query := `SELECT account_id FROM api_keys WHERE token = $1 AND active = TRUE`

	err := r.db.Get(&accountID, query, token)
	if err == sql.ErrNoRows {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}

	return accountID, nil
}

// Deactivate flips the key inactive in one UPDATE matched on token and owner,
// which serializes concurrent deactivations at the row level. The match does
// not filter on the active flag: deactivating an already-inactive key the
// caller owns still matches and reports success, since the end state is
// identical.
func (r *apiKeyRepository) Deactivate(accountID, token string) error {
	query := `UPDATE api_keys SET active = FALSE WHERE token = $1 AND account_id = $2`

	result, err := r.db.Exec(query, token, accountID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrKeyNotFound
	}

	return nil
}

func (r *apiKeyRepository) ByAccount(accountID string) ([]*model.APIKey, error) {
	keys := []*model.APIKey{}
	query := `SELECT * FROM api_keys WHERE account_id = $1`

	err := r.db.Select(&keys, query, accountID)
	if err != nil {
		return nil, err
	}

	return keys, nil
}
