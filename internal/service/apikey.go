package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keydrop/keydrop/internal/model"
	"github.com/keydrop/keydrop/internal/repository"
)

var (
	// ErrKeyNotFound is returned by Deactivate for a token that does not
	// exist or belongs to another account. The two cases are identical on
	// purpose so a caller can not probe for other accounts' keys.
	ErrKeyNotFound = errors.New("api key not found")
	// ErrInvalidKey is returned by Validate for a missing or inactive token.
	ErrInvalidKey          = errors.New("invalid api key")
	ErrDescriptionRequired = errors.New("description is required")
)

// KeyService owns the API key lifecycle: issue, validate, deactivate, list.
// Keys move from active to inactive exactly once and never back.
type KeyService struct {
	keyRepository repository.APIKeyRepository
}

func NewKeyService(keyRepository repository.APIKeyRepository) *KeyService {
	return &KeyService{keyRepository: keyRepository}
}

// Issue generates a fresh token and persists a new active key for accountID.
// The token carries 128 bits of entropy, so a uniqueness collision means the
// random source is broken; it is surfaced as a fatal error, never retried.
func (s *KeyService) Issue(accountID, description string) (*model.APIKey, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	token, err := GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	key := &model.APIKey{
		ID:          uuid.New().String(),
		AccountID:   accountID,
		Token:       token,
		Description: description,
		Active:      true,
		CreatedAt:   time.Now(),
	}

	err = s.keyRepository.Create(key)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateToken) {
			return nil, fmt.Errorf("token collision on issue, random source is misbehaving: %w", err)
		}
		return nil, fmt.Errorf("failed to create api key: %w", err)
	}

	slog.Info("api key issued", "account_id", accountID, "key_id", key.ID)
	return key, nil
}

// Deactivate flips the key inactive. Policy: deactivating a key the caller
// owns that is already inactive reports success, since the end state is the
// same either way.
func (s *KeyService) Deactivate(accountID, token string) error {
	err := s.keyRepository.Deactivate(accountID, token)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("failed to deactivate api key: %w", err)
	}

	slog.Info("api key deactivated", "account_id", accountID)
	return nil
}

// Validate resolves a bearer token to its owning account ID. This is the
// sole gate for machine-credential authorization; it is a single read, so it
// never observes a half-applied deactivation.
func (s *KeyService) Validate(token string) (string, error) {
	accountID, err := s.keyRepository.AccountIDByActiveToken(token)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return "", ErrInvalidKey
		}
		return "", fmt.Errorf("failed to validate api key: %w", err)
	}

	return accountID, nil
}

// ListForAccount returns all keys owned by the account, active and inactive.
func (s *KeyService) ListForAccount(accountID string) ([]*model.APIKey, error) {
	keys, err := s.keyRepository.ByAccount(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}

	return keys, nil
}

// GenerateToken returns a fresh key token: model.TokenLength bytes from the
// cryptographically secure random source, hex encoded.
func GenerateToken() (string, error) {
	bytes := make([]byte, model.TokenLength)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
