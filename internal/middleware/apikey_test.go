package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/keydrop/keydrop/internal/ctxkeys"
	"github.com/keydrop/keydrop/internal/db"
	"github.com/keydrop/keydrop/internal/middleware"
	"github.com/keydrop/keydrop/internal/model"
	"github.com/keydrop/keydrop/internal/repository"
	"github.com/keydrop/keydrop/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	err = db.RunMigrations(database.DB, "sqlite")
	require.NoError(t, err)

	return database
}

func newKeyGate(t *testing.T) (func(http.HandlerFunc) http.HandlerFunc, *service.KeyService, string) {
	t.Helper()
	database := newTestDB(t)

	accounts := repository.NewAccountRepository(database)
	ownerID := uuid.New().String()
	err := accounts.Create(&model.Account{
		ID:           ownerID,
		Username:     "owner",
		PasswordHash: "x",
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)

	keys := service.NewKeyService(repository.NewAPIKeyRepository(database))
	return middleware.RequireAPIKey(keys), keys, ownerID
}

func TestRequireAPIKeyMissingHeader(t *testing.T) {
	gate, _, _ := newKeyGate(t)

	handler := gate(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a credential")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("POST", "/api/upload", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized access\n", rec.Body.String())
}

func TestRequireAPIKeyInvalidToken(t *testing.T) {
	gate, _, _ := newKeyGate(t)

	handler := gate(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an invalid credential")
	})

	req := httptest.NewRequest("POST", "/api/upload", nil)
	req.Header.Set("x-api-key", "deadbeefdeadbeefdeadbeefdeadbeef")

	rec := httptest.NewRecorder()
	handler(rec, req)

	// Identical signal for missing and invalid credentials
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized access\n", rec.Body.String())
}

func TestRequireAPIKeyBindsAccountID(t *testing.T) {
	gate, keys, ownerID := newKeyGate(t)

	key, err := keys.Issue(ownerID, "ci-bot")
	require.NoError(t, err)

	var seen string
	handler := gate(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.AccountID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("POST", "/api/upload", nil)
	req.Header.Set("x-api-key", key.Token)

	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ownerID, seen)
}

func TestRequireAPIKeyDeactivatedToken(t *testing.T) {
	gate, keys, ownerID := newKeyGate(t)

	key, err := keys.Issue(ownerID, "ci-bot")
	require.NoError(t, err)
	require.NoError(t, keys.Deactivate(ownerID, key.Token))

	handler := gate(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a deactivated credential")
	})

	req := httptest.NewRequest("POST", "/api/upload", nil)
	req.Header.Set("x-api-key", key.Token)

	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
