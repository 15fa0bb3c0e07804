package service_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/keydrop/keydrop/internal/model"
	"github.com/keydrop/keydrop/internal/repository"
	"github.com/keydrop/keydrop/internal/service"
	"github.com/keydrop/keydrop/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadService(t *testing.T) (*service.UploadService, string) {
	t.Helper()
	database := newTestDB(t)
	root := t.TempDir()

	local, err := storage.NewLocalStorage(root)
	require.NoError(t, err)

	return service.NewUploadService(repository.NewStoredFileRepository(database), local), root
}

func TestUploadStoresFileAndRecord(t *testing.T) {
	uploads, root := newUploadService(t)

	stored, err := uploads.Upload("acct-1", "notes.txt", strings.NewReader("hello"))
	require.NoError(t, err)

	assert.Equal(t, "notes.txt", stored.Filename)
	assert.Equal(t, "acct-1", stored.AccountID)

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(stored.StoragePath)))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	files, err := uploads.FilesForAccount("acct-1")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, stored.ID, files[0].ID)
}

func TestUploadSanitizesTraversalNames(t *testing.T) {
	uploads, root := newUploadService(t)

	stored, err := uploads.Upload("acct-1", "../../etc/passwd.txt", strings.NewReader("x"))
	require.NoError(t, err)

	assert.Equal(t, "passwd.txt", stored.Filename)
	assert.False(t, strings.Contains(stored.Filename, "/"))
	assert.False(t, strings.Contains(stored.Filename, "\\"))

	// The object must live inside the account's namespace under the root
	full, err := filepath.Abs(filepath.Join(root, filepath.FromSlash(stored.StoragePath)))
	require.NoError(t, err)
	absRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(full, absRoot+string(filepath.Separator)))
	assert.True(t, strings.HasPrefix(stored.StoragePath, "acct-1/"))
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	uploads, _ := newUploadService(t)

	// Content is irrelevant; the extension alone decides
	_, err := uploads.Upload("acct-1", "innocent.exe", strings.NewReader("plain text"))
	assert.ErrorIs(t, err, service.ErrTypeNotAllowed)

	_, err = uploads.Upload("acct-1", "noextension", strings.NewReader("x"))
	assert.ErrorIs(t, err, service.ErrTypeNotAllowed)
}

func TestUploadRejectsEmptyFilename(t *testing.T) {
	uploads, _ := newUploadService(t)

	_, err := uploads.Upload("acct-1", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, service.ErrEmptyFilename)
}

func TestUploadSameNameTwiceDoesNotOverwrite(t *testing.T) {
	uploads, _ := newUploadService(t)

	first, err := uploads.Upload("acct-1", "notes.txt", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := uploads.Upload("acct-1", "notes.txt", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first.StoragePath, second.StoragePath)

	files, err := uploads.FilesForAccount("acct-1")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

type failingFileRepo struct{}

func (failingFileRepo) Create(*model.StoredFile) error { return errors.New("insert failed") }
func (failingFileRepo) ByID(string) (*model.StoredFile, error) {
	return nil, repository.ErrFileNotFound
}
func (failingFileRepo) ByAccount(string) ([]*model.StoredFile, error) { return nil, nil }

func TestUploadCleansUpObjectWhenRecordFails(t *testing.T) {
	root := t.TempDir()
	local, err := storage.NewLocalStorage(root)
	require.NoError(t, err)

	uploads := service.NewUploadService(failingFileRepo{}, local)

	_, err = uploads.Upload("acct-1", "notes.txt", strings.NewReader("hello"))
	require.Error(t, err)

	// No record means no visible file either: the orphan is cleaned up
	entries, err := os.ReadDir(filepath.Join(root, "acct-1"))
	if err == nil {
		assert.Empty(t, entries)
	}
}
