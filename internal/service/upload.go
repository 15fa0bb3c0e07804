package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/keydrop/keydrop/internal/model"
	"github.com/keydrop/keydrop/internal/repository"
	"github.com/keydrop/keydrop/internal/storage"
	"github.com/keydrop/keydrop/internal/validation"
)

var (
	ErrEmptyFilename  = errors.New("no selected file")
	ErrTypeNotAllowed = errors.New("file type not allowed")
)

// UploadService validates and records file submissions against the
// authenticated owner.
type UploadService struct {
	fileRepository repository.StoredFileRepository
	storage        storage.Storage
}

func NewUploadService(fileRepository repository.StoredFileRepository, storage storage.Storage) *UploadService {
	return &UploadService{
		fileRepository: fileRepository,
		storage:        storage,
	}
}

// Upload stores the file bytes and persists a StoredFile owned by accountID.
//
// The stored object is namespaced as <accountID>/<uuid>_<sanitizedName>, so
// two uploads with the same name never overwrite each other. The bytes are
// written before the metadata row is committed; if the row insert fails the
// object is deleted best-effort, leaving at worst an orphaned file and never
// a record without a file.
func (s *UploadService) Upload(accountID, filename string, file io.Reader) (*model.StoredFile, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	if !validation.AllowedFileType(filename) {
		return nil, ErrTypeNotAllowed
	}

	sanitized := validation.SanitizeFilename(filename)
	if sanitized == "" {
		return nil, ErrEmptyFilename
	}

	storagePath := fmt.Sprintf("%s/%s_%s", accountID, uuid.New().String(), sanitized)

	err := s.storage.Save(storagePath, file)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	stored := &model.StoredFile{
		ID:          uuid.New().String(),
		AccountID:   accountID,
		Filename:    sanitized,
		StoragePath: storagePath,
		CreatedAt:   time.Now(),
	}

	err = s.fileRepository.Create(stored)
	if err != nil {
		// If the insert fails, try to clean up the stored object
		delErr := s.storage.Delete(storagePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	slog.Info("file uploaded", "account_id", accountID, "file_id", stored.ID, "filename", sanitized)
	return stored, nil
}

// FilesForAccount returns the account's stored files, newest first.
func (s *UploadService) FilesForAccount(accountID string) ([]*model.StoredFile, error) {
	files, err := s.fileRepository.ByAccount(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return files, nil
}

// FileURL returns a URL for accessing a stored file via the storage backend.
func (s *UploadService) FileURL(file *model.StoredFile) string {
	if file == nil {
		return ""
	}
	return s.storage.URL(file.StoragePath)
}
