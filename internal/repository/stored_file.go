package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/keydrop/keydrop/internal/model"
)

var (
	ErrFileNotFound = errors.New("file not found")
)

type StoredFileRepository interface {
	Create(file *model.StoredFile) error
	ByID(id string) (*model.StoredFile, error)
	ByAccount(accountID string) ([]*model.StoredFile, error)
}

type storedFileRepository struct {
	db *sqlx.DB
}

func NewStoredFileRepository(db *sqlx.DB) StoredFileRepository {
	return &storedFileRepository{db: db}
}

func (r *storedFileRepository) Create(file *model.StoredFile) error {
	query := `INSERT INTO stored_files (id, account_id, filename, storage_path, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, file.ID, file.AccountID, file.Filename, file.StoragePath, file.CreatedAt)
	return err
}

func (r *storedFileRepository) ByID(id string) (*model.StoredFile, error) {
	file := &model.StoredFile{}
	query := `SELECT * FROM stored_files WHERE id = $1`

	err := r.db.Get(file, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrFileNotFound
	}

	return file, err
}

func (r *storedFileRepository) ByAccount(accountID string) ([]*model.StoredFile, error) {
	files := []*model.StoredFile{}
	query := `SELECT * FROM stored_files WHERE account_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&files, query, accountID)
	if err != nil {
		return nil, err
	}

	return files, nil
}
