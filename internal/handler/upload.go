package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/keydrop/keydrop/internal/ctxkeys"
	"github.com/keydrop/keydrop/internal/service"
)

// maxUploadBytes caps how much of a multipart body is held in memory while
// parsing; larger files spill to temp files.
const maxUploadBytes = 32 << 20

type UploadHandler struct {
	uploadService *service.UploadService
}

func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload accepts a multipart "file" field on behalf of the account the API
// key resolved to. Responses are fixed plain text; machine callers get no
// internal detail.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	accountID := ctxkeys.AccountID(r.Context())

	err := r.ParseMultipartForm(maxUploadBytes)
	if err != nil {
		http.Error(w, "No file part", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		// A part submitted with filename="" (an empty browser file input)
		// parses as a form value, not a file, so FormFile cannot see it.
		if r.MultipartForm != nil && len(r.MultipartForm.Value["file"]) > 0 {
			http.Error(w, "No selected file", http.StatusBadRequest)
			return
		}
		http.Error(w, "No file part", http.StatusBadRequest)
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close uploaded file", "error", closeErr)
		}
	}()

	_, err = h.uploadService.Upload(accountID, header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyFilename):
			http.Error(w, "No selected file", http.StatusBadRequest)
		case errors.Is(err, service.ErrTypeNotAllowed):
			http.Error(w, "File type not allowed", http.StatusBadRequest)
		default:
			slog.Error("upload failed", "error", err, "account_id", accountID)
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("File uploaded successfully"))
}

type fileInfo struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Files lists the current account's stored files.
func (h *UploadHandler) Files(w http.ResponseWriter, r *http.Request) {
	account := ctxkeys.Account(r.Context())

	files, err := h.uploadService.FilesForAccount(account.ID)
	if err != nil {
		slog.Error("failed to list files", "error", err, "account_id", account.ID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	payload := make([]fileInfo, 0, len(files))
	for _, f := range files {
		payload = append(payload, fileInfo{
			ID:       f.ID,
			Filename: f.Filename,
			URL:      h.uploadService.FileURL(f),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(payload)
	if err != nil {
		slog.Error("failed to encode files response", "error", err)
	}
}
