package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/keydrop/keydrop/internal/ctxkeys"
	"github.com/keydrop/keydrop/internal/model"
	"github.com/keydrop/keydrop/internal/service"
	"github.com/keydrop/keydrop/internal/ui"
)

// deactivateNotFoundBody is returned for a token that does not exist or is
// owned by another account; both cases read identically.
const deactivateNotFoundBody = "API key not found or you do not have permission to deactivate this key."

type KeyHandler struct {
	keyService *service.KeyService
	appName    string
}

func NewKeyHandler(keyService *service.KeyService, appName string) *KeyHandler {
	return &KeyHandler{
		keyService: keyService,
		appName:    appName,
	}
}

type indexPageData struct {
	AppName   string
	CSRFToken string
	Username  string
	Keys      []*model.APIKey
	Error     string
}

func (h *KeyHandler) IndexPage(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, r, "")
}

func (h *KeyHandler) renderIndex(w http.ResponseWriter, r *http.Request, errMsg string) {
	account := ctxkeys.Account(r.Context())

	keys, err := h.keyService.ListForAccount(account.ID)
	if err != nil {
		slog.Error("failed to list api keys", "error", err, "account_id", account.ID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ui.Render(w, "index.html", indexPageData{
		AppName:   h.appName,
		CSRFToken: ctxkeys.CSRFToken(r.Context()),
		Username:  account.Username,
		Keys:      keys,
		Error:     errMsg,
	})
}

func (h *KeyHandler) Generate(w http.ResponseWriter, r *http.Request) {
	account := ctxkeys.Account(r.Context())
	description := r.FormValue("description")

	_, err := h.keyService.Issue(account.ID, description)
	if err != nil {
		if errors.Is(err, service.ErrDescriptionRequired) {
			h.renderIndex(w, r, "A description is required to generate a key.")
			return
		}
		slog.Error("failed to issue api key", "error", err, "account_id", account.ID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type keyInfo struct {
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// Keys returns the current account's keys as a token -> {description, active}
// object, active and inactive alike.
func (h *KeyHandler) Keys(w http.ResponseWriter, r *http.Request) {
	account := ctxkeys.Account(r.Context())

	keys, err := h.keyService.ListForAccount(account.ID)
	if err != nil {
		slog.Error("failed to list api keys", "error", err, "account_id", account.ID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	payload := make(map[string]keyInfo, len(keys))
	for _, key := range keys {
		payload[key.Token] = keyInfo{
			Description: key.Description,
			Active:      key.Active,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(payload)
	if err != nil {
		slog.Error("failed to encode keys response", "error", err)
	}
}

func (h *KeyHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	account := ctxkeys.Account(r.Context())
	token := r.FormValue("key")

	err := h.keyService.Deactivate(account.ID, token)
	if err != nil {
		if errors.Is(err, service.ErrKeyNotFound) {
			http.Error(w, deactivateNotFoundBody, http.StatusNotFound)
			return
		}
		slog.Error("failed to deactivate api key", "error", err, "account_id", account.ID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
