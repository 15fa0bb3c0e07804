package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/keydrop/keydrop/internal/ctxkeys"
	"github.com/keydrop/keydrop/internal/service"
	"github.com/keydrop/keydrop/internal/ui"
	"github.com/keydrop/keydrop/internal/validation"
)

type AuthHandler struct {
	authService *service.AuthService
	appName     string
}

func NewAuthHandler(authService *service.AuthService, appName string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		appName:     appName,
	}
}

type authPageData struct {
	AppName   string
	CSRFToken string
	Error     string
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, "login.html", authPageData{
		AppName:   h.appName,
		CSRFToken: ctxkeys.CSRFToken(r.Context()),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	account, err := h.authService.Login(username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Fall through to the form without a session; the inline error is
			// the same for unknown username and wrong password.
			ui.Render(w, "login.html", authPageData{
				AppName:   h.appName,
				CSRFToken: ctxkeys.CSRFToken(r.Context()),
				Error:     "Invalid username or password.",
			})
			return
		}
		slog.Error("login failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	token, err := h.authService.GenerateJWT(account)
	if err != nil {
		slog.Error("failed to generate session token", "error", err, "account_id", account.ID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.authService.SetSessionCookie(w, token, time.Now().Add(h.authService.SessionExpiry()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, "register.html", authPageData{
		AppName:   h.appName,
		CSRFToken: ctxkeys.CSRFToken(r.Context()),
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	_, err := h.authService.Register(username, password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			ui.Render(w, "register.html", authPageData{
				AppName:   h.appName,
				CSRFToken: ctxkeys.CSRFToken(r.Context()),
				Error:     "Username already exists. Please choose a different username.",
			})
			return
		}
		if errors.Is(err, service.ErrUsernameRequired) || errors.Is(err, validation.ErrPasswordRequired) || errors.Is(err, validation.ErrPasswordTooLong) {
			ui.Render(w, "register.html", authPageData{
				AppName:   h.appName,
				CSRFToken: ctxkeys.CSRFToken(r.Context()),
				Error:     "Username and password are required.",
			})
			return
		}
		slog.Error("registration failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
