package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/keydrop/keydrop/internal/model"
	"github.com/keydrop/keydrop/internal/repository"
	"github.com/keydrop/keydrop/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both unknown username and wrong password;
	// the caller must not be able to tell which one happened.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUsernameRequired   = errors.New("username is required")
)

const sessionCookieName = "auth_token"

// AuthService verifies human credentials and manages the session identity
// (an HS256 JWT carried in an HttpOnly cookie).
type AuthService struct {
	accountRepository repository.AccountRepository
	secretKey         string
	isProduction      bool
	sessionExpiry     time.Duration
}

func NewAuthService(
	accountRepository repository.AccountRepository,
	secretKey string,
	isProduction bool,
	sessionExpiry time.Duration,
) *AuthService {
	return &AuthService{
		accountRepository: accountRepository,
		secretKey:         secretKey,
		isProduction:      isProduction,
		sessionExpiry:     sessionExpiry,
	}
}

// Register creates a new account. Usernames are unique and case-sensitive;
// a second registration with the same username fails with ErrUsernameTaken.
func (s *AuthService) Register(username, password string) (*model.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	err := validation.ValidatePassword(password)
	if err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &model.Account{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	err = s.accountRepository.Create(account)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	slog.Info("account registered", "account_id", account.ID, "username", username)
	return account, nil
}

// Login verifies the password against the stored bcrypt hash.
func (s *AuthService) Login(username, password string) (*model.Account, error) {
	account, err := s.accountRepository.ByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

func (s *AuthService) ByID(id string) (*model.Account, error) {
	return s.accountRepository.ByID(id)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) GenerateJWT(account *model.Account) (string, error) {
	claims := jwt.MapClaims{
		"account_id": account.ID,
		"username":   account.Username,
		"exp":        time.Now().Add(s.sessionExpiry).Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) SessionExpiry() time.Duration {
	return s.sessionExpiry
}

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionCookie returns the session cookie from the request, if present.
func (s *AuthService) SessionCookie(r *http.Request) (*http.Cookie, error) {
	return r.Cookie(sessionCookieName)
}
