package ctxkeys

import (
	"context"

	"github.com/keydrop/keydrop/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	// AccountKey holds the *model.Account resolved from a session cookie.
	AccountKey contextKey = "account"
	// AccountIDKey holds the account ID resolved from an API key header.
	AccountIDKey contextKey = "account_id"
	CSRFTokenKey contextKey = "csrf_token"
)

func Account(ctx context.Context) *model.Account {
	account, _ := ctx.Value(AccountKey).(*model.Account)
	return account
}

func WithAccount(ctx context.Context, account *model.Account) context.Context {
	return context.WithValue(ctx, AccountKey, account)
}

func AccountID(ctx context.Context) string {
	id, _ := ctx.Value(AccountIDKey).(string)
	return id
}

func WithAccountID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, AccountIDKey, id)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}
