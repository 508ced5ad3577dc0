// Package gateway defines the contract the store layer requires from the
// remote data gateway, plus a REST/WebSocket client implementation for it.
package gateway

import (
	"context"
	"errors"

	"shopstream/app/models"
)

// ─── Errors ──────────────────────────────────────────────────────────────────

// Sentinel errors mapped from the gateway's machine-readable error codes.
// Stores match them with errors.Is to pick a user-facing message.
var (
	ErrInvalidCredentials = errors.New("gateway: invalid credentials")
	ErrEmailNotVerified   = errors.New("gateway: email not verified")
	ErrDuplicateEmail     = errors.New("gateway: email already registered")
	ErrTokenExpired       = errors.New("gateway: token expired")
	ErrTokenInvalid       = errors.New("gateway: token invalid")
	ErrNotFound           = errors.New("gateway: not found")
)

// errByCode maps wire error codes to sentinels.
var errByCode = map[string]error{
	"invalid_credentials": ErrInvalidCredentials,
	"email_not_verified":  ErrEmailNotVerified,
	"duplicate_email":     ErrDuplicateEmail,
	"token_expired":       ErrTokenExpired,
	"token_invalid":       ErrTokenInvalid,
	"not_found":           ErrNotFound,
}

// ─── Types ───────────────────────────────────────────────────────────────────

// Session is an authenticated gateway session.
type Session struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Identity     models.Identity `json:"identity"`
}

// ChangeEvent is one row-level change notification from the realtime feed.
type ChangeEvent struct {
	Table string `json:"table"`
	Type  string `json:"type"` // "INSERT" | "UPDATE" | "DELETE"
	ID    uint   `json:"id"`
}

// ─── Contracts ───────────────────────────────────────────────────────────────

// ProductGateway is the CRUD + realtime surface the catalog store consumes.
type ProductGateway interface {
	// List returns all products ordered by creation time, newest first.
	List(ctx context.Context) ([]models.Product, error)

	// Insert creates a row. The gateway assigns id and timestamps; the
	// returned row is authoritative.
	Insert(ctx context.Context, draft models.ProductDraft) (models.Product, error)

	// Update replaces the full row and returns the gateway's version of it.
	Update(ctx context.Context, p models.Product) (models.Product, error)

	// Delete removes a row. Deleting a missing id is not an error.
	Delete(ctx context.Context, id uint) error

	// Subscribe opens the realtime change feed. Events arrive on the
	// returned channel until ctx is cancelled; the channel is closed when
	// the feed ends.
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// AuthGateway is the sign-in / sign-up / session surface the auth store
// consumes.
type AuthGateway interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, creds models.Credentials) (models.Identity, error)

	// VerifyToken exchanges a one-time verification token for a session.
	VerifyToken(ctx context.Context, token, tokenType string) (Session, error)

	// SetSession validates a pre-issued access/refresh token pair (the
	// other redirect-link encoding) and returns the resulting session.
	SetSession(ctx context.Context, accessToken, refreshToken string) (Session, error)

	// CurrentSession resolves the session behind an access token, or
	// ErrTokenExpired / ErrTokenInvalid.
	CurrentSession(ctx context.Context, accessToken string) (Session, error)
}
