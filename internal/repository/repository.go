package repository

import (
	"context"
	"time"

	"utms/dashboard/internal/models"
)

// Record is the durable state of one browser session: the bearer credential
// proving identity to the backend, plus the mapped user cached from the last
// successful bootstrap. The session manager owns all mutation; every write
// is a full overwrite.
type Record struct {
	SID        string       `json:"sid"`
	Credential string       `json:"credential"`
	User       *models.User `json:"user,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	LastSeenAt time.Time    `json:"lastSeenAt"`
	ExpiresAt  time.Time    `json:"expiresAt"`
}

// SessionStore persists session records across page loads. Implementations
// return errors; it is the caller's choice to fail open or closed (the
// session manager treats read failures as "absent" and write failures as
// best-effort).
type SessionStore interface {
	Get(ctx context.Context, sid string) (Record, bool, error)
	Put(ctx context.Context, rec Record) error
	Delete(ctx context.Context, sid string) error
	// DeleteExpired removes records past their expiry and reports how many.
	DeleteExpired(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close() error
}
