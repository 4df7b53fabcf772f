package repository

import (
	"context"
	"time"
)

// DefaultTTL is how long an idle draft session survives.
const DefaultTTL = 2 * time.Hour

// submitLockTTL bounds the in-flight flag so a crashed submit cannot block a
// session forever.
const submitLockTTL = 5 * time.Minute

// SessionStore persists serialized draft sessions between requests. State is
// opaque to the store; attachments are kept apart so field edits do not move
// file bytes around. Every write refreshes the session TTL.
type SessionStore interface {
	Get(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, state []byte) error
	Delete(ctx context.Context, id string) error

	GetUpload(ctx context.Context, id string) ([]byte, error)
	PutUpload(ctx context.Context, id string, data []byte) error
	DeleteUpload(ctx context.Context, id string) error

	// AcquireSubmit sets the in-flight flag; it returns false when the flag
	// is already set.
	AcquireSubmit(ctx context.Context, id string) (bool, error)
	ReleaseSubmit(ctx context.Context, id string) error
}
