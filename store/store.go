// Package store persists conversation contexts between requests so a host
// layer can resume sessions. Two implementations: in-memory for tests and
// single-process hosts, SQLite for durable storage.
package store

import (
	"context"
	"errors"

	"github.com/spartacus-ai/spartacus/agentic"
)

// ErrSessionNotFound is returned when a session id has no saved context.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists conversation contexts keyed by session id.
type SessionStore interface {
	// Save writes the context, replacing any previous snapshot for the
	// same session id.
	Save(ctx context.Context, conv *agentic.Context) error

	// Load returns the saved context, or ErrSessionNotFound.
	Load(ctx context.Context, sessionID string) (*agentic.Context, error)

	// Delete removes a session. Deleting an absent session returns
	// ErrSessionNotFound.
	Delete(ctx context.Context, sessionID string) error

	// List returns all saved session ids.
	List(ctx context.Context) ([]string, error)
}
