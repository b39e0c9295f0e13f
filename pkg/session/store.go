// Package session persists per-conversation message history. The
// orchestrator reads a session's transcript at the start of a run and
// writes it back exactly once at completion.
package session

import (
	"context"
	"time"

	"github.com/myspotipal/spotipal/pkg/providers"
)

// Store holds ordered message history keyed by an opaque session id. A
// session is created implicitly the first time an unknown id is saved;
// Load on an unknown id returns an empty history, not an error.
type Store interface {
	Load(ctx context.Context, id string) ([]providers.Message, error)
	Save(ctx context.Context, id string, history []providers.Message) error
	Delete(ctx context.Context, id string) error

	// IdleSince returns ids of sessions not written since the cutoff.
	IdleSince(ctx context.Context, cutoff time.Time) ([]string, error)

	Close() error
}
