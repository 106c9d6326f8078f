package ports

import (
	"context"
	"errors"

	"github.com/tdex-network/tdex-signer/internal/core/domain"
)

// ErrConcurrentUpdate is returned by KeyStore.Save when the persisted state
// changed since the given mapping was loaded.
var ErrConcurrentUpdate = errors.New("key mapping was updated concurrently")

// KeyStore persists the whole key mapping of the signer as a single unit.
type KeyStore interface {
	// Load returns the persisted mapping, or an empty one with version 0 if
	// nothing was ever stored.
	Load(ctx context.Context) (*domain.KeyMapping, error)
	// Save replaces the persisted mapping only if its version still matches
	// mapping.Version, in which case mapping.Version is bumped. Otherwise it
	// returns ErrConcurrentUpdate and nothing is written.
	Save(ctx context.Context, mapping *domain.KeyMapping) error
	Close()
}
