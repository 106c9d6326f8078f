package inmemory

import (
	"context"
	"sync"

	"github.com/tdex-network/tdex-signer/internal/core/domain"
	"github.com/tdex-network/tdex-signer/internal/core/ports"
)

type keyStore struct {
	lock  *sync.RWMutex
	state *domain.KeyMapping
}

// NewKeyStore returns a KeyStore that keeps the mapping in memory.
func NewKeyStore() ports.KeyStore {
	return &keyStore{
		lock:  &sync.RWMutex{},
		state: domain.NewKeyMapping(),
	}
}

func (s *keyStore) Load(ctx context.Context) (*domain.KeyMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.state.Clone(), nil
}

func (s *keyStore) Save(ctx context.Context, mapping *domain.KeyMapping) error {
	if mapping == nil {
		return ErrNullKeyMapping
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.state.Version != mapping.Version {
		return ports.ErrConcurrentUpdate
	}

	next := mapping.Clone()
	next.Version++
	s.state = next
	mapping.Version = next.Version
	return nil
}

func (s *keyStore) Close() {}
