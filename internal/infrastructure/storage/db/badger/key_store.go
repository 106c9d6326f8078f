package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/tdex-signer/internal/core/domain"
	"github.com/tdex-network/tdex-signer/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const (
	keyStoreDir = "keys"
	// stateKey is the fixed namespace under which the mapping is persisted.
	stateKey = "state"
)

type keyStore struct {
	store *badgerhold.Store
}

// NewKeyStore opens (or creates if not exists) the badger store in a
// dedicated subdirectory of baseDbDir. An empty baseDbDir opens an in-memory
// store.
func NewKeyStore(baseDbDir string, logger badger.Logger) (ports.KeyStore, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, keyStoreDir)
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening key store db: %w", err)
	}
	return &keyStore{store}, nil
}

func (s *keyStore) Load(ctx context.Context) (*domain.KeyMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var mapping *domain.KeyMapping
	err := s.store.Badger().View(func(tx *badger.Txn) error {
		m, err := s.getMapping(tx)
		mapping = m
		return err
	})
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

func (s *keyStore) Save(ctx context.Context, mapping *domain.KeyMapping) error {
	if mapping == nil {
		return ErrNullKeyMapping
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	next := mapping.Clone()
	next.Version++

	err := s.store.Badger().Update(func(tx *badger.Txn) error {
		current, err := s.getMapping(tx)
		if err != nil {
			return err
		}
		if current.Version != mapping.Version {
			return ports.ErrConcurrentUpdate
		}
		return s.store.TxUpsert(tx, stateKey, next)
	})
	if err != nil {
		if errors.Is(err, badger.ErrConflict) {
			return ports.ErrConcurrentUpdate
		}
		return err
	}

	mapping.Version = next.Version
	return nil
}

func (s *keyStore) Close() {
	s.store.Close()
}

func (s *keyStore) getMapping(tx *badger.Txn) (*domain.KeyMapping, error) {
	mapping := domain.NewKeyMapping()
	if err := s.store.TxGet(tx, stateKey, mapping); err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.NewKeyMapping(), nil
		}
		return nil, err
	}
	if mapping.Keys == nil {
		mapping.Keys = make(map[string]domain.KeyRecord)
	}
	return mapping, nil
}
