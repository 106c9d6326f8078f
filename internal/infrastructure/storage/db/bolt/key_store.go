package dbbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tdex-network/tdex-signer/internal/core/domain"
	"github.com/tdex-network/tdex-signer/internal/core/ports"
	bolt "go.etcd.io/bbolt"
)

const (
	// KeyStoreFilename is the name of the bolt file in the db dir.
	KeyStoreFilename = "keys.db"
	// DefaultDBTimeout is how long to wait for the file lock held by another
	// process.
	DefaultDBTimeout = 5 * time.Second
)

var (
	bucketName = []byte("signer")
	// stateKey is the fixed namespace under which the mapping is persisted.
	stateKey = []byte("state")
)

type keyStore struct {
	db *bolt.DB
}

// NewKeyStore opens (or creates if not exists) the bolt file in dbDir.
// Bolt serializes read-write transactions, the version check and the
// write of Save are therefore atomic also across processes sharing the file.
func NewKeyStore(dbDir string) (ports.KeyStore, error) {
	if len(dbDir) <= 0 {
		return nil, fmt.Errorf("missing db dir")
	}
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dbDir, os.ModeDir|0755); err != nil {
			return nil, err
		}
	}

	db, err := bolt.Open(
		filepath.Join(dbDir, KeyStoreFilename), 0600,
		&bolt.Options{Timeout: DefaultDBTimeout},
	)
	if err != nil {
		return nil, fmt.Errorf("opening key store db: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &keyStore{db}, nil
}

func (s *keyStore) Load(ctx context.Context) (*domain.KeyMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var mapping *domain.KeyMapping
	err := s.db.View(func(tx *bolt.Tx) error {
		m, err := getMapping(tx)
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
	buf, err := json.Marshal(next)
	if err != nil {
		return err
	}

	if err := s.db.Update(func(tx *bolt.Tx) error {
		current, err := getMapping(tx)
		if err != nil {
			return err
		}
		if current.Version != mapping.Version {
			return ports.ErrConcurrentUpdate
		}
		return tx.Bucket(bucketName).Put(stateKey, buf)
	}); err != nil {
		return err
	}

	mapping.Version = next.Version
	return nil
}

func (s *keyStore) Close() {
	s.db.Close()
}

func getMapping(tx *bolt.Tx) (*domain.KeyMapping, error) {
	bucket := tx.Bucket(bucketName)
	if bucket == nil {
		return nil, ErrBucketNotFound
	}

	mapping := domain.NewKeyMapping()
	buf := bucket.Get(stateKey)
	if buf == nil {
		return mapping, nil
	}
	if err := json.Unmarshal(buf, mapping); err != nil {
		return nil, fmt.Errorf("decoding key mapping: %w", err)
	}
	if mapping.Keys == nil {
		mapping.Keys = make(map[string]domain.KeyRecord)
	}
	return mapping, nil
}
