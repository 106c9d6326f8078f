package dbredis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/tdex-signer/internal/core/domain"
	"github.com/tdex-network/tdex-signer/internal/core/ports"
	"github.com/tdex-network/tdex-signer/pkg/circuitbreaker"
)

// DefaultNamespace is the key under which the mapping is persisted.
const DefaultNamespace = "tdex-signer:state"

// PingTimeout bounds the connectivity check done when opening the store.
var PingTimeout = 5 * time.Second

type keyStore struct {
	client    *redis.Client
	namespace string
	cb        *gobreaker.CircuitBreaker
}

// NewKeyStore connects to the redis server at addr and returns a KeyStore
// persisting the mapping under the given namespace key.
func NewKeyStore(addr, namespace string) (ports.KeyStore, error) {
	if len(addr) <= 0 {
		return nil, ErrNullAddr
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), PingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewKeyStoreFromClient(client, namespace), nil
}

// NewKeyStoreFromClient returns a KeyStore on top of an existing client.
func NewKeyStoreFromClient(client *redis.Client, namespace string) ports.KeyStore {
	if len(namespace) <= 0 {
		namespace = DefaultNamespace
	}
	return &keyStore{
		client:    client,
		namespace: namespace,
		cb:        circuitbreaker.NewCircuitBreaker("redis-keystore"),
	}
}

func (s *keyStore) Load(ctx context.Context) (*domain.KeyMapping, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return getMapping(ctx, s.client, s.namespace)
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return res.(*domain.KeyMapping), nil
}

func (s *keyStore) Save(ctx context.Context, mapping *domain.KeyMapping) error {
	if mapping == nil {
		return ErrNullKeyMapping
	}

	next := mapping.Clone()
	next.Version++
	buf, err := json.Marshal(next)
	if err != nil {
		return err
	}

	// A version mismatch is a legit outcome and must not count as a failure
	// for the breaker, so it's returned as result rather than error.
	res, err := s.cb.Execute(func() (interface{}, error) {
		conflict := false
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			current, err := getMapping(ctx, tx, s.namespace)
			if err != nil {
				return err
			}
			if current.Version != mapping.Version {
				conflict = true
				return nil
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, s.namespace, buf, 0)
				return nil
			})
			return err
		}, s.namespace)
		if errors.Is(err, redis.TxFailedErr) {
			return true, nil
		}
		return conflict, err
	})
	if err != nil {
		return wrapErr(err)
	}
	if res.(bool) {
		return ports.ErrConcurrentUpdate
	}

	mapping.Version = next.Version
	return nil
}

func (s *keyStore) Close() {
	s.client.Close()
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getMapping(
	ctx context.Context, client getter, key string,
) (*domain.KeyMapping, error) {
	buf, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.NewKeyMapping(), nil
		}
		return nil, err
	}

	mapping := domain.NewKeyMapping()
	if err := json.Unmarshal(buf, mapping); err != nil {
		return nil, fmt.Errorf("failed to decode key mapping: %w", err)
	}
	if mapping.Keys == nil {
		mapping.Keys = make(map[string]domain.KeyRecord)
	}
	return mapping, nil
}

func wrapErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
	}
	return err
}
