package application_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/tdex-signer/internal/core/domain"
	"github.com/tdex-network/tdex-signer/internal/core/ports"
	"github.com/tdex-network/tdex-signer/pkg/wallet"
)

// **** Consent dialog ****

type mockDialog struct {
	mock.Mock
}

func (m *mockDialog) Confirm(
	ctx context.Context, content domain.DialogContent,
) (bool, error) {
	args := m.Called(ctx, content)

	var res bool
	if a := args.Get(0); a != nil {
		res = a.(bool)
	}
	return res, args.Error(1)
}

// blockingDialog approves once released. It gives up if the context of
// the dialog is canceled first.
type blockingDialog struct {
	shown    chan struct{}
	release  chan struct{}
	canceled chan error
	calls    atomic.Int32
}

func newBlockingDialog() *blockingDialog {
	return &blockingDialog{
		shown:    make(chan struct{}, 1),
		release:  make(chan struct{}),
		canceled: make(chan error, 1),
	}
}

func (d *blockingDialog) Confirm(
	ctx context.Context, _ domain.DialogContent,
) (bool, error) {
	d.calls.Add(1)
	d.shown <- struct{}{}

	select {
	case <-d.release:
		return true, nil
	case <-ctx.Done():
		d.canceled <- ctx.Err()
		return false, ctx.Err()
	}
}

// **** Entropy provider ****

type mockEntropyProvider struct {
	mock.Mock
}

func (m *mockEntropyProvider) GetBIP32Entropy(
	ctx context.Context, path wallet.DerivationPath, curve string,
) (*domain.KeyRecord, error) {
	args := m.Called(ctx, path, curve)

	var res *domain.KeyRecord
	if a := args.Get(0); a != nil {
		res = a.(*domain.KeyRecord)
	}
	return res, args.Error(1)
}

// **** Key store ****

type mockKeyStore struct {
	mock.Mock
}

func (m *mockKeyStore) Load(ctx context.Context) (*domain.KeyMapping, error) {
	args := m.Called(ctx)

	var res *domain.KeyMapping
	if a := args.Get(0); a != nil {
		res = a.(*domain.KeyMapping)
	}
	return res, args.Error(1)
}

func (m *mockKeyStore) Save(ctx context.Context, mapping *domain.KeyMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *mockKeyStore) Close() {}

// conflictingKeyStore wraps a KeyStore and makes the first numOfConflicts
// saves fail as if another writer got there first.
type conflictingKeyStore struct {
	ports.KeyStore

	lock           sync.Mutex
	numOfConflicts int
	saves          int
}

func (s *conflictingKeyStore) Save(
	ctx context.Context, mapping *domain.KeyMapping,
) error {
	s.lock.Lock()
	s.saves++
	conflict := s.numOfConflicts > 0
	if conflict {
		s.numOfConflicts--
	}
	s.lock.Unlock()

	if conflict {
		return ports.ErrConcurrentUpdate
	}
	return s.KeyStore.Save(ctx, mapping)
}
