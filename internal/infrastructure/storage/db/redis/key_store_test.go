package dbredis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	dbredis "github.com/tdex-network/tdex-signer/internal/infrastructure/storage/db/redis"
)

func TestFailingNewKeyStore(t *testing.T) {
	_, err := dbredis.NewKeyStore("", "")
	require.Equal(t, dbredis.ErrNullAddr, err)

	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	_, err = dbredis.NewKeyStore(addr, "")
	require.Error(t, err)
}

func TestKeyStoreLayout(t *testing.T) {
	ctx := context.Background()
	server := miniredis.RunT(t)

	store, err := dbredis.NewKeyStore(server.Addr(), "signer:test")
	require.NoError(t, err)
	defer store.Close()

	mapping, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, mapping))

	raw, err := server.Get("signer:test")
	require.NoError(t, err)
	require.JSONEq(t, `{"keys":{},"version":1}`, raw)

	require.NoError(t, server.Set("signer:test", "not json"))
	_, err = store.Load(ctx)
	require.Error(t, err)

	require.Equal(t, dbredis.ErrNullKeyMapping, store.Save(ctx, nil))
}

func TestKeyStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	server := miniredis.RunT(t)

	store, err := dbredis.NewKeyStore(server.Addr(), "")
	require.NoError(t, err)
	defer store.Close()
	server.Close()

	var lastErr error
	for i := 0; i < 20; i++ {
		_, lastErr = store.Load(ctx)
		require.Error(t, lastErr)
	}
	require.True(t, errors.Is(lastErr, dbredis.ErrStoreUnavailable))
}
