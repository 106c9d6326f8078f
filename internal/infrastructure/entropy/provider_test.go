package entropy_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-signer/internal/core/domain"
	"github.com/tdex-network/tdex-signer/internal/infrastructure/entropy"
	"github.com/tdex-network/tdex-signer/pkg/wallet"
)

var (
	ctx          = context.Background()
	testMnemonic = strings.Repeat("abandon ", 11) + "about"
)

func TestMain(m *testing.M) {
	wallet.ScryptN = 1 << 10
	m.Run()
}

func TestSeedProvider(t *testing.T) {
	provider, err := entropy.NewSeedProviderFromMnemonic(testMnemonic)
	require.NoError(t, err)

	record, err := provider.GetBIP32Entropy(
		ctx, wallet.DefaultSigningDerivationPath, domain.CurveSecp256k1,
	)
	require.NoError(t, err)
	require.NotNil(t, record)
	require.NoError(t, record.Validate())

	again, err := provider.GetBIP32Entropy(
		ctx, wallet.DefaultSigningDerivationPath, domain.CurveSecp256k1,
	)
	require.NoError(t, err)
	require.Equal(t, record, again)
}

func TestFailingSeedProvider(t *testing.T) {
	_, err := entropy.NewSeedProvider(nil)
	require.Equal(t, entropy.ErrNullWallet, err)

	_, err = entropy.NewSeedProviderFromMnemonic("not a mnemonic")
	require.Equal(t, wallet.ErrInvalidMnemonic, err)

	provider, err := entropy.NewSeedProviderFromMnemonic(testMnemonic)
	require.NoError(t, err)

	_, err = provider.GetBIP32Entropy(
		ctx, wallet.DefaultSigningDerivationPath, "ed25519",
	)
	require.Equal(t, domain.ErrUnsupportedCurve, err)

	_, err = provider.GetBIP32Entropy(ctx, nil, domain.CurveSecp256k1)
	require.Equal(t, wallet.ErrNullDerivationPath, err)

	canceledCtx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = provider.GetBIP32Entropy(
		canceledCtx, wallet.DefaultSigningDerivationPath, domain.CurveSecp256k1,
	)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signer", entropy.SeedFilename)
	password := "password"

	_, err := entropy.ReadSeedFile(path, password)
	require.Equal(t, entropy.ErrSeedFileNotFound, err)

	err = entropy.WriteSeedFile(path, "not a mnemonic", password)
	require.Equal(t, wallet.ErrInvalidMnemonic, err)

	require.NoError(t, entropy.WriteSeedFile(path, testMnemonic, password))

	err = entropy.WriteSeedFile(path, testMnemonic, password)
	require.Equal(t, entropy.ErrSeedFileExists, err)

	mnemonic, err := entropy.ReadSeedFile(path, password)
	require.NoError(t, err)
	require.Equal(t, testMnemonic, mnemonic)

	_, err = entropy.ReadSeedFile(path, "wrong")
	require.ErrorIs(t, err, wallet.ErrInvalidPassphrase)

	w, err := entropy.OpenWallet(path, password)
	require.NoError(t, err)
	got, err := w.Mnemonic()
	require.NoError(t, err)
	require.Equal(t, testMnemonic, got)
}
