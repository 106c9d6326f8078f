package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-signer/internal/core/domain"
	"github.com/tdex-network/tdex-signer/pkg/wallet"
)

func newTestKeyRecord(t *testing.T) *domain.KeyRecord {
	w, err := wallet.NewWalletFromSeed(make([]byte, 32))
	require.NoError(t, err)
	node, err := w.DeriveKeyNode(wallet.DeriveKeyNodeOpts{
		DerivationPath: wallet.DefaultSigningDerivationPath,
	})
	require.NoError(t, err)
	record, err := domain.NewKeyRecord(node)
	require.NoError(t, err)
	return record
}

func TestKeyRecord(t *testing.T) {
	t.Parallel()

	record := newTestKeyRecord(t)
	require.NoError(t, record.Validate())
	require.Equal(t, domain.CurveSecp256k1, record.Curve)
	require.Equal(t, uint8(3), record.Depth)
	// 0x + 65 bytes uncompressed pubkey
	require.Len(t, record.PublicKey, 2+130)
	require.Len(t, record.PrivateKey, 2+64)
	require.Len(t, record.ChainCode, 2+64)

	buf, err := json.Marshal(record)
	require.NoError(t, err)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(buf, &fields))
	for _, key := range []string{
		"depth", "masterFingerprint", "parentFingerprint", "index", "curve",
		"privateKey", "publicKey", "chainCode",
	} {
		require.Contains(t, fields, key)
	}

	_, err = domain.NewKeyRecord(nil)
	require.Equal(t, domain.ErrNullKeyNode, err)
}

func TestFailingKeyRecordValidate(t *testing.T) {
	t.Parallel()

	record := newTestKeyRecord(t)
	other := newTestKeyRecord(t)
	w, err := wallet.NewWalletFromSeed(make([]byte, 64))
	require.NoError(t, err)
	node, err := w.DeriveKeyNode(wallet.DeriveKeyNodeOpts{
		DerivationPath: wallet.DefaultSigningDerivationPath,
	})
	require.NoError(t, err)
	unrelated, err := domain.NewKeyRecord(node)
	require.NoError(t, err)
	require.Equal(t, record.PublicKey, other.PublicKey)

	tests := []struct {
		name   string
		record domain.KeyRecord
		err    error
	}{
		{
			name: "unsupported_curve",
			record: func() domain.KeyRecord {
				r := *record
				r.Curve = "ed25519"
				return r
			}(),
			err: domain.ErrUnsupportedCurve,
		},
		{
			name: "invalid_private_key",
			record: func() domain.KeyRecord {
				r := *record
				r.PrivateKey = "0x00"
				return r
			}(),
			err: domain.ErrInvalidPrivateKey,
		},
		{
			name: "invalid_public_key",
			record: func() domain.KeyRecord {
				r := *record
				r.PublicKey = "0xzz"
				return r
			}(),
			err: domain.ErrInvalidPublicKey,
		},
		{
			name: "mismatching_keys",
			record: func() domain.KeyRecord {
				r := *record
				r.PublicKey = unrelated.PublicKey
				return r
			}(),
			err: domain.ErrKeyRecordMismatch,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.err, tt.record.Validate())
		})
	}
}

func TestKeyMapping(t *testing.T) {
	t.Parallel()

	record := newTestKeyRecord(t)
	mapping := domain.NewKeyMapping()
	require.Zero(t, mapping.Len())
	require.Zero(t, mapping.Version)

	_, ok := mapping.Get("0xABC")
	require.False(t, ok)

	require.NoError(t, mapping.Add("0xABC", *record))
	got, ok := mapping.Get("0xABC")
	require.True(t, ok)
	require.Equal(t, *record, *got)

	err := mapping.Add("0xABC", *record)
	require.Equal(t, domain.ErrKeyRecordExists, err)

	err = mapping.Add("", *record)
	require.Equal(t, domain.ErrNullAddress, err)

	mapping.Version = 7
	clone := mapping.Clone()
	require.Equal(t, mapping, clone)
	require.NoError(t, clone.Add("0xDEF", *record))
	require.Equal(t, 1, mapping.Len())
	require.Equal(t, 2, clone.Len())
}

func TestKeyMappingBackwardCompatibleLayout(t *testing.T) {
	t.Parallel()

	record := newTestKeyRecord(t)
	buf, err := json.Marshal(map[string]interface{}{
		"keys": map[string]interface{}{"0xABC": record},
	})
	require.NoError(t, err)

	var mapping domain.KeyMapping
	require.NoError(t, json.Unmarshal(buf, &mapping))
	require.Zero(t, mapping.Version)
	got, ok := mapping.Get("0xABC")
	require.True(t, ok)
	require.Equal(t, *record, *got)

	var nilMapping *domain.KeyMapping
	_, ok = nilMapping.Get("0xABC")
	require.False(t, ok)
	require.Zero(t, nilMapping.Len())
}
