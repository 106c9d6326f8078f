package main

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-signer/internal/infrastructure/entropy"
	"github.com/tdex-network/tdex-signer/pkg/wallet"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon about"
	testPassword = "hodlhodlhodl"
)

func TestMain(m *testing.M) {
	wallet.ScryptN = 1 << 10
	os.Exit(m.Run())
}

func withTempState(t *testing.T) {
	prevDir, prevPath := signerCliDataDir, statePath
	signerCliDataDir = t.TempDir()
	statePath = filepath.Join(signerCliDataDir, "state.json")
	t.Cleanup(func() {
		signerCliDataDir, statePath = prevDir, prevPath
	})
}

func run(args ...string) error {
	return newApp().Run(append([]string{"tdex-signer"}, args...))
}

func TestGenSeed(t *testing.T) {
	require.NoError(t, run("genseed"))
	require.NoError(t, run("genseed", "--entropy-size", "128"))
	require.Error(t, run("genseed", "--entropy-size", "100"))
}

func TestInitSeed(t *testing.T) {
	datadir := t.TempDir()

	err := run(
		"init", "--mnemonic", testMnemonic, "--password", testPassword,
		"--datadir", datadir,
	)
	require.NoError(t, err)

	seedPath := filepath.Join(datadir, entropy.SeedFilename)
	mnemonic, err := entropy.ReadSeedFile(seedPath, testPassword)
	require.NoError(t, err)
	require.Equal(t, testMnemonic, mnemonic)

	// An existing seed is never overwritten.
	err = run(
		"init", "--mnemonic", testMnemonic, "--password", testPassword,
		"--datadir", datadir,
	)
	require.ErrorIs(t, err, entropy.ErrSeedFileExists)

	err = run(
		"init", "--mnemonic", "not a mnemonic", "--password", testPassword,
		"--datadir", t.TempDir(),
	)
	require.ErrorIs(t, err, wallet.ErrInvalidMnemonic)
}

func TestConfig(t *testing.T) {
	withTempState(t)

	_, err := getState()
	require.Error(t, err)

	require.NoError(t, run("config", "init", "--rpcserver", "localhost:10000"))
	require.NoError(t, run("config", "set", "origin", "https://dapp.example"))
	require.Error(t, run("config", "set", "origin"))
	require.NoError(t, run("config"))

	state, err := getState()
	require.NoError(t, err)
	require.Equal(t, "localhost:10000", state[rpcServerKey])
	require.Equal(t, "https://dapp.example", state["origin"])
}

func TestSign(t *testing.T) {
	withTempState(t)

	var received rpcRequest
	approve := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rpc", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		if approve {
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x3006020101020101"}`))
			return
		}
		w.Write([]byte(
			`{"jsonrpc":"2.0","id":1,"error":{"code":4001,"message":"User rejected the request."}}`,
		))
	}))
	defer srv.Close()

	require.Error(t, run("sign", "--message", "hello", "--address", "0xABC"))

	require.NoError(t, run("config", "init", "--rpcserver", srv.URL))
	require.NoError(t, run("sign", "--message", "hello", "--address", "0xABC"))
	require.Equal(t, "personal_sign", received.Method)
	require.Equal(t, "tdex-signer-cli", received.Origin)
	require.Equal(t, []interface{}{"hello", "0xABC"}, received.Params)

	approve = false
	err := run(
		"sign", "--message", "hello", "--address", "0xABC",
		"--origin", "https://dapp.example",
	)
	require.Error(t, err)
	rerr, ok := err.(*rpcError)
	require.True(t, ok)
	require.Equal(t, 4001, rerr.Code)
	require.Equal(t, "https://dapp.example", received.Origin)
}

func TestVerify(t *testing.T) {
	w, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic: testMnemonic,
	})
	require.NoError(t, err)
	node, err := w.DeriveKeyNode(wallet.DeriveKeyNodeOpts{
		DerivationPath: wallet.DefaultSigningDerivationPath,
	})
	require.NoError(t, err)

	signature, err := wallet.SignMessage(wallet.SignMessageOpts{
		Message:    "hello",
		PrivateKey: node.PrivateKey,
	})
	require.NoError(t, err)
	pubkey := "0x" + hex.EncodeToString(node.PublicKey().SerializeUncompressed())

	require.NoError(t, run(
		"verify", "--message", "0x68656c6c6f", "--signature", signature,
		"--pubkey", pubkey,
	))
	require.Error(t, run(
		"verify", "--message", "hello", "--signature", "0xzz", "--pubkey", pubkey,
	))
	require.Error(t, run(
		"verify", "--message", "hello", "--signature", signature, "--pubkey", "0x00",
	))
}
