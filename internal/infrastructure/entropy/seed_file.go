package entropy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdex-network/tdex-signer/pkg/wallet"
)

// SeedFilename is the name of the encrypted mnemonic file in the datadir.
const SeedFilename = "seed.enc"

var (
	// ErrNullWallet ...
	ErrNullWallet = errors.New("wallet must not be null")
	// ErrSeedFileExists is returned when attempting to overwrite an existing
	// seed file.
	ErrSeedFileExists = errors.New("seed file already exists")
	// ErrSeedFileNotFound ...
	ErrSeedFileNotFound = errors.New("seed file not found, run the init command first")
)

// WriteSeedFile encrypts the mnemonic with the password and writes it to
// the given path. An existing file is never overwritten.
func WriteSeedFile(path, mnemonic, password string) error {
	if !wallet.IsMnemonicValid(mnemonic) {
		return wallet.ErrInvalidMnemonic
	}
	if _, err := os.Stat(path); err == nil {
		return ErrSeedFileExists
	}

	cypher, err := wallet.Encrypt(wallet.EncryptOpts{
		PlainText:  mnemonic,
		Passphrase: password,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), os.ModeDir|0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(cypher), 0600)
}

// ReadSeedFile decrypts the mnemonic stored at the given path.
func ReadSeedFile(path, password string) (string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrSeedFileNotFound
		}
		return "", err
	}

	mnemonic, err := wallet.Decrypt(wallet.DecryptOpts{
		CypherText: strings.TrimSpace(string(buf)),
		Passphrase: password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to decrypt seed file: %w", err)
	}
	return mnemonic, nil
}

// OpenWallet decrypts the seed file and returns the wallet of the stored
// mnemonic.
func OpenWallet(path, password string) (*wallet.Wallet, error) {
	mnemonic, err := ReadSeedFile(path, password)
	if err != nil {
		return nil, err
	}
	return wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic: mnemonic,
	})
}
