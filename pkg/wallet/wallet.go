package wallet

import (
	"errors"
)

var (
	// ErrNullMnemonic ...
	ErrNullMnemonic = errors.New("mnemonic must not be null")
	// ErrNullSeed ...
	ErrNullSeed = errors.New("seed must not be null")
	// ErrNullPassphrase ...
	ErrNullPassphrase = errors.New("passphrase must not be null")
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("text to encrypt must not be null")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher to decrypt must not be null")
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrNullPrivateKey ...
	ErrNullPrivateKey = errors.New("private key must not be null")
	// ErrNullPublicKey ...
	ErrNullPublicKey = errors.New("public key must not be null")
	// ErrNullSignature ...
	ErrNullSignature = errors.New("signature must not be null")

	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrInvalidEntropySize ...
	ErrInvalidEntropySize = errors.New(
		"entropy size must be a multiple of 32 in the range [128,256]",
	)
	// ErrInvalidSeedLength ...
	ErrInvalidSeedLength = errors.New("seed length must be in the range [16,64]")
	// ErrInvalidPassphrase is returned when a cypher cannot be opened with
	// the given passphrase.
	ErrInvalidPassphrase = errors.New("invalid passphrase")
	// ErrInvalidCypherText ...
	ErrInvalidCypherText = errors.New("cypher must be in base64 format")
	// ErrInvalidDerivationPath ...
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
	// ErrInvalidHexMessage is returned when a 0x-prefixed message is not a
	// valid hex string.
	ErrInvalidHexMessage = errors.New("0x-prefixed message must be valid hex")
	// ErrInvalidSignature ...
	ErrInvalidSignature = errors.New("signature must be a 0x-prefixed DER hex string")
	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New(
		"path must not start or end with a '/' and " +
			"can optionally start with 'm/' for absolute paths",
	)
)

// Wallet holds the master seed of the signer and allows to derive the
// hierarchical deterministic key nodes used for signing.
type Wallet struct {
	mnemonic string
	seed     []byte
}

// NewWalletOpts is the struct given to the NewWallet method
type NewWalletOpts struct {
	EntropySize int
}

func (o NewWalletOpts) validate() error {
	return NewMnemonicOpts{o.EntropySize}.validate()
}

// NewWallet creates a new wallet from a freshly generated mnemonic
func NewWallet(opts NewWalletOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	mnemonic, err := NewMnemonic(NewMnemonicOpts{opts.EntropySize})
	if err != nil {
		return nil, err
	}

	return &Wallet{
		mnemonic: mnemonic,
		seed:     generateSeedFromMnemonic(mnemonic),
	}, nil
}

// NewWalletFromMnemonicOpts is the struct given to the NewWalletFromMnemonic
// method
type NewWalletFromMnemonicOpts struct {
	Mnemonic string
}

func (o NewWalletFromMnemonicOpts) validate() error {
	if len(o.Mnemonic) <= 0 {
		return ErrNullMnemonic
	}
	if !IsMnemonicValid(o.Mnemonic) {
		return ErrInvalidMnemonic
	}
	return nil
}

// NewWalletFromMnemonic generates the master seed from the given mnemonic
func NewWalletFromMnemonic(opts NewWalletFromMnemonicOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	return &Wallet{
		mnemonic: opts.Mnemonic,
		seed:     generateSeedFromMnemonic(opts.Mnemonic),
	}, nil
}

// NewWalletFromSeed returns a wallet that is not backed by any mnemonic.
func NewWalletFromSeed(seed []byte) (*Wallet, error) {
	if len(seed) <= 0 {
		return nil, ErrNullSeed
	}
	if len(seed) < 16 || len(seed) > 64 {
		return nil, ErrInvalidSeedLength
	}

	buf := make([]byte, len(seed))
	copy(buf, seed)
	return &Wallet{seed: buf}, nil
}

// Mnemonic is getter for the wallet mnemonic, if any
func (w *Wallet) Mnemonic() (string, error) {
	if len(w.mnemonic) <= 0 {
		return "", ErrNullMnemonic
	}
	return w.mnemonic, nil
}
