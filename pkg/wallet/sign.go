package wallet

import (
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

const hexPrefix = "0x"

// NormalizeMessage turns a caller supplied message into the bytes to sign.
// A 0x-prefixed message is taken as hex, any other message as raw UTF-8 text.
func NormalizeMessage(message string) ([]byte, error) {
	if !strings.HasPrefix(message, hexPrefix) {
		return []byte(message), nil
	}

	digits := strings.TrimPrefix(message, hexPrefix)
	// Odd length hex is left padded with a zero digit, ie. 0xabc is 0x0abc.
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	buf, err := hex.DecodeString(digits)
	if err != nil {
		return nil, ErrInvalidHexMessage
	}
	return buf, nil
}

// SignMessageOpts is the struct given to SignMessage method
type SignMessageOpts struct {
	Message    string
	PrivateKey *btcec.PrivateKey
}

func (o SignMessageOpts) validate() error {
	if o.PrivateKey == nil {
		return ErrNullPrivateKey
	}
	return nil
}

// SignMessage signs the normalized message with deterministic (RFC6979)
// ECDSA and returns the DER encoded signature as a 0x-prefixed hex string.
// The normalized bytes are used directly as signing input, no hash is
// applied on top of them.
func SignMessage(opts SignMessageOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	msg, err := NormalizeMessage(opts.Message)
	if err != nil {
		return "", err
	}

	sig := ecdsa.Sign(opts.PrivateKey, msg)
	return hexPrefix + hex.EncodeToString(sig.Serialize()), nil
}

// VerifyMessageOpts is the struct given to VerifyMessage method
type VerifyMessageOpts struct {
	Message   string
	Signature string
	PublicKey *btcec.PublicKey
}

func (o VerifyMessageOpts) validate() error {
	if len(o.Signature) <= 0 {
		return ErrNullSignature
	}
	if !strings.HasPrefix(o.Signature, hexPrefix) {
		return ErrInvalidSignature
	}
	if o.PublicKey == nil {
		return ErrNullPublicKey
	}
	return nil
}

// VerifyMessage checks a signature produced by SignMessage
func VerifyMessage(opts VerifyMessageOpts) (bool, error) {
	if err := opts.validate(); err != nil {
		return false, err
	}

	msg, err := NormalizeMessage(opts.Message)
	if err != nil {
		return false, err
	}

	buf, err := hex.DecodeString(strings.TrimPrefix(opts.Signature, hexPrefix))
	if err != nil {
		return false, ErrInvalidSignature
	}
	sig, err := ecdsa.ParseDERSignature(buf)
	if err != nil {
		return false, ErrInvalidSignature
	}

	return sig.Verify(msg, opts.PublicKey), nil
}
