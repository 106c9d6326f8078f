package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/crypto/scrypt"
)

// The sealed mnemonic of the seed file is base64(nonce | ciphertext | salt).
// The AES-256 key is stretched from the password with scrypt over salt.
const (
	saltLen = 32
	keyLen  = 32
	scryptR = 8
	scryptP = 1
)

// ScryptN is the scrypt cost of the seed password, 2^20 as recommended for
// interactive logins. Tests lower it to keep the seed file fast to open.
var ScryptN = 1 << 20

// EncryptOpts holds the mnemonic to seal and the password of the seed file.
type EncryptOpts struct {
	PlainText  string
	Passphrase string
}

func (o EncryptOpts) validate() error {
	if len(o.PlainText) <= 0 {
		return ErrNullPlainText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	return nil
}

// Encrypt seals the plaintext with AES-256-GCM under a key stretched from
// the passphrase with a fresh random salt.
func Encrypt(opts EncryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	key, salt, err := DeriveKey([]byte(opts.Passphrase), nil)
	if err != nil {
		return "", err
	}
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, []byte(opts.PlainText), nil)
	return base64.StdEncoding.EncodeToString(append(sealed, salt...)), nil
}

// DecryptOpts holds the content of the seed file and its password.
type DecryptOpts struct {
	CypherText string
	Passphrase string
}

func (o DecryptOpts) validate() error {
	if len(o.CypherText) <= 0 {
		return ErrNullCypherText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	return nil
}

// Decrypt opens a text sealed by Encrypt. A wrong passphrase results in
// ErrInvalidPassphrase, a malformed text in ErrInvalidCypherText.
func Decrypt(opts DecryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	buf, err := base64.StdEncoding.DecodeString(opts.CypherText)
	if err != nil || len(buf) <= saltLen {
		return "", ErrInvalidCypherText
	}
	sealed, salt := buf[:len(buf)-saltLen], buf[len(buf)-saltLen:]

	key, _, err := DeriveKey([]byte(opts.Passphrase), salt)
	if err != nil {
		return "", err
	}
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}
	if len(sealed) < aead.NonceSize() {
		return "", ErrInvalidCypherText
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrInvalidPassphrase
	}
	return string(plaintext), nil
}

// DeriveKey stretches the passphrase into an AES-256 key. A random salt is
// generated if none is given, and returned along with the key.
func DeriveKey(passphrase, salt []byte) ([]byte, []byte, error) {
	if salt == nil {
		salt = make([]byte, saltLen)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, err
		}
	}
	key, err := scrypt.Key(passphrase, salt, ScryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return nil, nil, err
	}
	return key, salt, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
