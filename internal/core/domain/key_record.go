package domain

import (
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/tdex-network/tdex-signer/pkg/wallet"
)

const (
	// CurveSecp256k1 is the only curve supported for signing keys.
	CurveSecp256k1 = "secp256k1"

	hexPrefix = "0x"
)

// KeyRecord is the serialized hierarchical deterministic key node derived for
// an address. Hex fields are 0x-prefixed, the public key is uncompressed.
type KeyRecord struct {
	Depth             uint8  `json:"depth"`
	MasterFingerprint uint32 `json:"masterFingerprint"`
	ParentFingerprint uint32 `json:"parentFingerprint"`
	Index             uint32 `json:"index"`
	Curve             string `json:"curve"`
	PrivateKey        string `json:"privateKey"`
	PublicKey         string `json:"publicKey"`
	ChainCode         string `json:"chainCode"`
}

// NewKeyRecord serializes the given key node.
func NewKeyRecord(node *wallet.KeyNode) (*KeyRecord, error) {
	if node == nil || node.PrivateKey == nil {
		return nil, ErrNullKeyNode
	}

	return &KeyRecord{
		Depth:             node.Depth,
		MasterFingerprint: node.MasterFingerprint,
		ParentFingerprint: node.ParentFingerprint,
		Index:             node.Index,
		Curve:             CurveSecp256k1,
		PrivateKey:        encodeHex(node.PrivateKey.Serialize()),
		PublicKey:         encodeHex(node.PublicKey().SerializeUncompressed()),
		ChainCode:         encodeHex(node.ChainCode),
	}, nil
}

// Validate checks that the record holds a usable secp256k1 key pair.
func (r KeyRecord) Validate() error {
	if r.Curve != CurveSecp256k1 {
		return ErrUnsupportedCurve
	}
	prvkey, err := r.PrivKey()
	if err != nil {
		return err
	}
	pubkey, err := r.PubKey()
	if err != nil {
		return err
	}
	if !prvkey.PubKey().IsEqual(pubkey) {
		return ErrKeyRecordMismatch
	}
	return nil
}

// PrivKey decodes the private key of the record.
func (r KeyRecord) PrivKey() (*btcec.PrivateKey, error) {
	buf, err := decodeHex(r.PrivateKey)
	if err != nil || len(buf) != btcec.PrivKeyBytesLen {
		return nil, ErrInvalidPrivateKey
	}
	prvkey, _ := btcec.PrivKeyFromBytes(buf)
	return prvkey, nil
}

// PubKey decodes the public key of the record.
func (r KeyRecord) PubKey() (*btcec.PublicKey, error) {
	buf, err := decodeHex(r.PublicKey)
	if err != nil {
		return nil, ErrInvalidPublicKey
	}
	pubkey, err := btcec.ParsePubKey(buf)
	if err != nil {
		return nil, ErrInvalidPublicKey
	}
	return pubkey, nil
}

func encodeHex(buf []byte) string {
	return hexPrefix + hex.EncodeToString(buf)
}

func decodeHex(str string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(str, hexPrefix))
}
