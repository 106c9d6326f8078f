package wallet

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// KeyNode is a BIP32 node derived from the wallet seed, together with the
// metadata needed to serialize it.
type KeyNode struct {
	Depth             uint8
	MasterFingerprint uint32
	ParentFingerprint uint32
	Index             uint32
	ChainCode         []byte
	PrivateKey        *btcec.PrivateKey
}

// PublicKey returns the public key of the node.
func (n *KeyNode) PublicKey() *btcec.PublicKey {
	return n.PrivateKey.PubKey()
}

// DeriveKeyNodeOpts is the struct given to DeriveKeyNode method
type DeriveKeyNodeOpts struct {
	DerivationPath DerivationPath
}

func (o DeriveKeyNodeOpts) validate() error {
	if len(o.DerivationPath) <= 0 {
		return ErrNullDerivationPath
	}
	return nil
}

// DeriveKeyNode derives the secp256k1 key node for the provided absolute
// derivation path. The same seed and path always yield the same node.
func (w *Wallet) DeriveKeyNode(opts DeriveKeyNodeOpts) (*KeyNode, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(w.seed) <= 0 {
		return nil, ErrNullSeed
	}

	master, err := hdkeychain.NewMaster(w.seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}
	masterFingerprint, err := fingerprint(master)
	if err != nil {
		return nil, err
	}

	hdNode := master
	for _, step := range opts.DerivationPath {
		hdNode, err = hdNode.Derive(step)
		if err != nil {
			return nil, err
		}
	}

	privateKey, err := hdNode.ECPrivKey()
	if err != nil {
		return nil, err
	}

	return &KeyNode{
		Depth:             hdNode.Depth(),
		MasterFingerprint: masterFingerprint,
		ParentFingerprint: hdNode.ParentFingerprint(),
		Index:             hdNode.ChildIndex(),
		ChainCode:         hdNode.ChainCode(),
		PrivateKey:        privateKey,
	}, nil
}

// fingerprint is the first 4 bytes of the hash160 of the compressed pubkey.
func fingerprint(key *hdkeychain.ExtendedKey) (uint32, error) {
	pubkey, err := key.ECPubKey()
	if err != nil {
		return 0, err
	}
	hash := btcutil.Hash160(pubkey.SerializeCompressed())
	return binary.BigEndian.Uint32(hash[:4]), nil
}
