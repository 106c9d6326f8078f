package entropy

import (
	"context"

	"github.com/tdex-network/tdex-signer/internal/core/domain"
	"github.com/tdex-network/tdex-signer/internal/core/ports"
	"github.com/tdex-network/tdex-signer/pkg/wallet"
)

type seedProvider struct {
	wallet *wallet.Wallet
}

// NewSeedProvider returns an EntropyProvider deriving key nodes from the
// master seed of the given wallet.
func NewSeedProvider(w *wallet.Wallet) (ports.EntropyProvider, error) {
	if w == nil {
		return nil, ErrNullWallet
	}
	return &seedProvider{w}, nil
}

// NewSeedProviderFromMnemonic is a shortcut for NewSeedProvider that builds
// the wallet from the given BIP39 mnemonic.
func NewSeedProviderFromMnemonic(mnemonic string) (ports.EntropyProvider, error) {
	w, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic: mnemonic,
	})
	if err != nil {
		return nil, err
	}
	return NewSeedProvider(w)
}

func (p *seedProvider) GetBIP32Entropy(
	ctx context.Context, path wallet.DerivationPath, curve string,
) (*domain.KeyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if curve != domain.CurveSecp256k1 {
		return nil, domain.ErrUnsupportedCurve
	}

	node, err := p.wallet.DeriveKeyNode(wallet.DeriveKeyNodeOpts{
		DerivationPath: path,
	})
	if err != nil {
		return nil, err
	}
	return domain.NewKeyRecord(node)
}
