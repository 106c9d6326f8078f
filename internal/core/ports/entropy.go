package ports

import (
	"context"

	"github.com/tdex-network/tdex-signer/internal/core/domain"
	"github.com/tdex-network/tdex-signer/pkg/wallet"
)

// EntropyProvider derives key nodes from the master seed held by the host.
type EntropyProvider interface {
	GetBIP32Entropy(
		ctx context.Context, path wallet.DerivationPath, curve string,
	) (*domain.KeyRecord, error)
}
