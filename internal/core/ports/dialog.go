package ports

import (
	"context"

	"github.com/tdex-network/tdex-signer/internal/core/domain"
)

// ConsentDialog shows a confirmation dialog to the user and returns whether
// the request was approved.
type ConsentDialog interface {
	Confirm(ctx context.Context, content domain.DialogContent) (bool, error)
}
