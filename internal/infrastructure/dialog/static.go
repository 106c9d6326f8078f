package dialog

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-signer/internal/core/domain"
	"github.com/tdex-network/tdex-signer/internal/core/ports"
)

const (
	// ModePrompt shows every dialog on the terminal.
	ModePrompt = "prompt"
	// ModeApprove approves every dialog without user interaction.
	ModeApprove = "approve"
	// ModeReject rejects every dialog without user interaction.
	ModeReject = "reject"
)

// SupportedModes ...
var SupportedModes = map[string]struct{}{
	ModePrompt:  {},
	ModeApprove: {},
	ModeReject:  {},
}

type staticDialog struct {
	approve bool
}

// NewStaticDialog returns a ConsentDialog that always gives the same answer.
// Meant for headless deployments where consent is given out of band.
func NewStaticDialog(approve bool) ports.ConsentDialog {
	return &staticDialog{approve}
}

func (d *staticDialog) Confirm(
	ctx context.Context, content domain.DialogContent,
) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	log.WithFields(log.Fields{
		"heading":  content.Heading,
		"copyable": content.Copyable,
		"approved": d.approve,
	}).Info("consent dialog answered by static policy")
	return d.approve, nil
}

// NewConsentDialog returns the dialog for the given mode.
func NewConsentDialog(mode string) (ports.ConsentDialog, error) {
	switch mode {
	case ModePrompt:
		return NewTerminalDialog()
	case ModeApprove:
		return NewStaticDialog(true), nil
	case ModeReject:
		return NewStaticDialog(false), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}
}
