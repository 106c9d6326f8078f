package dialog

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/charmbracelet/huh"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-signer/internal/core/domain"
	"github.com/tdex-network/tdex-signer/internal/core/ports"
	"golang.org/x/term"
)

// formRunner matches the method of huh.Form used to show the dialog.
type formRunner interface {
	RunWithContext(ctx context.Context) error
}

type formFactory func(content domain.DialogContent, approved *bool) formRunner

type terminalDialog struct {
	lock    *sync.Mutex
	newForm formFactory
}

// NewTerminalDialog returns a ConsentDialog prompting the operator on the
// terminal the daemon runs in. Dialogs are shown one at a time.
func NewTerminalDialog() (ports.ConsentDialog, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, ErrNoTerminal
	}
	return newTerminalDialog(newConfirmForm), nil
}

func newTerminalDialog(factory formFactory) *terminalDialog {
	return &terminalDialog{
		lock:    &sync.Mutex{},
		newForm: factory,
	}
}

func (d *terminalDialog) Confirm(
	ctx context.Context, content domain.DialogContent,
) (bool, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	var approved bool
	form := d.newForm(content, &approved)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			log.Debug("consent dialog aborted by user")
			return false, nil
		}
		return false, err
	}
	return approved, nil
}

func newConfirmForm(content domain.DialogContent, approved *bool) formRunner {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(content.Heading).
				Description(content.Text),
			huh.NewConfirm().
				Title(content.Copyable).
				Affirmative("Approve").
				Negative("Reject").
				Value(approved),
		),
	)
}
