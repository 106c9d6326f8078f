package domain

import "fmt"

const (
	// ConsentUnkeyed is the initial state: no key record exists for the
	// address yet.
	ConsentUnkeyed ConsentState = iota
	// ConsentAwaiting means the confirmation dialog is on screen.
	ConsentAwaiting
	// ConsentApproved means the user accepted. The key must be derived and
	// persisted before the flow completes.
	ConsentApproved
	// ConsentRejected means the user declined. Nothing is persisted.
	ConsentRejected
	// ConsentKeyed means a key record exists and requests are signed without
	// prompting.
	ConsentKeyed
)

// DialogHeading is the heading of the consent dialog.
const DialogHeading = "Signature request"

// ConsentState is the state of the consent flow of a single request.
type ConsentState int

func (s ConsentState) String() string {
	switch s {
	case ConsentUnkeyed:
		return "Unkeyed"
	case ConsentAwaiting:
		return "AwaitingConsent"
	case ConsentApproved:
		return "Approved"
	case ConsentRejected:
		return "Rejected"
	case ConsentKeyed:
		return "Keyed"
	default:
		return fmt.Sprintf("ConsentState(%d)", int(s))
	}
}

// IsTerminal returns whether no further transition is possible.
func (s ConsentState) IsTerminal() bool {
	return s == ConsentRejected || s == ConsentKeyed
}

// ConsentFlow tracks the consent lifecycle of an (origin, address) pair
// within one request.
type ConsentFlow struct {
	Origin  string
	Address string
	State   ConsentState
}

// NewConsentFlow returns a flow in Unkeyed state.
func NewConsentFlow(origin, address string) *ConsentFlow {
	return &ConsentFlow{
		Origin:  origin,
		Address: address,
		State:   ConsentUnkeyed,
	}
}

// SkipConsent moves an Unkeyed flow straight to Keyed because a record
// already exists for the address.
func (f *ConsentFlow) SkipConsent() error {
	return f.transition(ConsentUnkeyed, ConsentKeyed)
}

// Prompt moves an Unkeyed flow to AwaitingConsent and returns the content to
// show to the user.
func (f *ConsentFlow) Prompt() (DialogContent, error) {
	if err := f.transition(ConsentUnkeyed, ConsentAwaiting); err != nil {
		return DialogContent{}, err
	}
	return NewDialogContent(f.Origin, f.Address), nil
}

// Resolve records the answer of the user.
func (f *ConsentFlow) Resolve(approved bool) error {
	next := ConsentRejected
	if approved {
		next = ConsentApproved
	}
	return f.transition(ConsentAwaiting, next)
}

// Complete moves an Approved flow to Keyed once the record is persisted.
func (f *ConsentFlow) Complete() error {
	return f.transition(ConsentApproved, ConsentKeyed)
}

func (f *ConsentFlow) transition(from, to ConsentState) error {
	if f.State != from {
		return fmt.Errorf(
			"%w: %s -> %s", ErrInvalidConsentTransition, f.State, to,
		)
	}
	f.State = to
	return nil
}

// DialogContent is the structured content of the consent dialog.
type DialogContent struct {
	Heading  string
	Text     string
	Copyable string
}

// NewDialogContent returns the dialog asking to enable auto-signing for the
// given origin with the key bound to the given address.
func NewDialogContent(origin, address string) DialogContent {
	return DialogContent{
		Heading: DialogHeading,
		Text: fmt.Sprintf(
			"Do you want to enable auto-signing for %s for this session "+
				"with the following public key?", origin,
		),
		Copyable: address,
	}
}
