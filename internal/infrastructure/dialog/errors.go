package dialog

import "errors"

var (
	// ErrNoTerminal is returned when prompt mode is selected but stdin is not
	// attached to a terminal.
	ErrNoTerminal = errors.New("prompt mode requires an interactive terminal")
	// ErrUnknownMode ...
	ErrUnknownMode = errors.New("unknown consent mode")
)
