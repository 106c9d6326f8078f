package dbbadger

import "errors"

var (
	// ErrNullKeyMapping ...
	ErrNullKeyMapping = errors.New("key mapping must not be null")
)
