package application

import "errors"

var (
	// ErrMethodNotFound is returned for any method other than personal_sign.
	ErrMethodNotFound = errors.New("method not found")
	// ErrUserRejected is returned when the user declines the consent dialog.
	ErrUserRejected = errors.New("user rejected the request")
	// ErrInvalidParams is returned when the params of personal_sign are not a
	// [message, address] pair of strings.
	ErrInvalidParams = errors.New("params must be a [message, address] pair of strings")
	// ErrNullKeyStore ...
	ErrNullKeyStore = errors.New("key store must not be null")
	// ErrNullEntropyProvider ...
	ErrNullEntropyProvider = errors.New("entropy provider must not be null")
	// ErrNullConsentDialog ...
	ErrNullConsentDialog = errors.New("consent dialog must not be null")
)
