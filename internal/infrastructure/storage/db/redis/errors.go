package dbredis

import "errors"

var (
	// ErrNullAddr ...
	ErrNullAddr = errors.New("redis address must not be null")
	// ErrNullKeyMapping ...
	ErrNullKeyMapping = errors.New("key mapping must not be null")
	// ErrStoreUnavailable is returned while the circuit breaker is open.
	ErrStoreUnavailable = errors.New("key store is unavailable, try again later")
)
