package dbbolt

import "errors"

var (
	// ErrNullKeyMapping ...
	ErrNullKeyMapping = errors.New("key mapping must not be null")
	// ErrBucketNotFound is returned if the store has been corrupted or was
	// initialized incorrectly.
	ErrBucketNotFound = errors.New("key store bucket not found")
)
