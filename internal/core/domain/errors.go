package domain

import "errors"

var (
	// ErrNullAddress ...
	ErrNullAddress = errors.New("address must not be null")
	// ErrNullKeyNode ...
	ErrNullKeyNode = errors.New("key node must not be null")
	// ErrKeyRecordExists is returned when attempting to overwrite the key
	// record of an address.
	ErrKeyRecordExists = errors.New("key record already exists for address")
	// ErrKeyRecordMismatch is returned when the public key of a record does not
	// match its private key.
	ErrKeyRecordMismatch = errors.New("key record public key does not match private key")
	// ErrUnsupportedCurve ...
	ErrUnsupportedCurve = errors.New("curve not supported")
	// ErrInvalidPrivateKey ...
	ErrInvalidPrivateKey = errors.New("private key must be a 32 byte array in hex format")
	// ErrInvalidPublicKey ...
	ErrInvalidPublicKey = errors.New("public key must be a valid secp256k1 point in hex format")
	// ErrInvalidConsentTransition is returned when a consent flow is moved out
	// of order.
	ErrInvalidConsentTransition = errors.New("invalid consent transition")
)
