// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across gateway/session/wallet layers.
var (
	// ErrNetwork indicates the remote API was unreachable or returned a failure envelope.
	ErrNetwork = errors.New("network error")

	// ErrAuthRequired indicates an authenticated operation was attempted without a complete session.
	ErrAuthRequired = errors.New("authentication required")

	// ErrNotFound indicates the requested entity does not exist on the server.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a malformed request payload; never retried.
	ErrValidation = errors.New("validation failed")

	// ErrWalletUnavailable indicates no wallet provider was detected.
	ErrWalletUnavailable = errors.New("wallet unavailable")

	// ErrWalletRejected indicates the user declined a wallet provider prompt.
	ErrWalletRejected = errors.New("wallet request rejected")

	// ErrWrongNetwork indicates the wallet is connected to an unexpected chain.
	ErrWrongNetwork = errors.New("wrong network")
)
