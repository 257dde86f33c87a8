package auth

import (
	"errors"
	"fmt"
)

// Standard authentication errors.
var (
	// ErrAuthFailed indicates that authentication was attempted but failed
	// (e.g., bad password, unreachable server).
	ErrAuthFailed = errors.New("auth: authentication failed")

	// ErrInvalidCredentials indicates that the credentials are malformed or
	// incomplete (distinct from wrong credentials).
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrContractViolation indicates the host called an operation the
	// provider declared unsupported.
	ErrContractViolation = errors.New("auth: contract violation")

	// ErrNoPrimaryProvider indicates that every provider abstained.
	ErrNoPrimaryProvider = errors.New("auth: no primary provider accepted the request")
)

// ContractViolationError is the panic value raised when a host calls an
// operation that a provider has declared it does not support.
type ContractViolationError struct {
	// Op names the offending operation, e.g. "radius.ProviderChangeAuthenticationData".
	Op string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("%s is not implemented", e.Op)
}

// Unwrap returns ErrContractViolation.
func (e *ContractViolationError) Unwrap() error {
	return ErrContractViolation
}
