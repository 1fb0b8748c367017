package domain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConfiguration is matched by every ConfigurationError
	ErrConfiguration = errors.New("invalid configuration")

	// ErrEncoding is matched by every EncodingError
	ErrEncoding = errors.New("encoding failed")

	// ErrPrerequisiteNotReady is matched by every PrerequisiteNotReadyError
	ErrPrerequisiteNotReady = errors.New("prerequisite not ready")

	// ErrSubmission is matched by every SubmissionError
	ErrSubmission = errors.New("submission failed")

	// ErrAlreadyDeployed is matched by every AlreadyDeployedError
	ErrAlreadyDeployed = errors.New("already deployed")
)

// ConfigurationError reports a missing or invalid configuration value.
type ConfigurationError struct {
	Network string
	Field   string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Network != "" {
		return fmt.Sprintf("%s %s for network: %s", e.Field, e.Reason, e.Network)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// NewMissingConfigError is the common "not found in config" case.
func NewMissingConfigError(network, field string) *ConfigurationError {
	return &ConfigurationError{Network: network, Field: field, Reason: "not found in config"}
}

// EncodingError wraps an ABI encoding failure for a contract method.
type EncodingError struct {
	Contract string
	Method   string
	Err      error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode %s.%s: %v", e.Contract, e.Method, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

func (e *EncodingError) Is(target error) bool { return target == ErrEncoding }

// PrerequisiteNotReadyError is returned when a plan stage is requested before
// the stage it depends on has been predicted.
type PrerequisiteNotReadyError struct {
	Slot     string
	Requires string
}

func (e *PrerequisiteNotReadyError) Error() string {
	return fmt.Sprintf("cannot prepare %s: %s address has not been predicted", e.Slot, e.Requires)
}

func (e *PrerequisiteNotReadyError) Is(target error) bool { return target == ErrPrerequisiteNotReady }

// SubmissionError reports a rejected or reverted deployment transaction.
type SubmissionError struct {
	TxHash       common.Hash
	RevertReason string
	Err          error
}

func (e *SubmissionError) Error() string {
	msg := "deployment transaction failed"
	if e.TxHash != (common.Hash{}) {
		msg = fmt.Sprintf("deployment transaction %s failed", e.TxHash.Hex())
	}
	if e.RevertReason != "" {
		msg += fmt.Sprintf(": reverted: %s", e.RevertReason)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *SubmissionError) Unwrap() error { return e.Err }

func (e *SubmissionError) Is(target error) bool { return target == ErrSubmission }

// AlreadyDeployedError is returned when code already exists at a predicted
// address and the run must not submit anything.
type AlreadyDeployedError struct {
	Slot    string
	Address common.Address
}

func (e *AlreadyDeployedError) Error() string {
	return fmt.Sprintf("%s already deployed at %s", e.Slot, e.Address.Hex())
}

func (e *AlreadyDeployedError) Is(target error) bool { return target == ErrAlreadyDeployed }
