// Package errors provides structured error handling for Warden.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes for the CLI surface.
const (
	ExitSuccess  = 0 // Successful execution
	ExitGeneral  = 1 // General/unknown error
	ExitInput    = 2 // Invalid input
	ExitAuth     = 3 // Authentication failed
	ExitNotFound = 4 // Resource not found
	ExitNetwork  = 5 // Gateway/network failure
)

// WardenError is the structured error type for Warden.
type WardenError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for the caller
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *WardenError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *WardenError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for WardenError by comparing codes.
func (e *WardenError) Is(target error) bool {
	var t *WardenError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &WardenError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &WardenError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	// Derivation and key-material errors.
	ErrInvalidEntropy = &WardenError{
		Code:     "INVALID_ENTROPY",
		Message:  "unsupported entropy size",
		ExitCode: ExitInput,
	}

	ErrInvalidKey = &WardenError{
		Code:     "INVALID_KEY",
		Message:  "malformed private key",
		ExitCode: ExitInput,
	}

	ErrValidation = &WardenError{
		Code:     "VALIDATION_FAILED",
		Message:  "invalid mnemonic or seed phrase",
		ExitCode: ExitInput,
	}

	// Provider lifecycle errors.
	ErrConnection = &WardenError{
		Code:     "CONNECTION_FAILED",
		Message:  "failed to connect to chain gateway",
		ExitCode: ExitNetwork,
	}

	ErrNotConnected = &WardenError{
		Code:     "NOT_CONNECTED",
		Message:  "provider is not connected",
		ExitCode: ExitGeneral,
	}

	ErrKeyInit = &WardenError{
		Code:     "KEY_INIT_FAILED",
		Message:  "failed to initialize keypair",
		ExitCode: ExitInput,
	}

	ErrSigning = &WardenError{
		Code:     "SIGNING_FAILED",
		Message:  "transaction signing failed",
		ExitCode: ExitGeneral,
	}

	ErrInvalidAmount = &WardenError{
		Code:     "INVALID_AMOUNT",
		Message:  "invalid amount",
		ExitCode: ExitInput,
	}

	ErrUnsupportedOperation = &WardenError{
		Code:     "UNSUPPORTED_OPERATION",
		Message:  "operation not supported by this chain provider",
		ExitCode: ExitGeneral,
	}

	// Wallet-specific errors.
	ErrWalletNotFound = &WardenError{
		Code:     "WALLET_NOT_FOUND",
		Message:  "wallet not found",
		ExitCode: ExitNotFound,
	}

	ErrWalletExists = &WardenError{
		Code:     "WALLET_EXISTS",
		Message:  "wallet already exists",
		ExitCode: ExitInput,
	}

	ErrUnsupportedChain = &WardenError{
		Code:     "UNSUPPORTED_CHAIN",
		Message:  "unsupported chain",
		ExitCode: ExitInput,
	}

	ErrInvalidAddress = &WardenError{
		Code:     "INVALID_ADDRESS",
		Message:  "invalid address format",
		ExitCode: ExitInput,
	}

	ErrDecryptionFailed = &WardenError{
		Code:     "DECRYPTION_FAILED",
		Message:  "decryption failed - wrong passphrase or corrupted file",
		ExitCode: ExitAuth,
	}

	ErrTransactionNotFound = &WardenError{
		Code:     "TRANSACTION_NOT_FOUND",
		Message:  "transaction not found",
		ExitCode: ExitNotFound,
	}

	// Config-specific errors.
	ErrConfigInvalid = &WardenError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrUnknownStorageBackend = &WardenError{
		Code:     "UNKNOWN_STORAGE_BACKEND",
		Message:  "unknown storage backend",
		ExitCode: ExitInput,
	}
)

// New creates a new WardenError with the given code and message.
func New(code, message string) *WardenError {
	return &WardenError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var we *WardenError
	if errors.As(err, &we) {
		return &WardenError{
			Code:       we.Code,
			Message:    fmt.Sprintf("%s: %s", msg, we.Message),
			Details:    we.Details,
			Suggestion: we.Suggestion,
			Cause:      err,
			ExitCode:   we.ExitCode,
		}
	}

	return &WardenError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var we *WardenError
	if errors.As(err, &we) {
		return &WardenError{
			Code:       we.Code,
			Message:    we.Message,
			Details:    details,
			Suggestion: we.Suggestion,
			Cause:      we.Cause,
			ExitCode:   we.ExitCode,
		}
	}

	return &WardenError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var we *WardenError
	if errors.As(err, &we) {
		return &WardenError{
			Code:       we.Code,
			Message:    we.Message,
			Details:    we.Details,
			Suggestion: suggestion,
			Cause:      we.Cause,
			ExitCode:   we.ExitCode,
		}
	}

	return &WardenError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var we *WardenError
	if errors.As(err, &we) {
		return we.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var we *WardenError
	if errors.As(err, &we) {
		return we.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
