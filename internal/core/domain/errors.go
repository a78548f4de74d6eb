// Package domain defines the core domain models for beatoken.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
// Codes have the form BEA-<AREA>-<NNNN>, where the number follows HTTP status
// semantics (4xxx caller error, 5xxx internal).
type DomainError struct {
	Code    string // Error code (e.g., "BEA-TOKN-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Token Errors (TOKN)
// ============================================================================

var (
	// ErrInvalidEnvelope indicates the token string is not a bea_ envelope.
	ErrInvalidEnvelope = NewDomainError("BEA-TOKN-4000", "invalid token envelope")

	// ErrUnknownKind indicates the envelope kind tag is not registered.
	ErrUnknownKind = NewDomainError("BEA-TOKN-4001", "unknown token kind")

	// ErrMalformedClaims indicates the signed claims are missing fields or badly shaped.
	ErrMalformedClaims = NewDomainError("BEA-TOKN-4002", "malformed token claims")

	// ErrSignatureInvalid indicates the signed blob did not verify.
	ErrSignatureInvalid = NewDomainError("BEA-TOKN-4010", "token signature invalid")

	// ErrKindMismatch indicates the envelope kind differs from the signed kind.
	ErrKindMismatch = NewDomainError("BEA-TOKN-4011", "token kind mismatch")

	// ErrTokenExpired indicates the token is past its expiry.
	ErrTokenExpired = NewDomainError("BEA-TOKN-4012", "token expired")

	// ErrTokenNotFound indicates no live record exists for the token id.
	// Revoked and never-issued tokens are reported identically.
	ErrTokenNotFound = NewDomainError("BEA-TOKN-4040", "token not found")

	// ErrTokenValidation indicates an issuance request or record failed validation.
	ErrTokenValidation = NewDomainError("BEA-TOKN-4003", "token validation failed")

	// ErrSigningFailed indicates the signing primitive failed during issuance.
	ErrSigningFailed = NewDomainError("BEA-TOKN-5000", "token signing failed")

	// ErrIDExhausted indicates the id generator could not produce a fresh id.
	ErrIDExhausted = NewDomainError("BEA-TOKN-5001", "token id space exhausted")
)

// ============================================================================
// Kind Registry Errors (KIND)
// ============================================================================

var (
	// ErrKindConflict indicates a kind or tag is already registered.
	ErrKindConflict = NewDomainError("BEA-KIND-4090", "token kind already registered")

	// ErrKindInvalid indicates a kind name or tag is outside the allowed alphabet.
	ErrKindInvalid = NewDomainError("BEA-KIND-4001", "invalid token kind")
)

// ============================================================================
// Deployment Errors (DEPL)
// ============================================================================

var (
	// ErrDeploymentNotFound indicates the requested deployment does not exist.
	ErrDeploymentNotFound = NewDomainError("BEA-DEPL-4040", "deployment not found")

	// ErrDeploymentValidation indicates a deployment request failed validation.
	ErrDeploymentValidation = NewDomainError("BEA-DEPL-4001", "deployment validation failed")

	// ErrDeploymentState indicates the operation is not allowed in the current status.
	ErrDeploymentState = NewDomainError("BEA-DEPL-4090", "invalid deployment state")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an unexpected internal error.
	ErrInternal = NewDomainError("BEA-SYS-5000", "internal error")

	// ErrInvalidConfig indicates the configuration is unusable.
	ErrInvalidConfig = NewDomainError("BEA-SYS-4001", "invalid configuration")
)
