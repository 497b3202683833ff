package versioned

import (
	"errors"
	"fmt"

	"github.com/roach88/revlog/internal/ir"
)

// Error is a protocol error with a stable code.
//
// Protocol errors include:
//   - Not found: an address the operation requires cannot be resolved
//   - Malformed link: a link target is not an action address
//   - Malformed details: the details view has the wrong shape for the address
//   - Policy violation: the operation is forbidden, e.g. deleting a revision link
//
// None of these are retried or recovered locally.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Address is the address the error concerns, if any.
	Address ir.Address

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes protocol errors.
type ErrorCode string

const (
	// CodeNotFound indicates a required address could not be resolved.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeMalformedLink indicates a link target is not an action address.
	CodeMalformedLink ErrorCode = "MALFORMED_LINK"

	// CodeMalformedDetails indicates the details view had the wrong shape.
	CodeMalformedDetails ErrorCode = "MALFORMED_DETAILS"

	// CodePolicyViolation indicates a forbidden operation.
	CodePolicyViolation ErrorCode = "POLICY_VIOLATION"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if !e.Address.IsZero() {
		msg = fmt.Sprintf("%s (address=%s)", msg, e.Address)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the protocol error code of err, or "" if err is not one.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsNotFound returns true if err is a not found error.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsMalformedLink returns true if err is a malformed link error.
func IsMalformedLink(err error) bool {
	return CodeOf(err) == CodeMalformedLink
}

// IsMalformedDetails returns true if err is a malformed details error.
func IsMalformedDetails(err error) bool {
	return CodeOf(err) == CodeMalformedDetails
}

// IsPolicyViolation returns true if err is a policy violation.
func IsPolicyViolation(err error) bool {
	return CodeOf(err) == CodePolicyViolation
}

func newNotFound(addr ir.Address, format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...), Address: addr}
}

// newMalformedLink reports a link whose target fails to parse as an action address.
func newMalformedLink(link ir.Link) *Error {
	return &Error{
		Code:    CodeMalformedLink,
		Message: fmt.Sprintf("no action address associated with %s link %s", link.Kind, link.Address),
		Address: link.Target,
	}
}

func newMalformedDetails(addr ir.Address, details ir.Details) *Error {
	return &Error{
		Code:    CodeMalformedDetails,
		Message: fmt.Sprintf("malformed get details response: %T", details),
		Address: addr,
	}
}

func newPolicyViolation(addr ir.Address, format string, args ...any) *Error {
	return &Error{Code: CodePolicyViolation, Message: fmt.Sprintf(format, args...), Address: addr}
}
