// Package domainerrors provides coded errors shared by services and transports.
//
// Services return these so handlers can translate failures into HTTP statuses
// without string matching. Construct via New at the point of failure, or Wrap
// when propagating a lower-level error with a domain code.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a failure for callers. Codes are stable API: transports map
// them to statuses and clients branch on them.
type Code string

const (
	// Generic codes.
	CodeInvalidInput Code = "invalid_input"
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal"

	// Validation.
	CodeInvalidSymbol Code = "invalid_symbol"
	CodeInvalidYears  Code = "invalid_years"
	CodeSameMint      Code = "same_mint"
	CodeSameOwner     Code = "same_owner"

	// Authorization.
	CodeNotOwner         Code = "not_owner"
	CodeNotAdmin         Code = "not_admin"
	CodeAdminOnlyPhase   Code = "admin_only_phase"
	CodeSymbolReserved   Code = "symbol_reserved"
	CodeVerifiedMismatch Code = "verified_mint_mismatch"
	CodeNotMintAuthority Code = "not_mint_authority"
	CodeNoAuthorityPath  Code = "no_authority_path"

	// Temporal.
	CodeNotYetExpired      Code = "not_yet_expired"
	CodeSymbolExpired      Code = "symbol_expired"
	CodeSymbolNotExpired   Code = "symbol_not_expired"
	CodeNotYetCancelable   Code = "not_yet_cancelable"
	CodeExceedsMaxDuration Code = "exceeds_max_duration"

	// Pricing.
	CodeStalePrice       Code = "stale_price"
	CodeInvalidPrice     Code = "invalid_price"
	CodeEmptyPool        Code = "empty_pool_reserves"
	CodeMathOverflow     Code = "math_overflow"
	CodeDivisionByZero   Code = "division_by_zero"
	CodeSlippageExceeded Code = "slippage_exceeded"

	// State.
	CodeSymbolExists     Code = "symbol_exists"
	CodeSymbolNotFound   Code = "symbol_not_found"
	CodeNoDriftDetected  Code = "no_drift_detected"
	CodePaused           Code = "paused"
	CodeNotInitialized   Code = "not_initialized"
	CodeInvalidPhase     Code = "invalid_phase"
	CodeMetadataMismatch Code = "metadata_symbol_mismatch"

	// Economic.
	CodePlatformFeeExceedsMax Code = "platform_fee_exceeds_max"
	CodeInsufficientFunds     Code = "insufficient_funds"
)

// Error is a domain error with a stable code and human-readable message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs a domain error with a code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a domain code to a lower-level error. The original error
// remains reachable through errors.Unwrap/errors.Is.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the domain code from an error chain. Unknown errors map to
// CodeInternal so transports never leak raw failures as client faults.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries the given domain code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// ToHTTPStatus maps a domain code to an HTTP status for the JSON error
// envelope. Anything unrecognized is a 500.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeBadRequest,
		CodeInvalidSymbol, CodeInvalidYears, CodeSameMint, CodeSameOwner,
		CodeExceedsMaxDuration, CodeInvalidPhase, CodeMetadataMismatch,
		CodePlatformFeeExceedsMax, CodeDivisionByZero:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeNotOwner, CodeNotAdmin, CodeAdminOnlyPhase,
		CodeSymbolReserved, CodeVerifiedMismatch, CodeNotMintAuthority,
		CodeNoAuthorityPath:
		return http.StatusForbidden
	case CodeNotFound, CodeSymbolNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeSymbolExists, CodePaused, CodeNotInitialized,
		CodeNotYetExpired, CodeSymbolExpired, CodeSymbolNotExpired,
		CodeNotYetCancelable, CodeNoDriftDetected:
		return http.StatusConflict
	case CodeStalePrice, CodeInvalidPrice, CodeEmptyPool:
		return http.StatusBadGateway
	case CodeSlippageExceeded, CodeInsufficientFunds:
		return http.StatusUnprocessableEntity
	case CodeMathOverflow:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
