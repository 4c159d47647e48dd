package packing

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a packing failure surfaced to callers.
type ErrorCode string

const (
	CodeNoSuitableCarton          ErrorCode = "NO_SUITABLE_CARTON"
	CodeItemExceedsAllCartons     ErrorCode = "ITEM_EXCEEDS_ALL_CARTONS"
	CodeWeightLimitExceeded       ErrorCode = "WEIGHT_LIMIT_EXCEEDED"
	CodeInvalidRules              ErrorCode = "INVALID_RULES"
	CodeComputationTimeout        ErrorCode = "COMPUTATION_TIMEOUT"
	CodeInternalValidationFailure ErrorCode = "INTERNAL_VALIDATION_FAILURE"
	CodeInvalidRequest            ErrorCode = "INVALID_REQUEST"
	CodeDependencyUnavailable     ErrorCode = "DEPENDENCY_UNAVAILABLE"
)

var (
	// ErrInfeasible reports that a unit set cannot be packed into a carton.
	ErrInfeasible = errors.New("units do not fit carton")
	// ErrBudgetExceeded reports that the computation budget ran out.
	ErrBudgetExceeded = errors.New("computation budget exceeded")
	// ErrPartitionDepthExceeded reports that recursive bisection hit its depth cap.
	ErrPartitionDepthExceeded = errors.New("partition depth exceeded")
)

// Error is a structured packing failure.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// NewError creates a packing error.
func NewError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the error code, or "" when err is not a packing error.
func CodeOf(err error) ErrorCode {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsInfeasibility reports whether the code is a legitimate business outcome.
func (c ErrorCode) IsInfeasibility() bool {
	switch c {
	case CodeNoSuitableCarton, CodeItemExceedsAllCartons, CodeWeightLimitExceeded:
		return true
	}
	return false
}
