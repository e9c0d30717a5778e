package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// LedgerError represents a domain error detected by a ledger operation.
//
// Ledger errors include:
//   - Not found: a transfer or patch references an id absent from the store
//   - Invalid quantity: a transfer quantity is zero or negative
//   - Insufficient quantity: a transfer exceeds the source's available quantity
//   - Invalid snapshot: an imported document fails schema validation
//
// A failed operation performs no mutation and writes no audit entry.
type LedgerError struct {
	// Code identifies the error category.
	Code LedgerErrorCode

	// Message is a human-readable description.
	Message string

	// Entity names the record kind involved ("batch", "inventory", "stock").
	Entity string

	// ID identifies the affected record, when known.
	ID string

	// Details contains additional context.
	Details map[string]string
}

// LedgerErrorCode categorizes ledger errors.
type LedgerErrorCode string

const (
	// ErrCodeNotFound indicates a referenced record doesn't exist.
	ErrCodeNotFound LedgerErrorCode = "NOT_FOUND"

	// ErrCodeInvalidQuantity indicates a zero or negative transfer quantity.
	ErrCodeInvalidQuantity LedgerErrorCode = "INVALID_QUANTITY"

	// ErrCodeInsufficientQuantity indicates a transfer exceeding available quantity.
	ErrCodeInsufficientQuantity LedgerErrorCode = "INSUFFICIENT_QUANTITY"

	// ErrCodeInvalidSnapshot indicates an import document failing validation.
	ErrCodeInvalidSnapshot LedgerErrorCode = "INVALID_SNAPSHOT"
)

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Entity != "" && e.ID != "" {
		return fmt.Sprintf("%s: %s (%s=%s)", e.Code, e.Message, e.Entity, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound returns true if the error is a not-found error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Code == ErrCodeNotFound
	}
	return false
}

// IsInsufficientQuantity returns true if the error is a quantity underflow error.
func IsInsufficientQuantity(err error) bool {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Code == ErrCodeInsufficientQuantity
	}
	return false
}

// IsInvalidQuantity returns true if the error is an invalid-quantity error.
func IsInvalidQuantity(err error) bool {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Code == ErrCodeInvalidQuantity
	}
	return false
}

// IsInvalidSnapshot returns true if the error is an import validation error.
func IsInvalidSnapshot(err error) bool {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Code == ErrCodeInvalidSnapshot
	}
	return false
}

// NewNotFoundError creates a LedgerError for a missing record.
func NewNotFoundError(entity, id string) *LedgerError {
	return &LedgerError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("no %s with that id", entity),
		Entity:  entity,
		ID:      id,
	}
}

// NewInvalidQuantityError creates a LedgerError for a non-positive quantity.
func NewInvalidQuantityError(quantity decimal.Decimal) *LedgerError {
	return &LedgerError{
		Code:    ErrCodeInvalidQuantity,
		Message: "transfer quantity must be positive",
		Details: map[string]string{"quantity": quantity.String()},
	}
}

// NewInsufficientQuantityError creates a LedgerError for a quantity underflow.
func NewInsufficientQuantityError(entity, id string, available, requested decimal.Decimal) *LedgerError {
	return &LedgerError{
		Code:    ErrCodeInsufficientQuantity,
		Message: fmt.Sprintf("requested %s exceeds available %s", requested, available),
		Entity:  entity,
		ID:      id,
		Details: map[string]string{
			"available": available.String(),
			"requested": requested.String(),
		},
	}
}

// NewInvalidSnapshotError creates a LedgerError for a rejected import.
func NewInvalidSnapshotError(reason string) *LedgerError {
	return &LedgerError{
		Code:    ErrCodeInvalidSnapshot,
		Message: reason,
	}
}
