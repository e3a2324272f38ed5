/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when attempting to create an entity that already exists
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConditionFailed is returned when a conditional write fails
	ErrConditionFailed = errors.New("condition check failed")

	// ErrUnknownStore is returned when no client is registered under a logical store name
	ErrUnknownStore = errors.New("unknown store")
)

// StoreError is the fault surfaced by a table store client.
// StatusCode follows HTTP semantics; 404 is the store's not-found signal.
type StoreError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Err        error
}

func (e *StoreError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.ErrorCode != "" {
		return fmt.Sprintf("store request failed: status %d (%s): %s", e.StatusCode, e.ErrorCode, msg)
	}
	return fmt.Sprintf("store request failed: status %d: %s", e.StatusCode, msg)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Table        string
	PartitionKey string
	RowKey       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entity (%q, %q) not found in table %q", e.PartitionKey, e.RowKey, e.Table)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConditionFailedError represents a failed conditional operation
type ConditionFailedError struct {
	Operation string
	Condition string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation: %s", e.Operation, e.Condition)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
}

// Helper functions for creating errors

// NewStoreError creates a new StoreError
func NewStoreError(status int, code, message string, cause error) error {
	return &StoreError{StatusCode: status, ErrorCode: code, Message: message, Err: cause}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(table, partitionKey, rowKey string) error {
	return &NotFoundError{Table: table, PartitionKey: partitionKey, RowKey: rowKey}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(entityType, key string) error {
	return &AlreadyExistsError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation, condition string) error {
	return &ConditionFailedError{Operation: operation, Condition: condition}
}

// IsNotFound reports whether err carries the store's not-found signal,
// either as a sentinel match or as a StoreError with status 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}

// StatusCode extracts the HTTP-like status of the first StoreError in err's chain.
func StatusCode(err error) (int, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}
