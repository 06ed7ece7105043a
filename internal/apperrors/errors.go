package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
// Wrap it with the missing entity so the caller knows what was missing.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientFunds indicates a debit would take an account balance below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrFeeDisabled indicates no fee rule matches a transaction type and amount,
// meaning the transaction type is disabled for the tenant.
var ErrFeeDisabled = errors.New("transaction type disabled")

// ErrAccountInactive indicates an account is not in ACTIVE status and cannot
// take part in a money movement as source.
var ErrAccountInactive = errors.New("account is not active")

// ErrOperationFailed indicates a failure during the apply phase of an engine
// operation, after validation passed. Balance mutations are rolled back; the
// prepared transaction rows are recorded with status failure as evidence.
var ErrOperationFailed = errors.New("operation failed")
