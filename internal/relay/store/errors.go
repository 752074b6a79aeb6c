// Package store defines the contract errors of the transaction store.
package store

import "errors"

var (
	// ErrNotFound is returned when no record exists for a hash.
	ErrNotFound = errors.New("transaction not found")
	// ErrConflict is returned when a compare-and-set finds a different status.
	// Callers re-read the record instead of retrying blindly.
	ErrConflict = errors.New("transaction status conflict")
	// ErrUnknownParent is returned when a submission depends on a hash the
	// store does not know.
	ErrUnknownParent = errors.New("unknown parent transaction")
	// ErrIllegalTransition is returned for status pairs the lifecycle forbids.
	ErrIllegalTransition = errors.New("illegal status transition")
	// ErrStorage wraps persistence failures. It is fatal for the process.
	ErrStorage = errors.New("storage failure")
)
