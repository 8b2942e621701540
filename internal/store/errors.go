package store

import (
	"errors"
	"fmt"
)

// StorageError reports a failed storage operation.
//
// Storage errors fall into three categories:
//   - Unavailable: the database could not be opened or configured
//   - WriteFailed: an append, put or clear did not commit
//   - ReadFailed: a get, list or iteration failed
//
// The store never retries; callers decide whether to try again.
type StorageError struct {
	// Code identifies the error category.
	Code StorageErrorCode

	// Op names the store operation, e.g. "append attempt".
	Op string

	// Err is the underlying driver or encoding error.
	Err error
}

// StorageErrorCode categorizes storage errors.
type StorageErrorCode string

const (
	// ErrCodeUnavailable indicates the store cannot be opened.
	ErrCodeUnavailable StorageErrorCode = "STORAGE_UNAVAILABLE"

	// ErrCodeWriteFailed indicates a write did not commit.
	ErrCodeWriteFailed StorageErrorCode = "STORAGE_WRITE_FAILED"

	// ErrCodeReadFailed indicates a read or query failed.
	ErrCodeReadFailed StorageErrorCode = "STORAGE_READ_FAILED"
)

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsUnavailable returns true if err is (or wraps) an open failure.
func IsUnavailable(err error) bool {
	return hasCode(err, ErrCodeUnavailable)
}

// IsWriteFailed returns true if err is (or wraps) a failed write.
func IsWriteFailed(err error) bool {
	return hasCode(err, ErrCodeWriteFailed)
}

// IsReadFailed returns true if err is (or wraps) a failed read.
func IsReadFailed(err error) bool {
	return hasCode(err, ErrCodeReadFailed)
}

func hasCode(err error, code StorageErrorCode) bool {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

func unavailable(op string, err error) *StorageError {
	return &StorageError{Code: ErrCodeUnavailable, Op: op, Err: err}
}

func writeFailed(op string, err error) *StorageError {
	return &StorageError{Code: ErrCodeWriteFailed, Op: op, Err: err}
}

func readFailed(op string, err error) *StorageError {
	return &StorageError{Code: ErrCodeReadFailed, Op: op, Err: err}
}
