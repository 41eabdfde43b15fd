package errors

import "syscall"

// Error is the single error type returned by the gluster packages.
//
// Every failure, whether it came from a negative return code of the native
// client, an unencodable path, undecodable text or an I/O failure, is reported
// as an Error. It remains compatible with the standard library helpers
// (errors.Is, errors.As, errors.Unwrap): native failures unwrap to their
// syscall.Errno, so errors.Is(err, fs.ErrNotExist) works as expected.
type Error interface {
	error

	// Kind reports which failure source produced the error.
	Kind() Kind

	// Code returns the error code identifying the category of error.
	Code() ErrorCode

	// Errno returns the native error number for KindNative errors and zero
	// for every other kind.
	Errno() syscall.Errno

	// Classification returns whether the error is retryable or permanent.
	Classification() ErrorClassification

	// Message returns the human-readable error message. For native errors
	// this is the platform description of the error number.
	Message() string

	// Context returns attached metadata as a read-only map.
	// Returns nil if no context has been attached.
	Context() map[string]interface{}

	// Unwrap returns the wrapped error, or the errno for native errors.
	Unwrap() error
}
