package errors

import (
	"errors"
	"fmt"
	"syscall"
)

// Wrap wraps an error with a code and message while preserving the original
// error. The wrapped error is accessible via Unwrap() and compatible with
// errors.Is and errors.As.
//
// If err already contains an Error, its kind, errno and classification are
// preserved. A bare syscall.Errno is treated as a native failure. Anything
// else becomes a KindMessage error.
//
// Returns nil if err is nil.
//
// Example:
//
//	if err := conn.Mkdir(dir, 0o755); err != nil {
//	    return errors.Wrap(err, errors.CodeConflict, "failed to create scratch directory")
//	}
func Wrap(err error, code ErrorCode, message string) Error {
	if err == nil {
		return nil
	}

	wrapped := &glusterError{
		kind:           KindMessage,
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
		cause:          err,
	}

	var inner Error
	var errno syscall.Errno
	switch {
	case errors.As(err, &inner):
		wrapped.kind = inner.Kind()
		wrapped.errno = inner.Errno()
		wrapped.classification = inner.Classification()
	case errors.As(err, &errno):
		wrapped.kind = KindNative
		wrapped.errno = errno
	}

	return wrapped
}

// Wrapf wraps an error with a formatted message while preserving the original error.
//
// Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) Error {
	if err == nil {
		return nil
	}

	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps an error and attaches context metadata in a single operation.
// The context map is copied to prevent external mutation.
//
// Returns nil if err is nil.
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) Error {
	if err == nil {
		return nil
	}

	wrapped, _ := Wrap(err, code, message).(*glusterError)
	return wrapped.with(ctx)
}
