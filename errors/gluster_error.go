package errors

import (
	"fmt"
	"syscall"
)

// glusterError is the concrete implementation of Error.
// It is private to enforce construction through package functions.
type glusterError struct {
	kind           Kind
	code           ErrorCode
	classification ErrorClassification
	message        string
	errno          syscall.Errno
	context        map[string]interface{}
	cause          error
}

// Error returns the string representation of the error.
// Format: "[CODE] message" or "[CODE] message: cause" if a cause is present.
// The errno of a native error is not repeated since the message already
// describes it, and a cause whose text is the message is not repeated.
func (e *glusterError) Error() string {
	if e.cause != nil && e.cause.Error() != e.message {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

// Kind returns the failure source.
func (e *glusterError) Kind() Kind {
	return e.kind
}

// Code returns the error code.
func (e *glusterError) Code() ErrorCode {
	return e.code
}

// Errno returns the native error number, zero unless the kind is KindNative.
func (e *glusterError) Errno() syscall.Errno {
	return e.errno
}

// Classification returns the error classification.
func (e *glusterError) Classification() ErrorClassification {
	return e.classification
}

// Message returns the error message.
func (e *glusterError) Message() string {
	return e.message
}

// Context returns a copy of the context map, or nil when none is attached.
func (e *glusterError) Context() map[string]interface{} {
	return copyContext(e.context)
}

// Unwrap returns the wrapped error. Native errors without an explicit cause
// unwrap to their errno so that errors.Is(err, fs.ErrNotExist) and friends
// work through the chain.
func (e *glusterError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	if e.errno != 0 {
		return e.errno
	}
	return nil
}

// with returns a shallow copy of e with the given context merged in.
func (e *glusterError) with(ctx map[string]interface{}) *glusterError {
	clone := *e
	merged := copyContext(e.context)
	if merged == nil && len(ctx) > 0 {
		merged = make(map[string]interface{}, len(ctx))
	}
	for k, v := range ctx {
		merged[k] = v
	}
	clone.context = merged
	return &clone
}

func copyContext(ctx map[string]interface{}) map[string]interface{} {
	if ctx == nil {
		return nil
	}
	out := make(map[string]interface{}, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}
