package errors

import "errors"

// WithContext adds a single context field to an error.
// Returns a new Error with the context field added; existing fields are preserved.
//
// If err is not an Error, it is converted to one with CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	err = errors.WithContext(err, "op", "stat")
//	err = errors.WithContext(err, "path", "/tmp/a")
func WithContext(err error, key string, value interface{}) Error {
	if err == nil {
		return nil
	}
	return toGlusterError(err).with(map[string]interface{}{key: value})
}

// WithContextMap adds multiple context fields to an error.
// New fields override existing ones with the same key.
//
// If err is not an Error, it is converted to one with CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	err = errors.WithContextMap(err, map[string]interface{}{
//	    "op":      "rename",
//	    "oldpath": "/a",
//	    "newpath": "/b",
//	})
func WithContextMap(err error, ctx map[string]interface{}) Error {
	if err == nil {
		return nil
	}
	return toGlusterError(err).with(ctx)
}

// WithClassification overrides the classification of an error.
//
// If err is not an Error, it is converted to one with CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	// EBUSY is retryable by default; an exclusive lock held elsewhere is not
//	err = errors.WithClassification(err, errors.ClassificationPermanent)
func WithClassification(err error, classification ErrorClassification) Error {
	if err == nil {
		return nil
	}
	clone := toGlusterError(err).with(nil)
	clone.classification = classification
	return clone
}

// toGlusterError returns the concrete error behind err. An Error is used
// as is. A foreign wrapper around an Error keeps the inner kind, code, errno
// and context but wraps the whole chain so its text is not lost. Other
// foreign errors become a KindMessage error with CodeUnknown that wraps them.
func toGlusterError(err error) *glusterError {
	switch e := err.(type) {
	case *glusterError:
		return e
	case Error:
		return &glusterError{
			kind:           e.Kind(),
			code:           e.Code(),
			classification: e.Classification(),
			message:        e.Message(),
			errno:          e.Errno(),
			context:        e.Context(),
			cause:          e.Unwrap(),
		}
	}

	var inner Error
	if errors.As(err, &inner) {
		return &glusterError{
			kind:           inner.Kind(),
			code:           inner.Code(),
			classification: inner.Classification(),
			message:        err.Error(),
			errno:          inner.Errno(),
			context:        inner.Context(),
			cause:          err,
		}
	}

	return &glusterError{
		kind:           KindMessage,
		code:           CodeUnknown,
		classification: ClassificationPermanent,
		message:        err.Error(),
		cause:          err,
	}
}
