package errors

import (
	stderrors "errors"
	"syscall"
)

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard library errors.Is.
//
// Example:
//
//	if errors.Is(err, fs.ErrNotExist) {
//	    // Handle missing path
//	}
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard library errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// GetCode extracts the ErrorCode from an error.
// Returns CodeUnknown if the error is nil or not an Error.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	var gerr Error
	if stderrors.As(err, &gerr) {
		return gerr.Code()
	}

	return CodeUnknown
}

// GetKind extracts the failure Kind from an error.
// Returns KindMessage if the error is not an Error, and the empty kind for nil.
func GetKind(err error) Kind {
	if err == nil {
		return ""
	}

	var gerr Error
	if stderrors.As(err, &gerr) {
		return gerr.Kind()
	}

	return KindMessage
}

// GetErrno extracts the native error number from an error chain.
// Returns zero if no errno is present.
func GetErrno(err error) syscall.Errno {
	var gerr Error
	if stderrors.As(err, &gerr) && gerr.Errno() != 0 {
		return gerr.Errno()
	}

	var errno syscall.Errno
	if stderrors.As(err, &errno) {
		return errno
	}

	return 0
}

// GetClassification extracts the ErrorClassification from an error.
// Returns ClassificationPermanent if the error is nil or not an Error.
func GetClassification(err error) ErrorClassification {
	if err == nil {
		return ClassificationPermanent
	}

	var gerr Error
	if stderrors.As(err, &gerr) {
		return gerr.Classification()
	}

	return ClassificationPermanent
}

// IsRetryable returns true if the error is classified as retryable.
// Returns false if the error is nil or not an Error.
//
// Example:
//
//	if errors.IsRetryable(err) {
//	    time.Sleep(backoff)
//	    return retry(operation)
//	}
func IsRetryable(err error) bool {
	return GetClassification(err).IsRetryable()
}
