// Package errors provides the structured error model shared by the gluster
// packages.
//
// Every failure surfaced by the binding is an Error. An Error records which
// source produced it (its Kind), a coarse category (its ErrorCode), whether a
// retry may help (its ErrorClassification), a message, and optional context
// metadata. It remains fully compatible with the standard library errors
// package (errors.Is, errors.As, errors.Unwrap).
//
// # Kinds
//
//   - KindNative: the native client returned a negative error code; the
//     message is the platform description of the error number
//   - KindEncoding: a path contained an embedded NUL byte
//   - KindDecode: text returned by the native client was not valid UTF-8
//   - KindMessage: a generic failure described by its message
//   - KindIO: an I/O failure outside the native client
//
// # Quick Start
//
// Native failures:
//
//	err := errors.Native(syscall.ENOENT, "No such file or directory")
//	errors.GetCode(err)             // NOT_FOUND
//	errors.Is(err, fs.ErrNotExist)  // true, the chain ends in the errno
//
// Generic failures:
//
//	err := errors.New(errors.CodeInvalidConfig, "volume name is required")
//
// Wrapping and context:
//
//	err = errors.WithContextMap(err, map[string]interface{}{
//	    "op":   "stat",
//	    "path": "/tmp/a",
//	})
//
// Retry decisions:
//
//	if errors.IsRetryable(err) {
//	    // ENOTCONN, EAGAIN, ETIMEDOUT, ...
//	}
//
// # Error Codes
//
// Native error numbers are mapped onto codes by CodeForErrno:
//
//   - Resource errors: CodeNotFound, CodeAlreadyExists, CodeConflict, CodeNoSpace
//   - Permission errors: CodeForbidden
//   - Validation errors: CodeInvalidInput, CodeInvalidConfig, CodeEncodingFailed, CodeDecodeFailed
//   - Infrastructure errors: CodeIO, CodeNetwork, CodeTimeout, CodeUnavailable
//   - Handle errors: CodeClosed
//   - System errors: CodeInternal, CodeNotImplemented
//   - Generic: CodeUnknown
//
// # JSON
//
// ToJSON and MarshalJSON produce a flat ErrorResponse. The wrapped error chain
// is excluded.
package errors
