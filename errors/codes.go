// Package errors provides the structured error model of the gluster packages.
// It extends Go's standard error handling with failure kinds, error codes, retry
// classification, context preservation, and API serialization capabilities.
package errors

// ErrorCode represents a category of failure.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Resource errors.

	// CodeNotFound indicates a path or volume does not exist (ENOENT, ENXIO).
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates the target path already exists (EEXIST).
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeConflict indicates the entry is in a state that prevents the
	// operation, such as a non-empty directory or a file where a directory
	// was expected (ENOTEMPTY, EISDIR, ENOTDIR, EXDEV, ELOOP, EMLINK).
	CodeConflict ErrorCode = "CONFLICT"

	// CodeNoSpace indicates the volume or a quota is exhausted (ENOSPC, EDQUOT, EFBIG).
	CodeNoSpace ErrorCode = "NO_SPACE"

	// Permission errors.

	// CodeForbidden indicates the caller lacks permission for the operation
	// (EACCES, EPERM, EROFS).
	CodeForbidden ErrorCode = "FORBIDDEN"

	// Validation errors.

	// CodeInvalidInput indicates an argument was rejected (EINVAL, ENAMETOOLONG, ERANGE).
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeEncodingFailed indicates a path contained an embedded NUL byte.
	CodeEncodingFailed ErrorCode = "ENCODING_FAILED"

	// CodeDecodeFailed indicates native text was not valid UTF-8.
	CodeDecodeFailed ErrorCode = "DECODE_FAILED"

	// Infrastructure errors.

	// CodeIO indicates a low-level input/output failure (EIO, EREMOTEIO).
	CodeIO ErrorCode = "IO_ERROR"

	// CodeNetwork indicates the cluster could not be reached or the
	// connection dropped (ENOTCONN, ECONNREFUSED, EHOSTUNREACH, ...).
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit (ETIMEDOUT).
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeUnavailable indicates a resource is temporarily unavailable
	// (EAGAIN, EBUSY, EINTR, ESTALE).
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// Handle errors.

	// CodeClosed indicates the connection or descriptor was already released (EBADF).
	CodeClosed ErrorCode = "CLOSED"

	// System errors.

	// CodeInternal indicates an internal failure (ENOMEM, EFAULT).
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeNotImplemented indicates the native client does not support the
	// operation (ENOSYS, ENOTSUP, EOPNOTSUPP).
	CodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
