package errors

import "syscall"

// errnoCodes maps native error numbers to error codes.
var errnoCodes = map[syscall.Errno]ErrorCode{
	syscall.ENOENT: CodeNotFound,
	syscall.ENXIO:  CodeNotFound,

	syscall.EEXIST: CodeAlreadyExists,

	syscall.ENOTEMPTY: CodeConflict,
	syscall.EISDIR:    CodeConflict,
	syscall.ENOTDIR:   CodeConflict,
	syscall.EXDEV:     CodeConflict,
	syscall.ELOOP:     CodeConflict,
	syscall.EMLINK:    CodeConflict,

	syscall.ENOSPC: CodeNoSpace,
	syscall.EDQUOT: CodeNoSpace,
	syscall.EFBIG:  CodeNoSpace,

	syscall.EACCES: CodeForbidden,
	syscall.EPERM:  CodeForbidden,
	syscall.EROFS:  CodeForbidden,

	syscall.EINVAL:       CodeInvalidInput,
	syscall.ENAMETOOLONG: CodeInvalidInput,
	syscall.ERANGE:       CodeInvalidInput,

	syscall.EIO: CodeIO,

	syscall.ENOTCONN:     CodeNetwork,
	syscall.ECONNREFUSED: CodeNetwork,
	syscall.ECONNRESET:   CodeNetwork,
	syscall.EHOSTUNREACH: CodeNetwork,
	syscall.ENETUNREACH:  CodeNetwork,
	syscall.EHOSTDOWN:    CodeNetwork,

	syscall.ETIMEDOUT: CodeTimeout,

	syscall.EAGAIN: CodeUnavailable,
	syscall.EBUSY:  CodeUnavailable,
	syscall.EINTR:  CodeUnavailable,
	syscall.ESTALE: CodeUnavailable,

	syscall.EBADF: CodeClosed,

	syscall.ENOMEM: CodeInternal,
	syscall.EFAULT: CodeInternal,

	syscall.ENOSYS:     CodeNotImplemented,
	syscall.EOPNOTSUPP: CodeNotImplemented,
}

// CodeForErrno returns the error code for a native error number.
// Unmapped numbers yield CodeUnknown.
func CodeForErrno(errno syscall.Errno) ErrorCode {
	if code, ok := errnoCodes[errno]; ok {
		return code
	}
	return CodeUnknown
}
