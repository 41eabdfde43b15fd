package errors

import (
	"fmt"
	"syscall"
	"unicode/utf8"
)

// New creates a generic KindMessage error with the given code and message.
// The error classification is determined by the error code using default mappings.
//
// Example:
//
//	err := errors.New(errors.CodeInvalidConfig, "volume name is required")
func New(code ErrorCode, message string) Error {
	return &glusterError{
		kind:           KindMessage,
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates a generic KindMessage error with a formatted message.
//
// Example:
//
//	err := errors.Newf(errors.CodeInvalidConfig, "invalid port %d", port)
func Newf(code ErrorCode, format string, args ...interface{}) Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Native creates a KindNative error for a positive error number and its
// platform description. The code and classification are derived from errno.
//
// Example:
//
//	err := errors.Native(syscall.ENOENT, "No such file or directory")
func Native(errno syscall.Errno, message string) Error {
	code := CodeForErrno(errno)
	return &glusterError{
		kind:           KindNative,
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
		errno:          errno,
	}
}

// Encoding creates a KindEncoding error for text that contains a NUL byte at
// index and therefore has no native string representation.
func Encoding(index int) Error {
	return &glusterError{
		kind:           KindEncoding,
		code:           CodeEncodingFailed,
		classification: ClassificationPermanent,
		message:        fmt.Sprintf("nul byte found in provided data at position: %d", index),
		context:        map[string]interface{}{"index": index},
	}
}

// Decode creates a KindDecode error for native text that is not valid UTF-8.
// The position of the first invalid byte is reported in the message.
func Decode(raw []byte) Error {
	valid := 0
	for valid < len(raw) {
		r, size := utf8.DecodeRune(raw[valid:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		valid += size
	}
	return &glusterError{
		kind:           KindDecode,
		code:           CodeDecodeFailed,
		classification: ClassificationPermanent,
		message:        fmt.Sprintf("invalid utf-8 sequence starting at byte %d", valid),
		context:        map[string]interface{}{"valid_up_to": valid},
	}
}

// IO wraps an underlying I/O failure as a KindIO error.
// Returns nil if err is nil.
func IO(err error, message string) Error {
	if err == nil {
		return nil
	}
	return &glusterError{
		kind:           KindIO,
		code:           CodeIO,
		classification: ClassificationPermanent,
		message:        message,
		cause:          err,
	}
}
