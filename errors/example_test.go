package errors_test

import (
	"fmt"
	"io/fs"
	"syscall"

	"github.com/jmgilman/go/gluster/errors"
)

func ExampleNative() {
	err := errors.Native(syscall.ENOENT, "No such file or directory")
	fmt.Println(err.Error())
	fmt.Println(errors.Is(err, fs.ErrNotExist))
	// Output:
	// [NOT_FOUND] No such file or directory
	// true
}

func ExampleNew() {
	err := errors.New(errors.CodeInvalidConfig, "volume name is required")
	fmt.Println(err.Error())
	// Output: [INVALID_CONFIGURATION] volume name is required
}

func ExampleWithContext() {
	err := errors.Native(syscall.EACCES, "Permission denied")
	err = errors.WithContext(err, "op", "mkdir")
	err = errors.WithContext(err, "path", "/secure")

	ctx := err.Context()
	fmt.Printf("%s %s: %s\n", ctx["op"], ctx["path"], errors.GetCode(err))
	// Output: mkdir /secure: FORBIDDEN
}

func ExampleIsRetryable() {
	fmt.Println(errors.IsRetryable(errors.Native(syscall.ENOTCONN, "Transport endpoint is not connected")))
	fmt.Println(errors.IsRetryable(errors.Native(syscall.ENOENT, "No such file or directory")))
	// Output:
	// true
	// false
}
