// Package errs provides error handling utilities for the glusterfs filesystem.
package errs

import (
	"fmt"
	"io/fs"

	"github.com/jmgilman/go/fs/core"
	"github.com/jmgilman/go/gluster/errors"
)

// Translate adds the core sentinel matching a gluster error to its chain.
// Native errno values already satisfy fs.ErrNotExist, fs.ErrExist and
// fs.ErrPermission, so only the remaining cases are wrapped.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.GetKind(err) == errors.KindEncoding:
		return fmt.Errorf("%w: %w", fs.ErrInvalid, err)
	case errors.GetCode(err) == errors.CodeNotImplemented:
		return fmt.Errorf("%w: %w", core.ErrUnsupported, err)
	}

	return err
}

// PathError wraps an error in a fs.PathError for the given operation and path.
// If the error is nil, returns nil.
func PathError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &fs.PathError{Op: op, Path: path, Err: Translate(err)}
}

// PathErrorf creates a fs.PathError with a formatted error message.
func PathErrorf(op, path, format string, args ...interface{}) error {
	return &fs.PathError{Op: op, Path: path, Err: fmt.Errorf(format, args...)}
}
