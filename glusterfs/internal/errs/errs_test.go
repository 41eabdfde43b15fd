package errs

import (
	stderrors "errors"
	"io/fs"
	"syscall"
	"testing"

	"github.com/jmgilman/go/fs/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/gluster/errors"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		wantIs error
	}{
		{"not found", errors.Native(syscall.ENOENT, "No such file or directory"), fs.ErrNotExist},
		{"exists", errors.Native(syscall.EEXIST, "File exists"), fs.ErrExist},
		{"permission", errors.Native(syscall.EACCES, "Permission denied"), fs.ErrPermission},
		{"closed", errors.Wrap(fs.ErrClosed, errors.CodeClosed, "file already closed"), fs.ErrClosed},
		{"encoding", errors.Encoding(2), fs.ErrInvalid},
		{"not implemented", errors.Native(syscall.ENOSYS, "Function not implemented"), core.ErrUnsupported},
		{"not supported", errors.Native(syscall.EOPNOTSUPP, "Operation not supported"), core.ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.err)
			assert.True(t, stderrors.Is(got, tt.wantIs))
			assert.Equal(t, errors.GetCode(tt.err), errors.GetCode(got), "structured details survive")
		})
	}
}

func TestTranslate_Nil(t *testing.T) {
	require.NoError(t, Translate(nil))
	require.NoError(t, PathError("stat", "a", nil))
}

func TestPathError(t *testing.T) {
	err := PathError("stat", "a/b", errors.Native(syscall.ENOENT, "No such file or directory"))

	var pe *fs.PathError
	require.True(t, stderrors.As(err, &pe))
	assert.Equal(t, "stat", pe.Op)
	assert.Equal(t, "a/b", pe.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, syscall.ENOENT, errors.GetErrno(err))
}

func TestPathErrorf(t *testing.T) {
	err := PathErrorf("open", "a", "%w: O_APPEND", core.ErrUnsupported)
	assert.ErrorIs(t, err, core.ErrUnsupported)
	assert.Equal(t, "open a: operation not supported: O_APPEND", err.Error())
}
