package gfapi

import (
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/jmgilman/go/gluster/errors"
)

// translate converts a negative native return code into a KindNative error.
// If the platform description is not valid UTF-8 the decode failure is
// returned instead.
func translate(drv Driver, code int64) error {
	errno := syscall.Errno(-code)
	msg, err := decodeText(drv.Strerror(int(errno)))
	if err != nil {
		return err
	}
	return errors.Native(errno, msg)
}

// decodeText converts native text to a string.
func decodeText(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", errors.Decode(raw)
	}
	return string(raw), nil
}

// encodePath converts p to its NUL-terminated native form.
func encodePath(p string) (CString, error) {
	if i := strings.IndexByte(p, 0); i >= 0 {
		return nil, errors.Encoding(i)
	}
	cs := make(CString, len(p)+1)
	copy(cs, p)
	return cs, nil
}

// encodePaths encodes every path, failing on the first that cannot be
// encoded.
func encodePaths(paths ...string) ([]CString, error) {
	out := make([]CString, len(paths))
	for i, p := range paths {
		cs, err := encodePath(p)
		if err != nil {
			return nil, err
		}
		out[i] = cs
	}
	return out, nil
}
