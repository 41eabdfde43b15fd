package gfapi

import (
	"io/fs"
	"syscall"

	"github.com/jmgilman/go/gluster/errors"
)

// check applies the negative-return-code convention to ret.
func check[T ~int | ~int64](drv Driver, ret T) (T, error) {
	if ret < 0 {
		return 0, translate(drv, int64(ret))
	}
	return ret, nil
}

// checkHandle applies the null-handle convention. A null handle reported
// without an error code is treated as EIO.
func checkHandle[H ~uintptr](drv Driver, h H, ret int) (H, error) {
	if h != 0 {
		return h, nil
	}
	if ret >= 0 {
		ret = -int(syscall.EIO)
	}
	return 0, translate(drv, int64(ret))
}

// annotate attaches the operation and its path arguments to err.
func annotate(err error, op string, kv ...string) error {
	if err == nil {
		return nil
	}
	ctx := map[string]interface{}{"op": op}
	for i := 0; i+1 < len(kv); i += 2 {
		ctx[kv[i]] = kv[i+1]
	}
	return errors.WithContextMap(err, ctx)
}

// errClosed reports an operation on a released connection or a closed
// handle.
func errClosed(what, op string) error {
	return annotate(errors.Wrap(fs.ErrClosed, errors.CodeClosed, what+" already closed"), op)
}
