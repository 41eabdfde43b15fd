// Package gfapi is a checked binding over the GlusterFS native client library
// (libgfapi).
//
// A Conn owns one cluster handle. Path operations are methods on Conn; Open,
// Create and Opendir return owning File and Dir handles whose native
// descriptors are released exactly once, by Close, by Conn.Disconnect or by a
// runtime cleanup when the handle becomes unreachable.
//
// Every failure is an errors.Error from github.com/jmgilman/go/gluster/errors:
//
//   - a negative native return code becomes a KindNative error carrying the
//     errno and its platform description;
//   - a path containing a NUL byte becomes a KindEncoding error and the native
//     layer is never called;
//   - a description that is not valid UTF-8 becomes a KindDecode error.
//
// Native errors unwrap to their syscall.Errno, so errors.Is(err,
// fs.ErrNotExist) works as expected.
//
// # Drivers
//
// All native calls go through the Driver interface. Building with cgo and the
// "gfapi" build tag links the real library through pkg-config
// (glusterfs-api). Without the tag every call fails with ENOSYS. Tests use the
// in-memory driver from package gfapitest.
//
//	conn, err := gfapi.ConnectConfig(gfapi.Config{
//	    Volume:  "testvol",
//	    Servers: []gfapi.Server{{Host: "gluster1"}},
//	})
//	if err != nil {
//	    return err
//	}
//	defer conn.Disconnect()
//
//	f, err := conn.Create("/tmp/a", unix.O_RDWR, 0o644)
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	_, err = f.Write([]byte("hello"))
//
// The package targets Linux, the only platform libgfapi supports.
package gfapi
