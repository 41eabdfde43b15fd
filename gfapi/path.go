package gfapi

import (
	"runtime"
	"time"

	"golang.org/x/sys/unix"
)

// Path operations pass paths to the native layer verbatim. Every path is
// encoded before the native call; an embedded NUL fails the operation with a
// KindEncoding error.

// pathCall encodes paths, invokes call with the live handle and annotates any
// failure with op and the path arguments.
func (c *Conn) pathCall(op string, keys []string, paths []string, call func(Driver, Cluster, []CString) int) error {
	kv := make([]string, 0, 2*len(paths))
	for i, p := range paths {
		kv = append(kv, keys[i], p)
	}

	cs, err := encodePaths(paths...)
	if err != nil {
		return annotate(err, op, kv...)
	}
	h, err := c.acquire(op)
	if err != nil {
		return annotate(err, op, kv...)
	}
	defer c.done()

	_, err = check(c.s.drv, call(c.s.drv, h, cs))
	return annotate(err, op, kv...)
}

var (
	onePath = []string{"path"}
	twoPath = []string{"oldpath", "newpath"}
)

// Stat returns metadata for path, following symbolic links.
func (c *Conn) Stat(path string) (Stat, error) {
	var st Stat
	err := c.pathCall("stat", onePath, []string{path}, func(drv Driver, h Cluster, p []CString) int {
		return drv.Stat(h, p[0], &st.sys)
	})
	return st, err
}

// Lstat returns metadata for path without following a final symbolic link.
func (c *Conn) Lstat(path string) (Stat, error) {
	var st Stat
	err := c.pathCall("lstat", onePath, []string{path}, func(drv Driver, h Cluster, p []CString) int {
		return drv.Lstat(h, p[0], &st.sys)
	})
	return st, err
}

// Truncate sets the length of the file at path.
func (c *Conn) Truncate(path string, length int64) error {
	return c.pathCall("truncate", onePath, []string{path}, func(drv Driver, h Cluster, p []CString) int {
		return drv.Truncate(h, p[0], length)
	})
}

// Access checks the caller's permissions for path. mode is a mask of
// unix.R_OK, unix.W_OK, unix.X_OK or unix.F_OK.
func (c *Conn) Access(path string, mode int) error {
	return c.pathCall("access", onePath, []string{path}, func(drv Driver, h Cluster, p []CString) int {
		return drv.Access(h, p[0], mode)
	})
}

// Symlink creates newpath as a symbolic link to oldpath.
func (c *Conn) Symlink(oldpath, newpath string) error {
	return c.pathCall("symlink", twoPath, []string{oldpath, newpath}, func(drv Driver, h Cluster, p []CString) int {
		return drv.Symlink(h, p[0], p[1])
	})
}

// Readlink reads the target of the symbolic link at path into buf and
// returns the number of bytes placed in it. The target is not
// NUL-terminated and is truncated if buf is too small.
func (c *Conn) Readlink(path string, buf []byte) (int, error) {
	var n int
	err := c.pathCall("readlink", onePath, []string{path}, func(drv Driver, h Cluster, p []CString) int {
		n = drv.Readlink(h, p[0], buf)
		return n
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Mknod creates a filesystem node. mode carries both the type and the
// permission bits.
func (c *Conn) Mknod(path string, mode uint32, dev uint64) error {
	return c.pathCall("mknod", onePath, []string{path}, func(drv Driver, h Cluster, p []CString) int {
		return drv.Mknod(h, p[0], mode, dev)
	})
}

// Mkdir creates a directory.
func (c *Conn) Mkdir(path string, mode uint32) error {
	return c.pathCall("mkdir", onePath, []string{path}, func(drv Driver, h Cluster, p []CString) int {
		return drv.Mkdir(h, p[0], mode)
	})
}

// Unlink removes a non-directory entry.
func (c *Conn) Unlink(path string) error {
	return c.pathCall("unlink", onePath, []string{path}, func(drv Driver, h Cluster, p []CString) int {
		return drv.Unlink(h, p[0])
	})
}

// Rmdir removes an empty directory.
func (c *Conn) Rmdir(path string) error {
	return c.pathCall("rmdir", onePath, []string{path}, func(drv Driver, h Cluster, p []CString) int {
		return drv.Rmdir(h, p[0])
	})
}

// Rename moves oldpath to newpath.
func (c *Conn) Rename(oldpath, newpath string) error {
	return c.pathCall("rename", twoPath, []string{oldpath, newpath}, func(drv Driver, h Cluster, p []CString) int {
		return drv.Rename(h, p[0], p[1])
	})
}

// Link creates newpath as a hard link to oldpath.
func (c *Conn) Link(oldpath, newpath string) error {
	return c.pathCall("link", twoPath, []string{oldpath, newpath}, func(drv Driver, h Cluster, p []CString) int {
		return drv.Link(h, p[0], p[1])
	})
}

// Chmod changes the permission bits of path.
func (c *Conn) Chmod(path string, mode uint32) error {
	return c.pathCall("chmod", onePath, []string{path}, func(drv Driver, h Cluster, p []CString) int {
		return drv.Chmod(h, p[0], mode)
	})
}

// Chown changes the owner and group of path.
func (c *Conn) Chown(path string, uid, gid uint32) error {
	return c.pathCall("chown", onePath, []string{path}, func(drv Driver, h Cluster, p []CString) int {
		return drv.Chown(h, p[0], uid, gid)
	})
}

// Utimens sets the access and modification times of path. A zero time
// leaves the corresponding timestamp unchanged.
func (c *Conn) Utimens(path string, atime, mtime time.Time) error {
	times := [2]unix.Timespec{timespec(atime), timespec(mtime)}
	return c.pathCall("utimens", onePath, []string{path}, func(drv Driver, h Cluster, p []CString) int {
		return drv.Utimens(h, p[0], &times)
	})
}

func timespec(t time.Time) unix.Timespec {
	if t.IsZero() {
		return unix.Timespec{Nsec: unix.UTIME_OMIT}
	}
	return unix.NsecToTimespec(t.UnixNano())
}

// Open opens an existing file. flags are the usual unix.O_* bits.
func (c *Conn) Open(path string, flags int) (*File, error) {
	d, err := c.openCall("open", path, "file", closeFile, func(drv Driver, h Cluster, p CString) (FD, int) {
		return drv.Open(h, p, flags)
	})
	if err != nil {
		return nil, err
	}
	return c.newFile(d, path), nil
}

// Create creates and opens a file, or opens it if it already exists and
// flags do not include O_EXCL.
func (c *Conn) Create(path string, flags int, mode uint32) (*File, error) {
	d, err := c.openCall("create", path, "file", closeFile, func(drv Driver, h Cluster, p CString) (FD, int) {
		return drv.Creat(h, p, flags, mode)
	})
	if err != nil {
		return nil, err
	}
	return c.newFile(d, path), nil
}

// Opendir opens a directory for reading.
func (c *Conn) Opendir(path string) (*Dir, error) {
	d, err := c.openCall("opendir", path, "directory", closeDir, func(drv Driver, h Cluster, p CString) (FD, int) {
		return drv.Opendir(h, p)
	})
	if err != nil {
		return nil, err
	}
	dir := &Dir{conn: c, path: path, d: d}
	dir.cleanup = runtime.AddCleanup(dir, releaseLost, d)
	return dir, nil
}

// openCall runs a descriptor-returning call and registers the descriptor
// before the connection is let go, so Disconnect cannot miss it.
func (c *Conn) openCall(op, path, what string, release func(Driver, FD) int, call func(Driver, Cluster, CString) (FD, int)) (*descriptor, error) {
	cs, err := encodePath(path)
	if err != nil {
		return nil, annotate(err, op, "path", path)
	}
	h, err := c.acquire(op)
	if err != nil {
		return nil, annotate(err, op, "path", path)
	}
	defer c.done()

	fd, ret := call(c.s.drv, h, cs)
	if fd, err = checkHandle(c.s.drv, fd, ret); err != nil {
		return nil, annotate(err, op, "path", path)
	}
	return newDescriptor(c.s, fd, what, path, release), nil
}

func (c *Conn) newFile(d *descriptor, path string) *File {
	f := &File{conn: c, name: path, d: d}
	f.cleanup = runtime.AddCleanup(f, releaseLost, d)
	return f
}

// releaseLost closes the descriptor of a handle that became unreachable
// without being closed.
func releaseLost(d *descriptor) { _ = d.close("cleanup") }
