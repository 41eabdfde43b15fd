package gfapi

import "golang.org/x/sys/unix"

// Cluster is an opaque native cluster handle. The zero value is the null
// handle.
type Cluster uintptr

// FD is an opaque native file or directory descriptor. The zero value is the
// null descriptor.
type FD uintptr

// CString is a NUL-terminated byte string in the native calling convention.
// A nil CString is passed to the native layer as a null pointer.
type CString []byte

// Dirent is a raw directory entry as returned by the native layer.
type Dirent struct {
	Ino  uint64
	Type uint8
	Name []byte
}

// Driver is the native call surface used by the binding.
//
// Calls returning an int or int64 follow the negative-return-code convention:
// a non-negative value is success and a negative value is the negated errno.
// Calls returning a handle or descriptor report failure with a null value
// together with the negated errno.
type Driver interface {
	New(volname CString) (Cluster, int)
	SetVolfileServer(c Cluster, transport, host CString, port int) int
	SetLogging(c Cluster, logfile CString, level int) int
	Init(c Cluster) int
	Fini(c Cluster) int

	Open(c Cluster, path CString, flags int) (FD, int)
	Creat(c Cluster, path CString, flags int, mode uint32) (FD, int)
	Opendir(c Cluster, path CString) (FD, int)

	Truncate(c Cluster, path CString, length int64) int
	Stat(c Cluster, path CString, st *unix.Stat_t) int
	Lstat(c Cluster, path CString, st *unix.Stat_t) int
	Access(c Cluster, path CString, mode int) int
	Symlink(c Cluster, oldpath, newpath CString) int
	Readlink(c Cluster, path CString, buf []byte) int
	Mknod(c Cluster, path CString, mode uint32, dev uint64) int
	Mkdir(c Cluster, path CString, mode uint32) int
	Unlink(c Cluster, path CString) int
	Rmdir(c Cluster, path CString) int
	Rename(c Cluster, oldpath, newpath CString) int
	Link(c Cluster, oldpath, newpath CString) int
	Chmod(c Cluster, path CString, mode uint32) int
	Chown(c Cluster, path CString, uid, gid uint32) int
	Utimens(c Cluster, path CString, times *[2]unix.Timespec) int

	Close(fd FD) int
	Closedir(fd FD) int
	// Readdir fills ent and returns 1, or returns 0 at the end of the stream.
	Readdir(fd FD, ent *Dirent) int
	Read(fd FD, buf []byte, flags int) int64
	Write(fd FD, buf []byte, flags int) int64
	Readv(fd FD, iov [][]byte, flags int) int64
	Writev(fd FD, iov [][]byte, flags int) int64
	Pread(fd FD, buf []byte, offset int64, flags int) int64
	Pwrite(fd FD, buf []byte, offset int64, flags int) int64
	Preadv(fd FD, iov [][]byte, offset int64, flags int) int64
	Pwritev(fd FD, iov [][]byte, offset int64, flags int) int64
	Lseek(fd FD, offset int64, whence int) int64
	Ftruncate(fd FD, length int64) int
	Fstat(fd FD, st *unix.Stat_t) int
	Fsync(fd FD) int
	Fdatasync(fd FD) int
	Fchmod(fd FD, mode uint32) int

	// Strerror returns the platform description of errno. Implementations
	// must be safe for concurrent use.
	Strerror(errno int) []byte
}
