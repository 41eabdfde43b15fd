//go:build cgo && gfapi

package gfapi

/*
#cgo pkg-config: glusterfs-api
#include <errno.h>
#include <stdlib.h>
#include <string.h>
#include <dirent.h>
#include <sys/stat.h>
#include <sys/uio.h>
#include <glusterfs/api/glfs.h>
*/
import "C"

import (
	"errors"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// cgoDriver calls libgfapi directly.
type cgoDriver struct{}

func newDriver() Driver { return cgoDriver{} }

// strerrorMu serialises strerror, which returns a pointer into a shared
// static buffer.
var strerrorMu sync.Mutex

func fsPtr(c Cluster) *C.glfs_t { return (*C.glfs_t)(unsafe.Pointer(uintptr(c))) }
func fdPtr(fd FD) *C.glfs_fd_t  { return (*C.glfs_fd_t)(unsafe.Pointer(uintptr(fd))) }

func cstr(s CString) *C.char {
	if len(s) == 0 {
		return nil
	}
	return (*C.char)(unsafe.Pointer(&s[0]))
}

func bufPtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

// negErrno converts the errno reported by cgo into the negated form used by
// Driver. A call that failed without setting errno reports EIO.
func negErrno(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return -int(errno)
	}
	return -int(syscall.EIO)
}

func result(r C.int, err error) int {
	if r < 0 {
		return negErrno(err)
	}
	return int(r)
}

func result64(r int64, err error) int64 {
	if r < 0 {
		return int64(negErrno(err))
	}
	return r
}

// iovecs builds a native iovec array over bufs. Each buffer is pinned for
// the duration of the call.
func iovecs(pin *runtime.Pinner, bufs [][]byte) (*C.struct_iovec, C.int) {
	if len(bufs) == 0 {
		return nil, 0
	}
	iov := make([]C.struct_iovec, len(bufs))
	for i, b := range bufs {
		if len(b) == 0 {
			continue
		}
		pin.Pin(&b[0])
		iov[i].iov_base = unsafe.Pointer(&b[0])
		iov[i].iov_len = C.size_t(len(b))
	}
	return &iov[0], C.int(len(bufs))
}

func (cgoDriver) New(volname CString) (Cluster, int) {
	h, err := C.glfs_new(cstr(volname))
	if h == nil {
		return 0, negErrno(err)
	}
	return Cluster(uintptr(unsafe.Pointer(h))), 0
}

func (cgoDriver) SetVolfileServer(c Cluster, transport, host CString, port int) int {
	r, err := C.glfs_set_volfile_server(fsPtr(c), cstr(transport), cstr(host), C.int(port))
	return result(r, err)
}

func (cgoDriver) SetLogging(c Cluster, logfile CString, level int) int {
	r, err := C.glfs_set_logging(fsPtr(c), cstr(logfile), C.int(level))
	return result(r, err)
}

func (cgoDriver) Init(c Cluster) int {
	r, err := C.glfs_init(fsPtr(c))
	return result(r, err)
}

func (cgoDriver) Fini(c Cluster) int {
	r, err := C.glfs_fini(fsPtr(c))
	return result(r, err)
}

func (cgoDriver) Open(c Cluster, path CString, flags int) (FD, int) {
	fd, err := C.glfs_open(fsPtr(c), cstr(path), C.int(flags))
	if fd == nil {
		return 0, negErrno(err)
	}
	return FD(uintptr(unsafe.Pointer(fd))), 0
}

func (cgoDriver) Creat(c Cluster, path CString, flags int, mode uint32) (FD, int) {
	fd, err := C.glfs_creat(fsPtr(c), cstr(path), C.int(flags), C.mode_t(mode))
	if fd == nil {
		return 0, negErrno(err)
	}
	return FD(uintptr(unsafe.Pointer(fd))), 0
}

func (cgoDriver) Opendir(c Cluster, path CString) (FD, int) {
	fd, err := C.glfs_opendir(fsPtr(c), cstr(path))
	if fd == nil {
		return 0, negErrno(err)
	}
	return FD(uintptr(unsafe.Pointer(fd))), 0
}

func (cgoDriver) Truncate(c Cluster, path CString, length int64) int {
	r, err := C.glfs_truncate(fsPtr(c), cstr(path), C.off_t(length))
	return result(r, err)
}

func (cgoDriver) Stat(c Cluster, path CString, st *unix.Stat_t) int {
	r, err := C.glfs_stat(fsPtr(c), cstr(path), (*C.struct_stat)(unsafe.Pointer(st)))
	return result(r, err)
}

func (cgoDriver) Lstat(c Cluster, path CString, st *unix.Stat_t) int {
	r, err := C.glfs_lstat(fsPtr(c), cstr(path), (*C.struct_stat)(unsafe.Pointer(st)))
	return result(r, err)
}

func (cgoDriver) Access(c Cluster, path CString, mode int) int {
	r, err := C.glfs_access(fsPtr(c), cstr(path), C.int(mode))
	return result(r, err)
}

func (cgoDriver) Symlink(c Cluster, oldpath, newpath CString) int {
	r, err := C.glfs_symlink(fsPtr(c), cstr(oldpath), cstr(newpath))
	return result(r, err)
}

func (cgoDriver) Readlink(c Cluster, path CString, buf []byte) int {
	r, err := C.glfs_readlink(fsPtr(c), cstr(path), (*C.char)(bufPtr(buf)), C.size_t(len(buf)))
	return result(r, err)
}

func (cgoDriver) Mknod(c Cluster, path CString, mode uint32, dev uint64) int {
	r, err := C.glfs_mknod(fsPtr(c), cstr(path), C.mode_t(mode), C.dev_t(dev))
	return result(r, err)
}

func (cgoDriver) Mkdir(c Cluster, path CString, mode uint32) int {
	r, err := C.glfs_mkdir(fsPtr(c), cstr(path), C.mode_t(mode))
	return result(r, err)
}

func (cgoDriver) Unlink(c Cluster, path CString) int {
	r, err := C.glfs_unlink(fsPtr(c), cstr(path))
	return result(r, err)
}

func (cgoDriver) Rmdir(c Cluster, path CString) int {
	r, err := C.glfs_rmdir(fsPtr(c), cstr(path))
	return result(r, err)
}

func (cgoDriver) Rename(c Cluster, oldpath, newpath CString) int {
	r, err := C.glfs_rename(fsPtr(c), cstr(oldpath), cstr(newpath))
	return result(r, err)
}

func (cgoDriver) Link(c Cluster, oldpath, newpath CString) int {
	r, err := C.glfs_link(fsPtr(c), cstr(oldpath), cstr(newpath))
	return result(r, err)
}

func (cgoDriver) Chmod(c Cluster, path CString, mode uint32) int {
	r, err := C.glfs_chmod(fsPtr(c), cstr(path), C.mode_t(mode))
	return result(r, err)
}

func (cgoDriver) Chown(c Cluster, path CString, uid, gid uint32) int {
	r, err := C.glfs_chown(fsPtr(c), cstr(path), C.uid_t(uid), C.gid_t(gid))
	return result(r, err)
}

func (cgoDriver) Utimens(c Cluster, path CString, times *[2]unix.Timespec) int {
	r, err := C.glfs_utimens(fsPtr(c), cstr(path), (*C.struct_timespec)(unsafe.Pointer(&times[0])))
	return result(r, err)
}

func (cgoDriver) Close(fd FD) int {
	r, err := C.glfs_close(fdPtr(fd))
	return result(r, err)
}

func (cgoDriver) Closedir(fd FD) int {
	r, err := C.glfs_closedir(fdPtr(fd))
	return result(r, err)
}

func (cgoDriver) Readdir(fd FD, ent *Dirent) int {
	d, err := C.glfs_readdir(fdPtr(fd))
	if d == nil {
		var errno syscall.Errno
		if errors.As(err, &errno) && errno != 0 {
			return -int(errno)
		}
		return 0
	}
	ent.Ino = uint64(d.d_ino)
	ent.Type = uint8(d.d_type)
	ent.Name = []byte(C.GoString(&d.d_name[0]))
	return 1
}

func (cgoDriver) Read(fd FD, buf []byte, flags int) int64 {
	r, err := C.glfs_read(fdPtr(fd), bufPtr(buf), C.size_t(len(buf)), C.int(flags))
	return result64(int64(r), err)
}

func (cgoDriver) Write(fd FD, buf []byte, flags int) int64 {
	r, err := C.glfs_write(fdPtr(fd), bufPtr(buf), C.size_t(len(buf)), C.int(flags))
	return result64(int64(r), err)
}

func (cgoDriver) Readv(fd FD, bufs [][]byte, flags int) int64 {
	var pin runtime.Pinner
	defer pin.Unpin()
	iov, n := iovecs(&pin, bufs)
	r, err := C.glfs_readv(fdPtr(fd), iov, n, C.int(flags))
	return result64(int64(r), err)
}

func (cgoDriver) Writev(fd FD, bufs [][]byte, flags int) int64 {
	var pin runtime.Pinner
	defer pin.Unpin()
	iov, n := iovecs(&pin, bufs)
	r, err := C.glfs_writev(fdPtr(fd), iov, n, C.int(flags))
	return result64(int64(r), err)
}

func (cgoDriver) Pread(fd FD, buf []byte, offset int64, flags int) int64 {
	r, err := C.glfs_pread(fdPtr(fd), bufPtr(buf), C.size_t(len(buf)), C.off_t(offset), C.int(flags), nil)
	return result64(int64(r), err)
}

func (cgoDriver) Pwrite(fd FD, buf []byte, offset int64, flags int) int64 {
	r, err := C.glfs_pwrite(fdPtr(fd), bufPtr(buf), C.size_t(len(buf)), C.off_t(offset), C.int(flags), nil, nil)
	return result64(int64(r), err)
}

func (cgoDriver) Preadv(fd FD, bufs [][]byte, offset int64, flags int) int64 {
	var pin runtime.Pinner
	defer pin.Unpin()
	iov, n := iovecs(&pin, bufs)
	r, err := C.glfs_preadv(fdPtr(fd), iov, n, C.off_t(offset), C.int(flags))
	return result64(int64(r), err)
}

func (cgoDriver) Pwritev(fd FD, bufs [][]byte, offset int64, flags int) int64 {
	var pin runtime.Pinner
	defer pin.Unpin()
	iov, n := iovecs(&pin, bufs)
	r, err := C.glfs_pwritev(fdPtr(fd), iov, n, C.off_t(offset), C.int(flags))
	return result64(int64(r), err)
}

func (cgoDriver) Lseek(fd FD, offset int64, whence int) int64 {
	r, err := C.glfs_lseek(fdPtr(fd), C.off_t(offset), C.int(whence))
	return result64(int64(r), err)
}

func (cgoDriver) Ftruncate(fd FD, length int64) int {
	r, err := C.glfs_ftruncate(fdPtr(fd), C.off_t(length), nil, nil)
	return result(r, err)
}

func (cgoDriver) Fstat(fd FD, st *unix.Stat_t) int {
	r, err := C.glfs_fstat(fdPtr(fd), (*C.struct_stat)(unsafe.Pointer(st)))
	return result(r, err)
}

func (cgoDriver) Fsync(fd FD) int {
	r, err := C.glfs_fsync(fdPtr(fd), nil, nil)
	return result(r, err)
}

func (cgoDriver) Fdatasync(fd FD) int {
	r, err := C.glfs_fdatasync(fdPtr(fd), nil, nil)
	return result(r, err)
}

func (cgoDriver) Fchmod(fd FD, mode uint32) int {
	r, err := C.glfs_fchmod(fdPtr(fd), C.mode_t(mode))
	return result(r, err)
}

func (cgoDriver) Strerror(errno int) []byte {
	strerrorMu.Lock()
	defer strerrorMu.Unlock()
	return []byte(C.GoString(C.strerror(C.int(errno))))
}
