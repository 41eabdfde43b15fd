//go:build !cgo || !gfapi

package gfapi

import (
	"syscall"

	"golang.org/x/sys/unix"
)

const enosys = -int(syscall.ENOSYS)

// stubDriver is linked when the binary is built without libgfapi. Every call
// fails with ENOSYS.
type stubDriver struct{}

func newDriver() Driver { return stubDriver{} }

func (stubDriver) New(CString) (Cluster, int)                          { return 0, enosys }
func (stubDriver) SetVolfileServer(Cluster, CString, CString, int) int { return enosys }
func (stubDriver) SetLogging(Cluster, CString, int) int                { return enosys }
func (stubDriver) Init(Cluster) int                                    { return enosys }
func (stubDriver) Fini(Cluster) int                                    { return enosys }

func (stubDriver) Open(Cluster, CString, int) (FD, int)          { return 0, enosys }
func (stubDriver) Creat(Cluster, CString, int, uint32) (FD, int) { return 0, enosys }
func (stubDriver) Opendir(Cluster, CString) (FD, int)            { return 0, enosys }

func (stubDriver) Truncate(Cluster, CString, int64) int            { return enosys }
func (stubDriver) Stat(Cluster, CString, *unix.Stat_t) int         { return enosys }
func (stubDriver) Lstat(Cluster, CString, *unix.Stat_t) int        { return enosys }
func (stubDriver) Access(Cluster, CString, int) int                { return enosys }
func (stubDriver) Symlink(Cluster, CString, CString) int           { return enosys }
func (stubDriver) Readlink(Cluster, CString, []byte) int           { return enosys }
func (stubDriver) Mknod(Cluster, CString, uint32, uint64) int      { return enosys }
func (stubDriver) Mkdir(Cluster, CString, uint32) int              { return enosys }
func (stubDriver) Unlink(Cluster, CString) int                     { return enosys }
func (stubDriver) Rmdir(Cluster, CString) int                      { return enosys }
func (stubDriver) Rename(Cluster, CString, CString) int            { return enosys }
func (stubDriver) Link(Cluster, CString, CString) int              { return enosys }
func (stubDriver) Chmod(Cluster, CString, uint32) int              { return enosys }
func (stubDriver) Chown(Cluster, CString, uint32, uint32) int      { return enosys }
func (stubDriver) Utimens(Cluster, CString, *[2]unix.Timespec) int { return enosys }

func (stubDriver) Close(FD) int                           { return enosys }
func (stubDriver) Closedir(FD) int                        { return enosys }
func (stubDriver) Readdir(FD, *Dirent) int                { return enosys }
func (stubDriver) Read(FD, []byte, int) int64             { return int64(enosys) }
func (stubDriver) Write(FD, []byte, int) int64            { return int64(enosys) }
func (stubDriver) Readv(FD, [][]byte, int) int64          { return int64(enosys) }
func (stubDriver) Writev(FD, [][]byte, int) int64         { return int64(enosys) }
func (stubDriver) Pread(FD, []byte, int64, int) int64     { return int64(enosys) }
func (stubDriver) Pwrite(FD, []byte, int64, int) int64    { return int64(enosys) }
func (stubDriver) Preadv(FD, [][]byte, int64, int) int64  { return int64(enosys) }
func (stubDriver) Pwritev(FD, [][]byte, int64, int) int64 { return int64(enosys) }
func (stubDriver) Lseek(FD, int64, int) int64             { return int64(enosys) }
func (stubDriver) Ftruncate(FD, int64) int                { return enosys }
func (stubDriver) Fstat(FD, *unix.Stat_t) int             { return enosys }
func (stubDriver) Fsync(FD) int                           { return enosys }
func (stubDriver) Fdatasync(FD) int                       { return enosys }
func (stubDriver) Fchmod(FD, uint32) int                  { return enosys }

func (stubDriver) Strerror(errno int) []byte {
	return []byte(syscall.Errno(errno).Error())
}
