package gfapi

import (
	"io"
	"runtime"
)

// File is an open file descriptor. It is released exactly once: by Close,
// by Disconnect on the owning Conn, or by a runtime cleanup if the File is
// dropped while still open. Calls on a closed File fail with fs.ErrClosed.
//
// File implements io.Reader, io.Writer, io.Seeker, io.ReaderAt, io.WriterAt
// and io.Closer on top of the flag-taking native calls.
type File struct {
	conn    *Conn // keeps the connection reachable while the file is open
	name    string
	d       *descriptor
	cleanup runtime.Cleanup
}

// fdCall invokes call with the live descriptor and checks its result.
func fdCall[T ~int | ~int64](d *descriptor, op string, call func(Driver, FD) T) (T, error) {
	fd, err := d.acquire(op)
	if err != nil {
		return 0, err
	}
	defer d.done()

	n, err := check(d.sess.drv, call(d.sess.drv, fd))
	return n, annotate(err, op, "path", d.name)
}

// Name returns the path the file was opened with.
func (f *File) Name() string { return f.name }

// Close releases the descriptor.
func (f *File) Close() error {
	f.cleanup.Stop()
	return f.d.close("close")
}

// ReadFlags reads up to len(p) bytes at the current offset.
func (f *File) ReadFlags(p []byte, flags int) (int64, error) {
	return fdCall(f.d, "read", func(drv Driver, fd FD) int64 { return drv.Read(fd, p, flags) })
}

// Read implements io.Reader.
func (f *File) Read(p []byte) (int, error) {
	n, err := f.ReadFlags(p, 0)
	if err != nil {
		return 0, err
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return int(n), nil
}

// WriteFlags writes p at the current offset.
func (f *File) WriteFlags(p []byte, flags int) (int64, error) {
	return fdCall(f.d, "write", func(drv Driver, fd FD) int64 { return drv.Write(fd, p, flags) })
}

// Write implements io.Writer.
func (f *File) Write(p []byte) (int, error) {
	n, err := f.WriteFlags(p, 0)
	if err != nil {
		return 0, err
	}
	if int(n) < len(p) {
		return int(n), io.ErrShortWrite
	}
	return int(n), nil
}

// Readv scatters data read at the current offset into bufs, in order.
func (f *File) Readv(bufs [][]byte, flags int) (int64, error) {
	return fdCall(f.d, "readv", func(drv Driver, fd FD) int64 { return drv.Readv(fd, bufs, flags) })
}

// Writev gathers bufs, in order, and writes them at the current offset.
func (f *File) Writev(bufs [][]byte, flags int) (int64, error) {
	return fdCall(f.d, "writev", func(drv Driver, fd FD) int64 { return drv.Writev(fd, bufs, flags) })
}

// Pread reads up to len(p) bytes at offset without moving the file offset.
func (f *File) Pread(p []byte, offset int64, flags int) (int64, error) {
	return fdCall(f.d, "pread", func(drv Driver, fd FD) int64 { return drv.Pread(fd, p, offset, flags) })
}

// Pwrite writes p at offset without moving the file offset.
func (f *File) Pwrite(p []byte, offset int64, flags int) (int64, error) {
	return fdCall(f.d, "pwrite", func(drv Driver, fd FD) int64 { return drv.Pwrite(fd, p, offset, flags) })
}

// Preadv scatters data read at offset into bufs, in order.
func (f *File) Preadv(bufs [][]byte, offset int64, flags int) (int64, error) {
	return fdCall(f.d, "preadv", func(drv Driver, fd FD) int64 { return drv.Preadv(fd, bufs, offset, flags) })
}

// Pwritev gathers bufs, in order, and writes them at offset.
func (f *File) Pwritev(bufs [][]byte, offset int64, flags int) (int64, error) {
	return fdCall(f.d, "pwritev", func(drv Driver, fd FD) int64 { return drv.Pwritev(fd, bufs, offset, flags) })
}

// ReadAt implements io.ReaderAt.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	read := 0
	for read < len(p) {
		n, err := f.Pread(p[read:], off+int64(read), 0)
		if err != nil {
			return read, err
		}
		if n == 0 {
			return read, io.EOF
		}
		read += int(n)
	}
	return read, nil
}

// WriteAt implements io.WriterAt.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	written := 0
	for written < len(p) {
		n, err := f.Pwrite(p[written:], off+int64(written), 0)
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
		written += int(n)
	}
	return written, nil
}

// Lseek sets the file offset and returns the new offset.
func (f *File) Lseek(offset int64, whence int) (int64, error) {
	return fdCall(f.d, "lseek", func(drv Driver, fd FD) int64 { return drv.Lseek(fd, offset, whence) })
}

// Seek implements io.Seeker.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	return f.Lseek(offset, whence)
}

// Truncate sets the file length. The offset is unchanged.
func (f *File) Truncate(length int64) error {
	_, err := fdCall(f.d, "ftruncate", func(drv Driver, fd FD) int { return drv.Ftruncate(fd, length) })
	return err
}

// Stat returns metadata for the open file.
func (f *File) Stat() (Stat, error) {
	var st Stat
	_, err := fdCall(f.d, "fstat", func(drv Driver, fd FD) int { return drv.Fstat(fd, &st.sys) })
	return st, err
}

// Sync flushes data and metadata to stable storage.
func (f *File) Sync() error {
	_, err := fdCall(f.d, "fsync", func(drv Driver, fd FD) int { return drv.Fsync(fd) })
	return err
}

// Datasync flushes data to stable storage.
func (f *File) Datasync() error {
	_, err := fdCall(f.d, "fdatasync", func(drv Driver, fd FD) int { return drv.Fdatasync(fd) })
	return err
}

// Chmod changes the permission bits of the open file.
func (f *File) Chmod(mode uint32) error {
	_, err := fdCall(f.d, "fchmod", func(drv Driver, fd FD) int { return drv.Fchmod(fd, mode) })
	return err
}
