package glusterfs

import (
	"io"
	"io/fs"
	"path"
	"syscall"

	"github.com/jmgilman/go/fs/core"

	"github.com/jmgilman/go/gluster/gfapi"
	"github.com/jmgilman/go/gluster/glusterfs/internal/errs"
	"github.com/jmgilman/go/gluster/glusterfs/internal/types"
)

// File is an open regular file on the volume.
// It implements core.File, io.Seeker, io.ReaderAt, io.WriterAt,
// core.Truncater and core.Syncer, and satisfies billy.File.
type File struct {
	f    *gfapi.File
	name string // Name as provided to Open or Create
}

func newFile(f *gfapi.File, name string) *File {
	return &File{f: f, name: name}
}

// ioError wraps err unless it is io.EOF, which callers compare directly.
func (f *File) ioError(op string, err error) error {
	if err == nil || err == io.EOF {
		return err
	}
	return errs.PathError(op, f.name, err)
}

// Name returns the name provided to Open or Create.
func (f *File) Name() string { return f.name }

// Read implements io.Reader.
func (f *File) Read(p []byte) (int, error) {
	n, err := f.f.Read(p)
	return n, f.ioError("read", err)
}

// Write implements io.Writer.
func (f *File) Write(p []byte) (int, error) {
	n, err := f.f.Write(p)
	return n, f.ioError("write", err)
}

// ReadAt implements io.ReaderAt.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	n, err := f.f.ReadAt(p, off)
	return n, f.ioError("read", err)
}

// WriteAt implements io.WriterAt.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	n, err := f.f.WriteAt(p, off)
	return n, f.ioError("write", err)
}

// Seek implements io.Seeker.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	n, err := f.f.Seek(offset, whence)
	return n, f.ioError("seek", err)
}

// Close releases the file descriptor.
func (f *File) Close() error {
	return f.ioError("close", f.f.Close())
}

// Stat returns file information for the open file.
func (f *File) Stat() (fs.FileInfo, error) {
	st, err := f.f.Stat()
	if err != nil {
		return nil, f.ioError("stat", err)
	}
	return types.NewFileInfo(path.Base(f.name), st), nil
}

// Truncate implements core.Truncater.
func (f *File) Truncate(size int64) error {
	return f.ioError("truncate", f.f.Truncate(size))
}

// Sync implements core.Syncer.
func (f *File) Sync() error {
	return f.ioError("sync", f.f.Sync())
}

// Lock is a no-op. Advisory locks are not taken on the volume.
func (f *File) Lock() error { return nil }

// Unlock is a no-op.
func (f *File) Unlock() error { return nil }

// dirFile is an open directory. Reads and writes fail with EISDIR.
type dirFile struct {
	fsys *FS
	d    *gfapi.Dir
	name string
}

func (d *dirFile) Name() string { return d.name }

func (d *dirFile) Read([]byte) (int, error) {
	return 0, errs.PathError("read", d.name, syscall.EISDIR)
}

func (d *dirFile) Write([]byte) (int, error) {
	return 0, errs.PathError("write", d.name, syscall.EISDIR)
}

func (d *dirFile) Stat() (fs.FileInfo, error) {
	return d.fsys.Stat(d.name)
}

func (d *dirFile) Close() error {
	return errs.PathError("close", d.name, d.d.Close())
}

// ReadDir implements fs.ReadDirFile. Entries are returned in server order.
func (d *dirFile) ReadDir(n int) ([]fs.DirEntry, error) {
	var entries []fs.DirEntry
	for n <= 0 || len(entries) < n {
		e, err := d.d.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return entries, errs.PathError("readdir", d.name, err)
		}
		if e.Name == "." || e.Name == ".." {
			continue
		}

		entry, err := d.fsys.dirEntry(d.name, e)
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}

	if n > 0 && len(entries) == 0 {
		return nil, io.EOF
	}
	return entries, nil
}

// Compile-time interface checks.
var (
	_ core.File      = (*File)(nil)
	_ io.Seeker      = (*File)(nil)
	_ io.ReaderAt    = (*File)(nil)
	_ io.WriterAt    = (*File)(nil)
	_ core.Truncater = (*File)(nil)
	_ core.Syncer    = (*File)(nil)

	_ core.File      = (*dirFile)(nil)
	_ fs.ReadDirFile = (*dirFile)(nil)
)
