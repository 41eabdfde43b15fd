package glusterfs

import (
	"os"
	"path"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/jmgilman/go/fs/core"

	"github.com/jmgilman/go/gluster/glusterfs/internal/errs"
)

// BillyFS exposes an FS as a billy.Filesystem for go-git integration.
//
// Unlike core.FS, billy creates missing parent directories when a file is
// created, renamed or linked, and Chroot does not require the directory to
// exist yet.
type BillyFS struct {
	fsys *FS
}

// Billy returns a billy.Filesystem view of the filesystem.
func (g *FS) Billy() *BillyFS {
	return &BillyFS{fsys: g}
}

// Unwrap returns the underlying FS.
func (b *BillyFS) Unwrap() *FS {
	return b.fsys
}

// Capabilities reports what the files support. Locking is not.
func (b *BillyFS) Capabilities() billy.Capability {
	return billy.WriteCapability |
		billy.ReadCapability |
		billy.ReadAndWriteCapability |
		billy.SeekCapability |
		billy.TruncateCapability
}

// Create creates or truncates the named file.
func (b *BillyFS) Create(filename string) (billy.File, error) {
	return b.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
}

// Open opens the named file for reading.
func (b *BillyFS) Open(filename string) (billy.File, error) {
	return b.OpenFile(filename, os.O_RDONLY, 0)
}

// OpenFile opens the named file with the specified flags and permissions.
func (b *BillyFS) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	if flag&os.O_CREATE != 0 {
		if err := b.createParent(filename); err != nil {
			return nil, err
		}
	}

	f, err := b.fsys.openFile(filename, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (b *BillyFS) createParent(filename string) error {
	return b.fsys.MkdirAll(path.Dir(filename), 0o777)
}

// Stat returns file information, following symbolic links.
func (b *BillyFS) Stat(filename string) (os.FileInfo, error) {
	return b.fsys.Stat(filename)
}

// Rename renames oldpath to newpath, creating the parent of newpath.
func (b *BillyFS) Rename(oldpath, newpath string) error {
	if err := b.createParent(newpath); err != nil {
		return err
	}
	return b.fsys.Rename(oldpath, newpath)
}

// Remove removes the named file or empty directory.
func (b *BillyFS) Remove(filename string) error {
	return b.fsys.Remove(filename)
}

// Join joins path elements with slashes.
func (b *BillyFS) Join(elem ...string) string {
	return path.Join(elem...)
}

// TempFile creates a new file in dir whose name starts with prefix.
func (b *BillyFS) TempFile(dir, prefix string) (billy.File, error) {
	if dir != "" {
		if err := b.fsys.MkdirAll(dir, 0o777); err != nil {
			return nil, err
		}
	}

	f, err := b.fsys.tempFile(dir, prefix)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ReadDir returns file information for the entries of a directory, sorted
// by name.
func (b *BillyFS) ReadDir(dirname string) ([]os.FileInfo, error) {
	entries, err := b.fsys.ReadDir(dirname)
	if err != nil {
		return nil, err
	}

	infos := make([]os.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// MkdirAll creates a directory path, including any necessary parents.
func (b *BillyFS) MkdirAll(filename string, perm os.FileMode) error {
	return b.fsys.MkdirAll(filename, perm)
}

// Lstat returns file information without following symbolic links.
func (b *BillyFS) Lstat(filename string) (os.FileInfo, error) {
	return b.fsys.Lstat(filename)
}

// Symlink creates link pointing to target, creating the parent of link.
func (b *BillyFS) Symlink(target, link string) error {
	if err := b.createParent(link); err != nil {
		return err
	}
	return b.fsys.Symlink(target, link)
}

// Readlink returns the destination of the named symbolic link.
func (b *BillyFS) Readlink(link string) (string, error) {
	return b.fsys.Readlink(link)
}

// Chmod changes the mode of the named file.
func (b *BillyFS) Chmod(name string, mode os.FileMode) error {
	return b.fsys.Chmod(name, mode)
}

// Chown changes the numeric owner and group of the named file.
func (b *BillyFS) Chown(name string, uid, gid int) error {
	return b.fsys.Chown(name, uid, gid)
}

// Lchown is not supported.
func (b *BillyFS) Lchown(name string, _, _ int) error {
	return errs.PathErrorf("lchown", name, "%w", core.ErrUnsupported)
}

// Chtimes changes the access and modification times of the named file.
func (b *BillyFS) Chtimes(name string, atime, mtime time.Time) error {
	return b.fsys.Chtimes(name, atime, mtime)
}

// Chroot returns a view rooted at p. The directory does not need to exist.
func (b *BillyFS) Chroot(p string) (billy.Filesystem, error) {
	return &BillyFS{fsys: b.fsys.sub(p)}, nil
}

// Root returns the volume path the view is rooted at.
func (b *BillyFS) Root() string {
	return b.fsys.joinPath(".")
}

// Compile-time interface checks.
var (
	_ billy.Filesystem = (*BillyFS)(nil)
	_ billy.Change     = (*BillyFS)(nil)
	_ billy.Capable    = (*BillyFS)(nil)
	_ billy.File       = (*File)(nil)
)
