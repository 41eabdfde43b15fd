package glusterfs

import (
	"bytes"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jmgilman/go/fs/core"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/jmgilman/go/gluster/errors"
	"github.com/jmgilman/go/gluster/gfapi"
	"github.com/jmgilman/go/gluster/glusterfs/internal/errs"
	"github.com/jmgilman/go/gluster/glusterfs/internal/pathutil"
	"github.com/jmgilman/go/gluster/glusterfs/internal/types"
)

// DefaultTempDir is the directory, relative to the filesystem root, used by
// TempFile and TempDir when dir is empty. It is created on first use.
const DefaultTempDir = "tmp"

// FS implements core.FS on a GlusterFS volume.
//
// Names are slash-separated and relative to the filesystem root; they cannot
// climb above it. Symbolic link targets are stored as given and resolved by
// the server relative to the volume, not the filesystem root.
type FS struct {
	conn              *gfapi.Conn
	owned             bool   // Close disconnects conn
	prefix            string // Optional root directory on the volume
	removeConcurrency int    // Max concurrent unlinks for RemoveAll
}

// New creates a GlusterFS-backed filesystem.
// Returns error if configuration is invalid, the connection fails or the
// prefix is not a directory.
func New(cfg Config) (*FS, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	conn, owned := cfg.Conn, false
	if conn == nil {
		var err error
		if conn, err = gfapi.ConnectConfig(cfg.Config); err != nil {
			return nil, err
		}
		owned = true
	}

	concurrency := cfg.MaxRemoveConcurrency
	if concurrency == 0 {
		concurrency = DefaultRemoveConcurrency
	}

	g := &FS{
		conn:              conn,
		owned:             owned,
		prefix:            pathutil.NormalizePrefix(cfg.Prefix),
		removeConcurrency: concurrency,
	}

	if g.prefix != "" {
		if err := g.checkDir("new", "."); err != nil {
			_ = g.Close()
			return nil, err
		}
	}

	return g, nil
}

// Conn returns the underlying connection.
func (g *FS) Conn() *gfapi.Conn { return g.conn }

// Close disconnects the volume if the filesystem opened the connection.
// Files still open are released and fail with fs.ErrClosed afterwards.
func (g *FS) Close() error {
	if g.owned {
		g.conn.Disconnect()
	}
	return nil
}

// joinPath maps name to an absolute path on the volume.
func (g *FS) joinPath(name string) string {
	return pathutil.JoinPath(g.prefix, name)
}

func baseName(name string) string {
	return path.Base(pathutil.Normalize(name))
}

// checkDir fails unless name is an existing directory.
func (g *FS) checkDir(op, name string) error {
	st, err := g.conn.Stat(g.joinPath(name))
	if err != nil {
		return errs.PathError(op, name, err)
	}
	if !st.IsDir() {
		return errs.PathError(op, name, syscall.ENOTDIR)
	}
	return nil
}

// Open opens the named file or directory for reading.
// Directories are returned as fs.ReadDirFile.
func (g *FS) Open(name string) (fs.File, error) {
	return g.open(name)
}

func (g *FS) open(name string) (core.File, error) {
	p := g.joinPath(name)

	st, err := g.conn.Stat(p)
	if err != nil {
		return nil, errs.PathError("open", name, err)
	}

	if st.IsDir() {
		d, err := g.conn.Opendir(p)
		if err != nil {
			return nil, errs.PathError("open", name, err)
		}
		return &dirFile{fsys: g, d: d, name: name}, nil
	}

	f, err := g.conn.Open(p, unix.O_RDONLY)
	if err != nil {
		return nil, errs.PathError("open", name, err)
	}
	return newFile(f, name), nil
}

// Stat returns file information for the named file, following symbolic
// links.
func (g *FS) Stat(name string) (fs.FileInfo, error) {
	st, err := g.conn.Stat(g.joinPath(name))
	if err != nil {
		return nil, errs.PathError("stat", name, err)
	}
	return types.NewFileInfo(baseName(name), st), nil
}

// Lstat returns file information for the named file without following
// symbolic links.
func (g *FS) Lstat(name string) (fs.FileInfo, error) {
	st, err := g.conn.Lstat(g.joinPath(name))
	if err != nil {
		return nil, errs.PathError("lstat", name, err)
	}
	return types.NewFileInfo(baseName(name), st), nil
}

// ReadDir reads the directory named by name and returns a list of directory
// entries sorted by filename.
func (g *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	d, err := g.conn.Opendir(g.joinPath(name))
	if err != nil {
		return nil, errs.PathError("readdir", name, err)
	}
	defer func() {
		_ = d.Close()
	}()

	raw, err := d.ReadAll()
	if err != nil {
		return nil, errs.PathError("readdir", name, err)
	}

	entries := make([]fs.DirEntry, 0, len(raw))
	for _, e := range raw {
		entry, err := g.dirEntry(name, e)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	// Native order is hash order on distributed volumes
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	return entries, nil
}

// dirEntry converts a native entry read from dir. Entries without a type
// are resolved with Lstat.
func (g *FS) dirEntry(dir string, e gfapi.DirEntry) (fs.DirEntry, error) {
	name := pathutil.BuildEntryPath(pathutil.Normalize(dir), e.Name)
	lookup := func() (fs.FileInfo, error) { return g.Lstat(name) }

	if e.Type != unix.DT_UNKNOWN {
		return types.NewDirEntry(e.Name, e.Mode(), lookup), nil
	}

	info, err := lookup()
	if err != nil {
		return nil, err
	}
	return fs.FileInfoToDirEntry(info), nil
}

// ReadFile reads the named file and returns the contents.
func (g *FS) ReadFile(name string) ([]byte, error) {
	f, err := g.conn.Open(g.joinPath(name), unix.O_RDONLY)
	if err != nil {
		return nil, errs.PathError("readfile", name, err)
	}
	defer func() {
		_ = f.Close()
	}()

	st, err := f.Stat()
	if err != nil {
		return nil, errs.PathError("readfile", name, err)
	}

	// Size is a hint; the file may change while it is read
	var buf bytes.Buffer
	buf.Grow(int(st.Size()))
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, errs.PathError("readfile", name, err)
	}

	return buf.Bytes(), nil
}

// Exists reports whether the named file or directory exists.
func (g *FS) Exists(name string) (bool, error) {
	_, err := g.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Create creates or truncates the named file, opened for reading and
// writing.
func (g *FS) Create(name string) (core.File, error) {
	return g.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
}

// OpenFile opens the named file with the specified flags and permissions.
// All os.O_* flags are passed to the server. Read-only opens behave like
// Open and may return a directory.
func (g *FS) OpenFile(name string, flag int, perm fs.FileMode) (core.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) == 0 {
		return g.open(name)
	}

	f, err := g.openFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// openFile opens a regular file, creating it when flag includes O_CREATE.
func (g *FS) openFile(name string, flag int, perm fs.FileMode) (*File, error) {
	p := g.joinPath(name)

	var (
		f   *gfapi.File
		err error
	)
	if flag&os.O_CREATE != 0 {
		f, err = g.conn.Create(p, flag, gfapi.NativeMode(perm))
	} else {
		f, err = g.conn.Open(p, flag)
	}
	if err != nil {
		return nil, errs.PathError("open", name, err)
	}

	return newFile(f, name), nil
}

// WriteFile writes data to the named file, creating it if necessary.
func (g *FS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	f, err := g.openFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := f.Write(data); err != nil {
		return err
	}

	return f.Close()
}

// Mkdir creates a new directory with the specified name and permissions.
func (g *FS) Mkdir(name string, perm fs.FileMode) error {
	err := g.conn.Mkdir(g.joinPath(name), gfapi.NativeMode(perm))
	return errs.PathError("mkdir", name, err)
}

// MkdirAll creates a directory path, including any necessary parents.
func (g *FS) MkdirAll(name string, perm fs.FileMode) error {
	name = pathutil.Normalize(name)

	st, err := g.conn.Stat(g.joinPath(name))
	if err == nil {
		if st.IsDir() {
			return nil
		}
		return errs.PathError("mkdir", name, syscall.ENOTDIR)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return errs.PathError("mkdir", name, err)
	}

	if parent := path.Dir(name); parent != "." {
		if err := g.MkdirAll(parent, perm); err != nil {
			return err
		}
	}

	if err := g.conn.Mkdir(g.joinPath(name), gfapi.NativeMode(perm)); err != nil {
		// Another client may have created it in the meantime
		if st, statErr := g.conn.Lstat(g.joinPath(name)); statErr == nil && st.IsDir() {
			return nil
		}
		return errs.PathError("mkdir", name, err)
	}

	return nil
}

// Remove removes the named file or empty directory.
func (g *FS) Remove(name string) error {
	p := g.joinPath(name)

	st, err := g.conn.Lstat(p)
	if err != nil {
		return errs.PathError("remove", name, err)
	}

	if st.IsDir() {
		err = g.conn.Rmdir(p)
	} else {
		err = g.conn.Unlink(p)
	}
	return errs.PathError("remove", name, err)
}

// RemoveAll removes path and any children it contains.
// Files are unlinked by a bounded worker pool, then directories are removed
// deepest first. Entries that disappear concurrently are ignored.
func (g *FS) RemoveAll(name string) error {
	name = pathutil.Normalize(name)
	if name == "." {
		return errs.PathError("removeall", name, syscall.EINVAL)
	}

	st, err := g.conn.Lstat(g.joinPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errs.PathError("removeall", name, err)
	}
	if !st.IsDir() {
		return g.removeGone(g.conn.Unlink, name)
	}

	var files, dirs []string
	err = g.Walk(name, func(p string, d fs.DirEntry, err error) error {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil
		case err != nil:
			return err
		case d.IsDir():
			dirs = append(dirs, p)
		default:
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return err
	}

	eg := new(errgroup.Group)
	eg.SetLimit(g.removeConcurrency)
	for _, f := range files {
		eg.Go(func() error {
			return g.removeGone(g.conn.Unlink, f)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	// Walk visits parents first
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := g.removeGone(g.conn.Rmdir, dirs[i]); err != nil {
			return err
		}
	}

	return nil
}

// removeGone runs remove on name, treating a missing entry as removed.
func (g *FS) removeGone(remove func(string) error, name string) error {
	if err := remove(g.joinPath(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errs.PathError("removeall", name, err)
	}
	return nil
}

// Rename renames (moves) oldpath to newpath. The rename is atomic on the
// server, for files and directories alike.
func (g *FS) Rename(oldpath, newpath string) error {
	err := g.conn.Rename(g.joinPath(oldpath), g.joinPath(newpath))
	return errs.PathError("rename", oldpath, err)
}

// Link creates newname as a hard link to oldname.
func (g *FS) Link(oldname, newname string) error {
	err := g.conn.Link(g.joinPath(oldname), g.joinPath(newname))
	return errs.PathError("link", newname, err)
}

// Truncate changes the size of the named file.
func (g *FS) Truncate(name string, size int64) error {
	err := g.conn.Truncate(g.joinPath(name), size)
	return errs.PathError("truncate", name, err)
}

// Chroot returns a new filesystem rooted at dir, sharing the connection.
// Closing the returned filesystem does not disconnect.
func (g *FS) Chroot(dir string) (core.FS, error) {
	if err := g.checkDir("chroot", dir); err != nil {
		return nil, err
	}
	return g.sub(dir), nil
}

// sub returns a view rooted at dir without checking that it exists.
func (g *FS) sub(dir string) *FS {
	return &FS{
		conn:              g.conn,
		prefix:            pathutil.NormalizePrefix(g.joinPath(dir)),
		removeConcurrency: g.removeConcurrency,
	}
}

// Type returns FSTypeRemote.
func (g *FS) Type() core.FSType {
	return core.FSTypeRemote
}

// Chmod changes the mode of the named file. Symbolic links are followed.
func (g *FS) Chmod(name string, mode fs.FileMode) error {
	err := g.conn.Chmod(g.joinPath(name), gfapi.NativeMode(mode))
	return errs.PathError("chmod", name, err)
}

// Chown changes the numeric owner and group of the named file.
func (g *FS) Chown(name string, uid, gid int) error {
	err := g.conn.Chown(g.joinPath(name), uint32(uid), uint32(gid))
	return errs.PathError("chown", name, err)
}

// Chtimes changes the access and modification times of the named file.
// A zero time leaves the corresponding value unchanged.
func (g *FS) Chtimes(name string, atime, mtime time.Time) error {
	err := g.conn.Utimens(g.joinPath(name), atime, mtime)
	return errs.PathError("chtimes", name, err)
}

// Symlink creates newname as a symbolic link to oldname.
func (g *FS) Symlink(oldname, newname string) error {
	err := g.conn.Symlink(oldname, g.joinPath(newname))
	return errs.PathError("symlink", newname, err)
}

// Readlink returns the destination of the named symbolic link.
func (g *FS) Readlink(name string) (string, error) {
	p := g.joinPath(name)

	for size := 256; ; size *= 2 {
		buf := make([]byte, size)
		n, err := g.conn.Readlink(p, buf)
		if err != nil {
			return "", errs.PathError("readlink", name, err)
		}
		// A full buffer may mean the target was truncated
		if n < size {
			return string(buf[:n]), nil
		}
	}
}

// TempFile creates a new file in dir, opened for reading and writing. The
// last "*" in pattern is replaced by a random string; without one the string
// is appended. An empty dir means DefaultTempDir.
func (g *FS) TempFile(dir, pattern string) (core.File, error) {
	f, err := g.tempFile(dir, pattern)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (g *FS) tempFile(dir, pattern string) (*File, error) {
	name, err := g.tempName("createtemp", dir, pattern)
	if err != nil {
		return nil, err
	}
	return g.openFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
}

// TempDir creates a new directory in dir and returns its name. Naming
// follows TempFile.
func (g *FS) TempDir(dir, pattern string) (string, error) {
	name, err := g.tempName("mkdirtemp", dir, pattern)
	if err != nil {
		return "", err
	}

	if err := g.Mkdir(name, 0o700); err != nil {
		return "", err
	}
	return name, nil
}

func (g *FS) tempName(op, dir, pattern string) (string, error) {
	if strings.Contains(pattern, "/") {
		return "", errs.PathErrorf(op, pattern, "pattern contains path separator")
	}

	if dir == "" {
		dir = DefaultTempDir
		if err := g.MkdirAll(dir, fs.ModeSticky|0o777); err != nil {
			return "", err
		}
	}

	prefix, suffix := pattern, ""
	if i := strings.LastIndexByte(pattern, '*'); i >= 0 {
		prefix, suffix = pattern[:i], pattern[i+1:]
	}

	return path.Join(pathutil.Normalize(dir), prefix+uuid.NewString()+suffix), nil
}

// Compile-time interface checks.
var (
	_ core.FS         = (*FS)(nil)
	_ core.MetadataFS = (*FS)(nil)
	_ core.SymlinkFS  = (*FS)(nil)
	_ core.TempFS     = (*FS)(nil)
)
