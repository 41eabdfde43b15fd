package gfapi

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

// Stat is the native file metadata record returned by Stat, Lstat and
// File.Stat. The binding does not interpret it; the accessors exist for
// consumers.
type Stat struct {
	sys unix.Stat_t
}

// Sys returns a copy of the raw native record.
func (s Stat) Sys() unix.Stat_t { return s.sys }

// Size returns the length in bytes.
func (s Stat) Size() int64 { return s.sys.Size }

// Ino returns the inode number.
func (s Stat) Ino() uint64 { return s.sys.Ino }

// Nlink returns the hard link count.
func (s Stat) Nlink() uint64 { return uint64(s.sys.Nlink) }

// Uid returns the owner's user id.
func (s Stat) Uid() uint32 { return s.sys.Uid }

// Gid returns the owner's group id.
func (s Stat) Gid() uint32 { return s.sys.Gid }

// ModTime returns the modification time.
func (s Stat) ModTime() time.Time { return time.Unix(s.sys.Mtim.Unix()) }

// AccessTime returns the last access time.
func (s Stat) AccessTime() time.Time { return time.Unix(s.sys.Atim.Unix()) }

// IsDir reports whether the record describes a directory.
func (s Stat) IsDir() bool { return s.sys.Mode&unix.S_IFMT == unix.S_IFDIR }

// Mode returns the native mode converted to an fs.FileMode.
func (s Stat) Mode() fs.FileMode { return FileMode(s.sys.Mode) }

// FileMode converts a native mode_t to an fs.FileMode.
func FileMode(mode uint32) fs.FileMode {
	m := fs.FileMode(mode & 0o777)
	switch mode & unix.S_IFMT {
	case unix.S_IFDIR:
		m |= fs.ModeDir
	case unix.S_IFLNK:
		m |= fs.ModeSymlink
	case unix.S_IFIFO:
		m |= fs.ModeNamedPipe
	case unix.S_IFSOCK:
		m |= fs.ModeSocket
	case unix.S_IFCHR:
		m |= fs.ModeDevice | fs.ModeCharDevice
	case unix.S_IFBLK:
		m |= fs.ModeDevice
	}
	if mode&unix.S_ISUID != 0 {
		m |= fs.ModeSetuid
	}
	if mode&unix.S_ISGID != 0 {
		m |= fs.ModeSetgid
	}
	if mode&unix.S_ISVTX != 0 {
		m |= fs.ModeSticky
	}
	return m
}

// NativeMode converts the permission and special bits of an fs.FileMode to
// a native mode_t. Type bits are not included.
func NativeMode(m fs.FileMode) uint32 {
	mode := uint32(m.Perm())
	if m&fs.ModeSetuid != 0 {
		mode |= unix.S_ISUID
	}
	if m&fs.ModeSetgid != 0 {
		mode |= unix.S_ISGID
	}
	if m&fs.ModeSticky != 0 {
		mode |= unix.S_ISVTX
	}
	return mode
}
