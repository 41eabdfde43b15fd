// Package types provides shared type definitions for the glusterfs filesystem.
package types // nolint:revive // Internal package with clear purpose

import (
	"io/fs"
	"time"

	"github.com/jmgilman/go/gluster/gfapi"
)

// FileInfo implements fs.FileInfo over native stat results.
type FileInfo struct {
	FileName string
	Stat     gfapi.Stat
}

// Name returns the base name of the file.
func (fi *FileInfo) Name() string { return fi.FileName }

// Size returns the length in bytes.
func (fi *FileInfo) Size() int64 { return fi.Stat.Size() }

// Mode returns the file mode bits.
func (fi *FileInfo) Mode() fs.FileMode { return fi.Stat.Mode() }

// ModTime returns the modification time.
func (fi *FileInfo) ModTime() time.Time { return fi.Stat.ModTime() }

// IsDir returns true if this describes a directory.
func (fi *FileInfo) IsDir() bool { return fi.Stat.IsDir() }

// Sys returns the native gfapi.Stat.
func (fi *FileInfo) Sys() interface{} { return fi.Stat }

// NewFileInfo creates a new FileInfo with the given parameters.
func NewFileInfo(name string, st gfapi.Stat) *FileInfo {
	return &FileInfo{FileName: name, Stat: st}
}

// DirEntry implements fs.DirEntry for entries read from a native directory
// stream. Info is looked up lazily.
type DirEntry struct {
	EntryName string
	EntryType fs.FileMode
	Lookup    func() (fs.FileInfo, error)
}

// Name returns the name of the entry.
func (e *DirEntry) Name() string { return e.EntryName }

// IsDir reports whether the entry describes a directory.
func (e *DirEntry) IsDir() bool { return e.EntryType.IsDir() }

// Type returns the type bits for the entry.
func (e *DirEntry) Type() fs.FileMode { return e.EntryType }

// Info returns the FileInfo for the entry. Symbolic links are not followed.
func (e *DirEntry) Info() (fs.FileInfo, error) { return e.Lookup() }

// NewDirEntry creates a new DirEntry with the given parameters.
func NewDirEntry(name string, typ fs.FileMode, lookup func() (fs.FileInfo, error)) *DirEntry {
	return &DirEntry{
		EntryName: name,
		EntryType: typ,
		Lookup:    lookup,
	}
}

// Compile-time interface checks.
var (
	_ fs.FileInfo = (*FileInfo)(nil)
	_ fs.DirEntry = (*DirEntry)(nil)
)
