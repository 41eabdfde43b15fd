package gfapi

import (
	"io"
	"io/fs"
	"runtime"

	"golang.org/x/sys/unix"
)

// Dir is an open directory descriptor, released like a File but through the
// native directory close call.
type Dir struct {
	conn    *Conn // keeps the connection reachable while the directory is open
	path    string
	d       *descriptor
	cleanup runtime.Cleanup
}

// DirEntry is one entry read from a Dir.
type DirEntry struct {
	Name string
	Ino  uint64
	// Type is the native DT_* entry type; unix.DT_UNKNOWN if the server did
	// not report one.
	Type uint8
}

// IsDir reports whether the entry is a directory.
func (e DirEntry) IsDir() bool { return e.Type == unix.DT_DIR }

// Mode returns the type bits of the entry.
func (e DirEntry) Mode() fs.FileMode {
	switch e.Type {
	case unix.DT_DIR:
		return fs.ModeDir
	case unix.DT_LNK:
		return fs.ModeSymlink
	case unix.DT_FIFO:
		return fs.ModeNamedPipe
	case unix.DT_SOCK:
		return fs.ModeSocket
	case unix.DT_CHR:
		return fs.ModeDevice | fs.ModeCharDevice
	case unix.DT_BLK:
		return fs.ModeDevice
	}
	return 0
}

// Path returns the path the directory was opened with.
func (d *Dir) Path() string { return d.path }

// Close releases the descriptor.
func (d *Dir) Close() error {
	d.cleanup.Stop()
	return d.d.close("closedir")
}

// Read returns the next entry, including "." and "..". It returns io.EOF at
// the end of the directory.
func (d *Dir) Read() (DirEntry, error) {
	var ent Dirent
	n, err := fdCall(d.d, "readdir", func(drv Driver, fd FD) int { return drv.Readdir(fd, &ent) })
	if err != nil {
		return DirEntry{}, err
	}
	if n == 0 {
		return DirEntry{}, io.EOF
	}
	name, err := decodeText(ent.Name)
	if err != nil {
		return DirEntry{}, annotate(err, "readdir", "path", d.path)
	}
	return DirEntry{Name: name, Ino: ent.Ino, Type: ent.Type}, nil
}

// ReadAll reads the remaining entries in native order, skipping "." and "..".
func (d *Dir) ReadAll() ([]DirEntry, error) {
	var entries []DirEntry
	for {
		e, err := d.Read()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		if e.Name == "." || e.Name == ".." {
			continue
		}
		entries = append(entries, e)
	}
}
