package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"time"

	"github.com/jmgilman/go/gluster/errors"
	"github.com/jmgilman/go/gluster/gfapi"
)

// entryInfo is the printable form of a file's metadata.
type entryInfo struct {
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Size    int64     `json:"size"`
	Mode    string    `json:"mode"`
	UID     uint32    `json:"uid"`
	GID     uint32    `json:"gid"`
	Inode   uint64    `json:"inode"`
	Links   uint64    `json:"links"`
	ModTime time.Time `json:"mtime"`
	Target  string    `json:"target,omitempty"`
}

func newEntryInfo(name string, info fs.FileInfo) entryInfo {
	e := entryInfo{
		Name:    name,
		Type:    fileType(info.Mode()),
		Size:    info.Size(),
		Mode:    info.Mode().String(),
		ModTime: info.ModTime().UTC(),
	}
	if st, ok := info.Sys().(gfapi.Stat); ok {
		e.UID, e.GID = st.Uid(), st.Gid()
		e.Inode, e.Links = st.Ino(), st.Nlink()
	}
	return e
}

func fileType(m fs.FileMode) string {
	switch {
	case m.IsDir():
		return "directory"
	case m&fs.ModeSymlink != 0:
		return "symlink"
	case m&fs.ModeNamedPipe != 0:
		return "fifo"
	case m&fs.ModeSocket != 0:
		return "socket"
	case m&fs.ModeCharDevice != 0:
		return "character device"
	case m&fs.ModeDevice != 0:
		return "block device"
	default:
		return "regular file"
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseMode parses an octal permission string such as "0644".
func parseMode(s string) (fs.FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil || v > uint64(fs.ModePerm) {
		return 0, errors.Newf(errors.CodeInvalidInput, "invalid mode %q", s)
	}
	return fs.FileMode(v), nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
