package gfapitest

import (
	"path"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/jmgilman/go/gluster/gfapi"
)

func resize(data []byte, length int64) []byte {
	if int64(len(data)) >= length {
		return data[:length]
	}
	return append(data, make([]byte, length-int64(len(data)))...)
}

func writable(flags int) bool { return flags&unix.O_ACCMODE != unix.O_RDONLY }
func readable(flags int) bool { return flags&unix.O_ACCMODE != unix.O_WRONLY }

func sizes(bufs [][]byte) []int {
	out := make([]int, len(bufs))
	for i, b := range bufs {
		out[i] = len(b)
	}
	return out
}

// openOp opens p with POSIX open semantics. mode applies when the file is
// created.
func (d *Driver) openOp(c gfapi.Cluster, op string, p gfapi.CString, flags int, mode uint32) (gfapi.FD, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if code := d.begin(op); code != 0 {
		return 0, code
	}
	v, code := d.live(c)
	if code != 0 {
		return 0, code
	}

	resolved, n, code := v.lookup(str(p), true)
	switch {
	case code == neg(syscall.ENOENT) && flags&unix.O_CREAT != 0:
		n = newNode(d.nextIno(), unix.S_IFREG|mode&0o7777)
		if code := v.create(resolved, n); code != 0 {
			return 0, code
		}
	case code != 0:
		return 0, code
	case flags&unix.O_CREAT != 0 && flags&unix.O_EXCL != 0:
		return 0, neg(syscall.EEXIST)
	case n.isDir() && writable(flags):
		return 0, neg(syscall.EISDIR)
	case flags&unix.O_TRUNC != 0 && writable(flags):
		n.data = n.data[:0]
		n.touch()
	}

	fd := gfapi.FD(d.handle())
	d.fds[fd] = &openFile{cluster: c, node: n, path: resolved, flags: flags}
	return fd, 0
}

func (d *Driver) Open(c gfapi.Cluster, p gfapi.CString, flags int) (gfapi.FD, int) {
	return d.openOp(c, "open", p, flags, 0o644)
}

func (d *Driver) Creat(c gfapi.Cluster, p gfapi.CString, flags int, mode uint32) (gfapi.FD, int) {
	return d.openOp(c, "creat", p, flags|unix.O_CREAT, mode)
}

func (d *Driver) Opendir(c gfapi.Cluster, p gfapi.CString) (gfapi.FD, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if code := d.begin("opendir"); code != 0 {
		return 0, code
	}
	v, code := d.live(c)
	if code != 0 {
		return 0, code
	}
	resolved, n, code := v.lookup(str(p), true)
	if code != 0 {
		return 0, code
	}
	if !n.isDir() {
		return 0, neg(syscall.ENOTDIR)
	}

	entries := []gfapi.Dirent{
		{Ino: n.ino, Type: unix.DT_DIR, Name: []byte(".")},
		{Ino: v.nodes[parentOf(resolved)].ino, Type: unix.DT_DIR, Name: []byte("..")},
	}
	for _, name := range v.children(resolved) {
		child := v.nodes[path.Join(resolved, name)]
		entries = append(entries, gfapi.Dirent{Ino: child.ino, Type: dirType(child), Name: []byte(name)})
	}
	n.atime = time.Now()

	fd := gfapi.FD(d.handle())
	d.fds[fd] = &openFile{cluster: c, node: n, path: resolved, dir: true, entries: entries}
	return fd, 0
}

// fdOp runs fn against an open descriptor of the given kind.
func (d *Driver) fdOp(fd gfapi.FD, op string, dir bool, fn func(*openFile) int64) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if code := d.begin(op); code != 0 {
		return int64(code)
	}
	of, code := d.file(fd, dir)
	if code != 0 {
		return int64(code)
	}
	return fn(of)
}

func (d *Driver) Close(fd gfapi.FD) int {
	return int(d.fdOp(fd, "close", false, func(*openFile) int64 {
		delete(d.fds, fd)
		return 0
	}))
}

func (d *Driver) Closedir(fd gfapi.FD) int {
	return int(d.fdOp(fd, "closedir", true, func(*openFile) int64 {
		delete(d.fds, fd)
		return 0
	}))
}

func (d *Driver) Readdir(fd gfapi.FD, ent *gfapi.Dirent) int {
	return int(d.fdOp(fd, "readdir", true, func(of *openFile) int64 {
		if of.pos >= len(of.entries) {
			return 0
		}
		*ent = of.entries[of.pos]
		of.pos++
		return 1
	}))
}

// readAt copies from the file at off into buf.
func (of *openFile) readAt(buf []byte, off int64) int64 {
	if !readable(of.flags) {
		return int64(neg(syscall.EBADF))
	}
	if of.node.isDir() {
		return int64(neg(syscall.EISDIR))
	}
	if off < 0 {
		return int64(neg(syscall.EINVAL))
	}
	if off >= int64(len(of.node.data)) {
		return 0
	}
	of.node.atime = time.Now()
	return int64(copy(buf, of.node.data[off:]))
}

// writeAt stores buf at off, extending the file as needed.
func (of *openFile) writeAt(buf []byte, off int64) int64 {
	if !writable(of.flags) {
		return int64(neg(syscall.EBADF))
	}
	if off < 0 {
		return int64(neg(syscall.EINVAL))
	}
	end := off + int64(len(buf))
	if end > int64(len(of.node.data)) {
		of.node.data = resize(of.node.data, end)
	}
	copy(of.node.data[off:], buf)
	of.node.touch()
	return int64(len(buf))
}

func (of *openFile) readvAt(bufs [][]byte, off int64) int64 {
	var total int64
	for _, b := range bufs {
		n := of.readAt(b, off+total)
		if n < 0 {
			return n
		}
		total += n
		if n < int64(len(b)) {
			break
		}
	}
	return total
}

func (of *openFile) writevAt(bufs [][]byte, off int64) int64 {
	var total int64
	for _, b := range bufs {
		n := of.writeAt(b, off+total)
		if n < 0 {
			return n
		}
		total += n
	}
	return total
}

// appendOffset moves the offset to the end for O_APPEND descriptors.
func (of *openFile) appendOffset() {
	if of.flags&unix.O_APPEND != 0 {
		of.offset = int64(len(of.node.data))
	}
}

func (d *Driver) Read(fd gfapi.FD, buf []byte, _ int) int64 {
	return d.fdOp(fd, "read", false, func(of *openFile) int64 {
		n := of.readAt(buf, of.offset)
		if n > 0 {
			of.offset += n
		}
		return n
	})
}

func (d *Driver) Write(fd gfapi.FD, buf []byte, _ int) int64 {
	return d.fdOp(fd, "write", false, func(of *openFile) int64 {
		of.appendOffset()
		n := of.writeAt(buf, of.offset)
		if n > 0 {
			of.offset += n
		}
		return n
	})
}

func (d *Driver) Readv(fd gfapi.FD, bufs [][]byte, _ int) int64 {
	return d.fdOp(fd, "readv", false, func(of *openFile) int64 {
		d.iovecs = append(d.iovecs, sizes(bufs))
		n := of.readvAt(bufs, of.offset)
		if n > 0 {
			of.offset += n
		}
		return n
	})
}

func (d *Driver) Writev(fd gfapi.FD, bufs [][]byte, _ int) int64 {
	return d.fdOp(fd, "writev", false, func(of *openFile) int64 {
		d.iovecs = append(d.iovecs, sizes(bufs))
		of.appendOffset()
		n := of.writevAt(bufs, of.offset)
		if n > 0 {
			of.offset += n
		}
		return n
	})
}

func (d *Driver) Pread(fd gfapi.FD, buf []byte, offset int64, _ int) int64 {
	return d.fdOp(fd, "pread", false, func(of *openFile) int64 {
		return of.readAt(buf, offset)
	})
}

func (d *Driver) Pwrite(fd gfapi.FD, buf []byte, offset int64, _ int) int64 {
	return d.fdOp(fd, "pwrite", false, func(of *openFile) int64 {
		return of.writeAt(buf, offset)
	})
}

func (d *Driver) Preadv(fd gfapi.FD, bufs [][]byte, offset int64, _ int) int64 {
	return d.fdOp(fd, "preadv", false, func(of *openFile) int64 {
		d.iovecs = append(d.iovecs, sizes(bufs))
		return of.readvAt(bufs, offset)
	})
}

func (d *Driver) Pwritev(fd gfapi.FD, bufs [][]byte, offset int64, _ int) int64 {
	return d.fdOp(fd, "pwritev", false, func(of *openFile) int64 {
		d.iovecs = append(d.iovecs, sizes(bufs))
		return of.writevAt(bufs, offset)
	})
}

func (d *Driver) Lseek(fd gfapi.FD, offset int64, whence int) int64 {
	return d.fdOp(fd, "lseek", false, func(of *openFile) int64 {
		var base int64
		switch whence {
		case unix.SEEK_SET:
		case unix.SEEK_CUR:
			base = of.offset
		case unix.SEEK_END:
			base = int64(len(of.node.data))
		default:
			return int64(neg(syscall.EINVAL))
		}
		if base+offset < 0 {
			return int64(neg(syscall.EINVAL))
		}
		of.offset = base + offset
		return of.offset
	})
}

func (d *Driver) Ftruncate(fd gfapi.FD, length int64) int {
	return int(d.fdOp(fd, "ftruncate", false, func(of *openFile) int64 {
		if length < 0 || !writable(of.flags) {
			return int64(neg(syscall.EINVAL))
		}
		of.node.data = resize(of.node.data, length)
		of.node.touch()
		return 0
	}))
}

func (d *Driver) Fstat(fd gfapi.FD, st *unix.Stat_t) int {
	return int(d.fdOp(fd, "fstat", false, func(of *openFile) int64 {
		of.node.fill(st)
		return 0
	}))
}

func (d *Driver) Fsync(fd gfapi.FD) int {
	return int(d.fdOp(fd, "fsync", false, func(*openFile) int64 { return 0 }))
}

func (d *Driver) Fdatasync(fd gfapi.FD) int {
	return int(d.fdOp(fd, "fdatasync", false, func(*openFile) int64 { return 0 }))
}

func (d *Driver) Fchmod(fd gfapi.FD, mode uint32) int {
	return int(d.fdOp(fd, "fchmod", false, func(of *openFile) int64 {
		of.node.mode = of.node.kind() | mode&0o7777
		of.node.ctime = time.Now()
		return 0
	}))
}
