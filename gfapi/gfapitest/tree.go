package gfapitest

import (
	"path"
	"sort"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/jmgilman/go/gluster/gfapi"
)

const maxSymlinkHops = 40

type volume struct {
	nodes map[string]*node
}

type node struct {
	ino    uint64
	mode   uint32
	nlink  uint64
	uid    uint32
	gid    uint32
	rdev   uint64
	data   []byte
	target string
	atime  time.Time
	mtime  time.Time
	ctime  time.Time
}

func newVolume(rootIno uint64) *volume {
	root := newNode(rootIno, unix.S_IFDIR|0o755)
	root.nlink = 2
	return &volume{nodes: map[string]*node{"/": root}}
}

func newNode(ino uint64, mode uint32) *node {
	now := time.Now()
	return &node{ino: ino, mode: mode, nlink: 1, atime: now, mtime: now, ctime: now}
}

func (n *node) kind() uint32 { return n.mode & unix.S_IFMT }
func (n *node) isDir() bool  { return n.kind() == unix.S_IFDIR }

func (n *node) touch() {
	n.mtime = time.Now()
	n.ctime = n.mtime
}

func (n *node) fill(st *unix.Stat_t) {
	*st = unix.Stat_t{}
	st.Ino = n.ino
	st.Mode = n.mode
	// The width of Nlink differs between architectures.
	for i := uint64(0); i < n.nlink; i++ {
		st.Nlink++
	}
	st.Uid = n.uid
	st.Gid = n.gid
	st.Rdev = n.rdev
	st.Blksize = 4096
	switch n.kind() {
	case unix.S_IFLNK:
		st.Size = int64(len(n.target))
	case unix.S_IFDIR:
		st.Size = 4096
	default:
		st.Size = int64(len(n.data))
	}
	st.Blocks = (st.Size + 511) / 512
	st.Atim = unix.NsecToTimespec(n.atime.UnixNano())
	st.Mtim = unix.NsecToTimespec(n.mtime.UnixNano())
	st.Ctim = unix.NsecToTimespec(n.ctime.UnixNano())
}

func dirType(n *node) uint8 {
	switch n.kind() {
	case unix.S_IFDIR:
		return unix.DT_DIR
	case unix.S_IFLNK:
		return unix.DT_LNK
	case unix.S_IFIFO:
		return unix.DT_FIFO
	case unix.S_IFSOCK:
		return unix.DT_SOCK
	case unix.S_IFCHR:
		return unix.DT_CHR
	case unix.S_IFBLK:
		return unix.DT_BLK
	}
	return unix.DT_REG
}

func clean(p string) string {
	return path.Clean("/" + p)
}

func parentOf(p string) string {
	return path.Dir(p)
}

// parentOK checks that the parent of p exists and is a directory.
func (v *volume) parentOK(p string) int {
	parent, ok := v.nodes[parentOf(p)]
	if !ok {
		return neg(syscall.ENOENT)
	}
	if !parent.isDir() {
		return neg(syscall.ENOTDIR)
	}
	return 0
}

// lookup finds p, following symbolic links when follow is set. It returns
// the resolved path.
func (v *volume) lookup(p string, follow bool) (string, *node, int) {
	p = clean(p)
	for hops := 0; hops < maxSymlinkHops; hops++ {
		n, ok := v.nodes[p]
		if !ok {
			if code := v.parentOK(p); code != 0 {
				return p, nil, code
			}
			return p, nil, neg(syscall.ENOENT)
		}
		if !follow || n.kind() != unix.S_IFLNK {
			return p, n, 0
		}
		target := n.target
		if !path.IsAbs(target) {
			target = path.Join(parentOf(p), target)
		}
		p = clean(target)
	}
	return p, nil, neg(syscall.ELOOP)
}

// create adds a node at p. The parent must exist and p must not.
func (v *volume) create(p string, n *node) int {
	if _, ok := v.nodes[p]; ok {
		return neg(syscall.EEXIST)
	}
	if code := v.parentOK(p); code != 0 {
		return code
	}
	v.nodes[p] = n
	if n.isDir() {
		v.nodes[parentOf(p)].nlink++
	}
	v.nodes[parentOf(p)].touch()
	return 0
}

func (v *volume) mkdirAll(p string, ino func() uint64) {
	if p == "/" {
		return
	}
	if _, ok := v.nodes[p]; ok {
		return
	}
	v.mkdirAll(parentOf(p), ino)
	n := newNode(ino(), unix.S_IFDIR|0o755)
	n.nlink = 2
	_ = v.create(p, n)
}

// children returns the names directly under dir, sorted.
func (v *volume) children(dir string) []string {
	prefix := dir + "/"
	if dir == "/" {
		prefix = "/"
	}
	var names []string
	for p := range v.nodes {
		if p == "/" || !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := p[len(prefix):]
		if rest != "" && !strings.Contains(rest, "/") {
			names = append(names, rest)
		}
	}
	sort.Strings(names)
	return names
}

func (v *volume) remove(p string) {
	n := v.nodes[p]
	delete(v.nodes, p)
	n.nlink--
	n.ctime = time.Now()
	parent := v.nodes[parentOf(p)]
	if n.isDir() {
		parent.nlink--
	}
	parent.touch()
}

func (d *Driver) Stat(c gfapi.Cluster, p gfapi.CString, st *unix.Stat_t) int {
	return d.pathOp(c, "stat", func(v *volume) int {
		_, n, code := v.lookup(str(p), true)
		if code != 0 {
			return code
		}
		n.fill(st)
		return 0
	})
}

func (d *Driver) Lstat(c gfapi.Cluster, p gfapi.CString, st *unix.Stat_t) int {
	return d.pathOp(c, "lstat", func(v *volume) int {
		_, n, code := v.lookup(str(p), false)
		if code != 0 {
			return code
		}
		n.fill(st)
		return 0
	})
}

// pathOp runs fn against the volume of a live cluster.
func (d *Driver) pathOp(c gfapi.Cluster, op string, fn func(*volume) int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if code := d.begin(op); code != 0 {
		return code
	}
	v, code := d.live(c)
	if code != 0 {
		return code
	}
	return fn(v)
}

func (d *Driver) Truncate(c gfapi.Cluster, p gfapi.CString, length int64) int {
	return d.pathOp(c, "truncate", func(v *volume) int {
		_, n, code := v.lookup(str(p), true)
		if code != 0 {
			return code
		}
		if n.isDir() {
			return neg(syscall.EISDIR)
		}
		if length < 0 {
			return neg(syscall.EINVAL)
		}
		n.data = resize(n.data, length)
		n.touch()
		return 0
	})
}

func (d *Driver) Access(c gfapi.Cluster, p gfapi.CString, mode int) int {
	return d.pathOp(c, "access", func(v *volume) int {
		_, n, code := v.lookup(str(p), true)
		if code != 0 {
			return code
		}
		if mode&unix.R_OK != 0 && n.mode&0o400 == 0 ||
			mode&unix.W_OK != 0 && n.mode&0o200 == 0 ||
			mode&unix.X_OK != 0 && n.mode&0o100 == 0 {
			return neg(syscall.EACCES)
		}
		return 0
	})
}

func (d *Driver) Symlink(c gfapi.Cluster, oldpath, newpath gfapi.CString) int {
	return d.pathOp(c, "symlink", func(v *volume) int {
		n := newNode(d.nextIno(), unix.S_IFLNK|0o777)
		n.target = str(oldpath)
		return v.create(clean(str(newpath)), n)
	})
}

func (d *Driver) Readlink(c gfapi.Cluster, p gfapi.CString, buf []byte) int {
	return d.pathOp(c, "readlink", func(v *volume) int {
		_, n, code := v.lookup(str(p), false)
		if code != 0 {
			return code
		}
		if n.kind() != unix.S_IFLNK {
			return neg(syscall.EINVAL)
		}
		return copy(buf, n.target)
	})
}

func (d *Driver) Mknod(c gfapi.Cluster, p gfapi.CString, mode uint32, dev uint64) int {
	return d.pathOp(c, "mknod", func(v *volume) int {
		if mode&unix.S_IFMT == 0 {
			mode |= unix.S_IFREG
		}
		if mode&unix.S_IFMT == unix.S_IFDIR {
			return neg(syscall.EINVAL)
		}
		n := newNode(d.nextIno(), mode)
		n.rdev = dev
		return v.create(clean(str(p)), n)
	})
}

func (d *Driver) Mkdir(c gfapi.Cluster, p gfapi.CString, mode uint32) int {
	return d.pathOp(c, "mkdir", func(v *volume) int {
		n := newNode(d.nextIno(), unix.S_IFDIR|mode&0o7777)
		n.nlink = 2
		return v.create(clean(str(p)), n)
	})
}

func (d *Driver) Unlink(c gfapi.Cluster, p gfapi.CString) int {
	return d.pathOp(c, "unlink", func(v *volume) int {
		resolved, n, code := v.lookup(str(p), false)
		if code != 0 {
			return code
		}
		if n.isDir() {
			return neg(syscall.EISDIR)
		}
		v.remove(resolved)
		return 0
	})
}

func (d *Driver) Rmdir(c gfapi.Cluster, p gfapi.CString) int {
	return d.pathOp(c, "rmdir", func(v *volume) int {
		resolved, n, code := v.lookup(str(p), false)
		if code != 0 {
			return code
		}
		if !n.isDir() {
			return neg(syscall.ENOTDIR)
		}
		if resolved == "/" {
			return neg(syscall.EBUSY)
		}
		if len(v.children(resolved)) > 0 {
			return neg(syscall.ENOTEMPTY)
		}
		v.remove(resolved)
		return 0
	})
}

func (d *Driver) Rename(c gfapi.Cluster, oldpath, newpath gfapi.CString) int {
	return d.pathOp(c, "rename", func(v *volume) int {
		src, n, code := v.lookup(str(oldpath), false)
		if code != 0 {
			return code
		}
		dst := clean(str(newpath))
		if src == dst {
			return 0
		}
		if src == "/" || strings.HasPrefix(dst, src+"/") {
			return neg(syscall.EINVAL)
		}
		if code := v.parentOK(dst); code != 0 {
			return code
		}
		if existing, ok := v.nodes[dst]; ok {
			switch {
			case n.isDir() && !existing.isDir():
				return neg(syscall.ENOTDIR)
			case !n.isDir() && existing.isDir():
				return neg(syscall.EISDIR)
			case existing.isDir() && len(v.children(dst)) > 0:
				return neg(syscall.ENOTEMPTY)
			}
			v.remove(dst)
		}

		moved := map[string]*node{}
		for p, child := range v.nodes {
			if p == src || strings.HasPrefix(p, src+"/") {
				moved[dst+strings.TrimPrefix(p, src)] = child
				delete(v.nodes, p)
			}
		}
		for p, child := range moved {
			v.nodes[p] = child
		}
		if n.isDir() {
			v.nodes[parentOf(src)].nlink--
			v.nodes[parentOf(dst)].nlink++
		}
		v.nodes[parentOf(src)].touch()
		v.nodes[parentOf(dst)].touch()
		n.ctime = time.Now()
		return 0
	})
}

func (d *Driver) Link(c gfapi.Cluster, oldpath, newpath gfapi.CString) int {
	return d.pathOp(c, "link", func(v *volume) int {
		_, n, code := v.lookup(str(oldpath), false)
		if code != 0 {
			return code
		}
		if n.isDir() {
			return neg(syscall.EPERM)
		}
		if code := v.create(clean(str(newpath)), n); code != 0 {
			return code
		}
		n.nlink++
		n.ctime = time.Now()
		return 0
	})
}

func (d *Driver) Chmod(c gfapi.Cluster, p gfapi.CString, mode uint32) int {
	return d.pathOp(c, "chmod", func(v *volume) int {
		_, n, code := v.lookup(str(p), true)
		if code != 0 {
			return code
		}
		n.mode = n.kind() | mode&0o7777
		n.ctime = time.Now()
		return 0
	})
}

func (d *Driver) Chown(c gfapi.Cluster, p gfapi.CString, uid, gid uint32) int {
	return d.pathOp(c, "chown", func(v *volume) int {
		_, n, code := v.lookup(str(p), true)
		if code != 0 {
			return code
		}
		n.uid, n.gid = uid, gid
		n.ctime = time.Now()
		return 0
	})
}

func (d *Driver) Utimens(c gfapi.Cluster, p gfapi.CString, times *[2]unix.Timespec) int {
	return d.pathOp(c, "utimens", func(v *volume) int {
		_, n, code := v.lookup(str(p), true)
		if code != 0 {
			return code
		}
		set := func(dst *time.Time, ts unix.Timespec) {
			switch ts.Nsec {
			case unix.UTIME_OMIT:
			case unix.UTIME_NOW:
				*dst = time.Now()
			default:
				*dst = time.Unix(ts.Unix())
			}
		}
		set(&n.atime, times[0])
		set(&n.mtime, times[1])
		n.ctime = time.Now()
		return 0
	})
}
