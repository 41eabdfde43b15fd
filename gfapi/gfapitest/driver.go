package gfapitest

import (
	"bytes"
	"fmt"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/jmgilman/go/gluster/gfapi"
)

// Driver is an in-memory gfapi.Driver. The zero value is not usable; create
// one with New.
type Driver struct {
	mu sync.Mutex

	volumes  map[string]*volume
	clusters map[gfapi.Cluster]*cluster
	order    []gfapi.Cluster
	fds      map[gfapi.FD]*openFile
	next     uintptr
	ino      uint64

	calls      []string
	faults     map[string]int
	initFaults map[string]int
	messages   map[int][]byte
	iovecs     [][]int
}

var _ gfapi.Driver = (*Driver)(nil)

type cluster struct {
	name        string
	vol         *volume
	servers     []string
	logfile     string
	loglevel    int
	initialised bool
	finis       int
}

type openFile struct {
	cluster gfapi.Cluster
	node    *node
	path    string
	flags   int
	offset  int64

	dir     bool
	entries []gfapi.Dirent
	pos     int
}

// New returns an empty driver.
func New() *Driver {
	return &Driver{
		volumes:    make(map[string]*volume),
		clusters:   make(map[gfapi.Cluster]*cluster),
		fds:        make(map[gfapi.FD]*openFile),
		next:       0x1000,
		faults:     make(map[string]int),
		initFaults: make(map[string]int),
		messages:   make(map[int][]byte),
	}
}

// Fail makes every later call named op return code, which must be negative.
// A zero code removes the fault. Descriptor-returning calls report the fault
// with a null descriptor.
func (d *Driver) Fail(op string, code int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if code == 0 {
		delete(d.faults, op)
		return
	}
	d.faults[op] = code
}

// FailInit makes init return code for clusters created for volume.
func (d *Driver) FailInit(volume string, code int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initFaults[volume] = code
}

// SetMessage overrides the description Strerror returns for errno.
func (d *Driver) SetMessage(errno int, msg []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages[errno] = bytes.Clone(msg)
}

// Calls returns the names of all native calls made so far, in order.
// Strerror lookups are not recorded.
func (d *Driver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// CallCount returns how many times op was called.
func (d *Driver) CallCount(op string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.calls {
		if c == op {
			n++
		}
	}
	return n
}

// ResetCalls clears the call log and the recorded iovec sizes.
func (d *Driver) ResetCalls() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
	d.iovecs = nil
}

// Iovecs returns the buffer sizes passed to each vectored call, in order.
func (d *Driver) Iovecs() [][]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]int, len(d.iovecs))
	for i, v := range d.iovecs {
		out[i] = append([]int(nil), v...)
	}
	return out
}

// Clusters returns every cluster handle created, in creation order.
func (d *Driver) Clusters() []gfapi.Cluster {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]gfapi.Cluster(nil), d.order...)
}

// FiniCount returns how many times fini was called for c.
func (d *Driver) FiniCount(c gfapi.Cluster) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cl, ok := d.clusters[c]; ok {
		return cl.finis
	}
	return 0
}

// Servers returns the volfile servers configured on c as
// "transport:host:port".
func (d *Driver) Servers(c gfapi.Cluster) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cl, ok := d.clusters[c]; ok {
		return append([]string(nil), cl.servers...)
	}
	return nil
}

// Logging returns the native logging configuration applied to c.
func (d *Driver) Logging(c gfapi.Cluster) (string, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cl, ok := d.clusters[c]; ok {
		return cl.logfile, cl.loglevel
	}
	return "", 0
}

// OpenDescriptors returns the number of descriptors not yet closed.
func (d *Driver) OpenDescriptors() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.fds)
}

// WriteFile stores data at p on volume, creating parent directories.
func (d *Driver) WriteFile(volume, p string, data []byte, perm uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := d.volume(volume)
	v.mkdirAll(parentOf(clean(p)), d.nextIno)
	n := v.nodes[clean(p)]
	if n == nil {
		n = newNode(d.nextIno(), unix.S_IFREG|perm&0o7777)
		v.nodes[clean(p)] = n
	}
	n.data = bytes.Clone(data)
	n.touch()
}

// ReadFile returns the content stored at p on volume.
func (d *Driver) ReadFile(volume, p string) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.volume(volume).nodes[clean(p)]
	if !ok || n.kind() != unix.S_IFREG {
		return nil, false
	}
	return bytes.Clone(n.data), true
}

// Exists reports whether p exists on volume. Symbolic links are not
// followed.
func (d *Driver) Exists(volume, p string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.volume(volume).nodes[clean(p)]
	return ok
}

func (d *Driver) volume(name string) *volume {
	v, ok := d.volumes[name]
	if !ok {
		v = newVolume(d.nextIno())
		d.volumes[name] = v
	}
	return v
}

func (d *Driver) nextIno() uint64 {
	d.ino++
	return d.ino
}

func (d *Driver) handle() uintptr {
	d.next += 0x10
	return d.next
}

// begin records op and returns an injected fault, or zero.
func (d *Driver) begin(op string) int {
	d.calls = append(d.calls, op)
	return d.faults[op]
}

// live returns the volume behind an initialised, unreleased cluster.
func (d *Driver) live(c gfapi.Cluster) (*volume, int) {
	cl, ok := d.clusters[c]
	if !ok {
		return nil, neg(syscall.EINVAL)
	}
	if !cl.initialised || cl.finis > 0 {
		return nil, neg(syscall.ENOTCONN)
	}
	return cl.vol, 0
}

func (d *Driver) file(fd gfapi.FD, dir bool) (*openFile, int) {
	of, ok := d.fds[fd]
	if !ok || of.dir != dir {
		return nil, neg(syscall.EBADF)
	}
	return of, 0
}

func neg(e syscall.Errno) int { return -int(e) }

func str(cs gfapi.CString) string {
	return string(bytes.TrimSuffix(cs, []byte{0}))
}

// Strerror implements gfapi.Driver using Go's errno table.
func (d *Driver) Strerror(errno int) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	if msg, ok := d.messages[errno]; ok {
		return bytes.Clone(msg)
	}
	return []byte(syscall.Errno(errno).Error())
}

func (d *Driver) New(volname gfapi.CString) (gfapi.Cluster, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if code := d.begin("new"); code != 0 {
		return 0, code
	}
	name := str(volname)
	h := gfapi.Cluster(d.handle())
	d.clusters[h] = &cluster{name: name, vol: d.volume(name)}
	d.order = append(d.order, h)
	return h, 0
}

func (d *Driver) SetVolfileServer(c gfapi.Cluster, transport, host gfapi.CString, port int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if code := d.begin("set_volfile_server"); code != 0 {
		return code
	}
	cl, ok := d.clusters[c]
	if !ok || cl.initialised {
		return neg(syscall.EINVAL)
	}
	cl.servers = append(cl.servers, fmt.Sprintf("%s:%s:%d", str(transport), str(host), port))
	return 0
}

func (d *Driver) SetLogging(c gfapi.Cluster, logfile gfapi.CString, level int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if code := d.begin("set_logging"); code != 0 {
		return code
	}
	cl, ok := d.clusters[c]
	if !ok {
		return neg(syscall.EINVAL)
	}
	cl.logfile, cl.loglevel = str(logfile), level
	return 0
}

func (d *Driver) Init(c gfapi.Cluster) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if code := d.begin("init"); code != 0 {
		return code
	}
	cl, ok := d.clusters[c]
	if !ok || cl.finis > 0 {
		return neg(syscall.EINVAL)
	}
	if code := d.initFaults[cl.name]; code != 0 {
		return code
	}
	cl.initialised = true
	return 0
}

// Fini counts every call, including repeated ones, so tests can detect a
// double release.
func (d *Driver) Fini(c gfapi.Cluster) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	cl, ok := d.clusters[c]
	if ok {
		cl.finis++
	}
	if code := d.begin("fini"); code != 0 {
		return code
	}
	if !ok || cl.finis > 1 {
		return neg(syscall.EINVAL)
	}
	for fd, of := range d.fds {
		if of.cluster == c {
			delete(d.fds, fd)
		}
	}
	return 0
}
