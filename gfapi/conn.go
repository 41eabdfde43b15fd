package gfapi

import (
	"runtime"
	"sync"
)

// Conn is a connection to one GlusterFS volume.
//
// A Conn is produced only by a successful Connect or ConnectConfig. The zero
// value is an unconnected Conn: every operation fails with fs.ErrClosed and
// Disconnect does nothing. A Conn is safe for concurrent use; data-path calls
// are not serialised.
type Conn struct {
	s       *session
	cleanup runtime.Cleanup
}

// session holds the native cluster handle and the descriptors opened through
// it. It never references the Conn so the Conn can be collected.
type session struct {
	drv    Driver
	volume string

	// mu guards handle. Operations hold it shared for the duration of the
	// native call so release waits for calls in flight.
	mu     sync.RWMutex
	handle Cluster

	regMu sync.Mutex
	open  map[*descriptor]struct{}
}

// Connect connects to volume using the default driver and no explicit
// volfile servers.
func Connect(volume string) (*Conn, error) {
	return ConnectConfig(Config{Volume: volume})
}

// ConnectConfig creates a cluster handle, applies cfg and initialises the
// connection. If any step after the handle is created fails, the handle is
// released before the error is returned.
func ConnectConfig(cfg Config) (*Conn, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	drv := cfg.Driver
	if drv == nil {
		drv = newDriver()
	}

	// Encode everything up front so a bad argument never reaches the
	// native layer.
	vol, err := encodePath(cfg.Volume)
	if err != nil {
		return nil, annotate(err, "connect", "volume", cfg.Volume)
	}
	type server struct {
		transport, host CString
		port            int
	}
	servers := make([]server, 0, len(cfg.Servers))
	for _, s := range cfg.Servers {
		s = s.withDefaults()
		cs, err := encodePaths(s.Transport, s.Host)
		if err != nil {
			return nil, annotate(err, "connect", "volume", cfg.Volume, "server", s.Host)
		}
		servers = append(servers, server{cs[0], cs[1], s.Port})
	}
	var logfile CString
	if cfg.LogFile != "" {
		if logfile, err = encodePath(cfg.LogFile); err != nil {
			return nil, annotate(err, "connect", "volume", cfg.Volume, "logfile", cfg.LogFile)
		}
	}

	h, ret := drv.New(vol)
	if h, err = checkHandle(drv, h, ret); err != nil {
		return nil, annotate(err, "connect", "volume", cfg.Volume)
	}

	fail := func(err error, op string) (*Conn, error) {
		drv.Fini(h)
		return nil, annotate(err, op, "volume", cfg.Volume)
	}
	for _, s := range servers {
		if _, err := check(drv, drv.SetVolfileServer(h, s.transport, s.host, s.port)); err != nil {
			return fail(err, "set_volfile_server")
		}
	}
	if logfile != nil || cfg.LogLevel != 0 {
		if _, err := check(drv, drv.SetLogging(h, logfile, cfg.LogLevel)); err != nil {
			return fail(err, "set_logging")
		}
	}
	if _, err := check(drv, drv.Init(h)); err != nil {
		return fail(err, "connect")
	}

	s := &session{
		drv:    drv,
		volume: cfg.Volume,
		handle: h,
		open:   make(map[*descriptor]struct{}),
	}
	c := &Conn{s: s}
	c.cleanup = runtime.AddCleanup(c, (*session).release, s)
	return c, nil
}

// Volume returns the name of the connected volume.
func (c *Conn) Volume() string {
	if c.s == nil {
		return ""
	}
	return c.s.volume
}

// Disconnect releases the connection. Descriptors still open through it are
// closed first. Release failures are discarded. Disconnect on an unconnected
// or already released Conn does nothing.
func (c *Conn) Disconnect() {
	if c.s == nil {
		return
	}
	c.cleanup.Stop()
	c.s.release()
}

// acquire returns the live handle with the session lock held shared. The
// caller must call done when the native call returns.
func (c *Conn) acquire(op string) (Cluster, error) {
	if c.s == nil {
		return 0, errClosed("connection", op)
	}
	c.s.mu.RLock()
	if c.s.handle == 0 {
		c.s.mu.RUnlock()
		return 0, errClosed("connection", op)
	}
	return c.s.handle, nil
}

func (c *Conn) done() { c.s.mu.RUnlock() }

func (s *session) release() {
	s.mu.Lock()
	h := s.handle
	s.handle = 0
	s.mu.Unlock()
	if h == 0 {
		return
	}

	s.regMu.Lock()
	leaked := make([]*descriptor, 0, len(s.open))
	for d := range s.open {
		leaked = append(leaked, d)
	}
	s.regMu.Unlock()

	for _, d := range leaked {
		_ = d.close("disconnect")
	}
	s.drv.Fini(h)
}

func (s *session) track(d *descriptor) {
	s.regMu.Lock()
	s.open[d] = struct{}{}
	s.regMu.Unlock()
}

func (s *session) forget(d *descriptor) {
	s.regMu.Lock()
	delete(s.open, d)
	s.regMu.Unlock()
}

// descriptor is an open native descriptor together with the call that
// releases it.
type descriptor struct {
	sess    *session
	what    string
	name    string
	release func(Driver, FD) int

	// mu guards fd. Calls on the descriptor hold it shared.
	mu sync.RWMutex
	fd FD
}

func newDescriptor(s *session, fd FD, what, name string, release func(Driver, FD) int) *descriptor {
	d := &descriptor{sess: s, what: what, name: name, release: release, fd: fd}
	s.track(d)
	return d
}

// acquire returns the live descriptor with the lock held shared.
func (d *descriptor) acquire(op string) (FD, error) {
	d.mu.RLock()
	if d.fd == 0 {
		d.mu.RUnlock()
		return 0, annotate(errClosed(d.what, op), op, "path", d.name)
	}
	return d.fd, nil
}

func (d *descriptor) done() { d.mu.RUnlock() }

// close releases the descriptor once. Later calls fail with fs.ErrClosed.
func (d *descriptor) close(op string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd == 0 {
		return annotate(errClosed(d.what, op), op, "path", d.name)
	}
	fd := d.fd
	d.fd = 0
	d.sess.forget(d)
	_, err := check(d.sess.drv, d.release(d.sess.drv, fd))
	return annotate(err, op, "path", d.name)
}

func closeFile(drv Driver, fd FD) int { return drv.Close(fd) }
func closeDir(drv Driver, fd FD) int  { return drv.Closedir(fd) }
