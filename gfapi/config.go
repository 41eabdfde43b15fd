package gfapi

import (
	"github.com/jmgilman/go/gluster/errors"
)

const (
	// DefaultTransport is used for servers that do not name a transport.
	DefaultTransport = "tcp"

	// DefaultPort is the glusterd management port.
	DefaultPort = 24007

	// MaxLogLevel is the most verbose native log level (TRACE).
	MaxLogLevel = 9
)

// Config holds connection configuration.
type Config struct {
	// Volume is the name of the volume to mount (required)
	Volume string

	// Servers lists the volfile servers to fetch the volume layout from.
	// If empty the native library uses its built-in default.
	Servers []Server

	// LogFile is the native client log destination.
	// Empty leaves the library default in place.
	LogFile string

	// LogLevel is the native client log level, 0 (none) to 9 (trace).
	// Logging is only configured when LogFile or LogLevel is set.
	LogLevel int

	// Driver is an optional native call implementation
	// If nil, the libgfapi driver linked into the binary is used
	Driver Driver
}

// Server is a volfile server address.
type Server struct {
	// Transport is one of "tcp", "rdma" or "unix" (default: "tcp")
	Transport string

	// Host is a hostname, IP address or, for the unix transport, a socket path
	Host string

	// Port is the management port (default: 24007, ignored for unix)
	Port int
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.Volume == "" {
		return errors.New(errors.CodeInvalidConfig, "volume name is required")
	}

	for i, s := range c.Servers {
		if s.Host == "" {
			return errors.Newf(errors.CodeInvalidConfig, "server %d: host is required", i)
		}
		switch s.Transport {
		case "", "tcp", "rdma", "unix":
		default:
			return errors.Newf(errors.CodeInvalidConfig, "server %d: unknown transport %q", i, s.Transport)
		}
		if s.Port < 0 || s.Port > 65535 {
			return errors.Newf(errors.CodeInvalidConfig, "server %d: invalid port %d", i, s.Port)
		}
	}

	if c.LogLevel < 0 || c.LogLevel > MaxLogLevel {
		return errors.Newf(errors.CodeInvalidConfig, "log level must be between 0 and %d", MaxLogLevel)
	}

	return nil
}

// withDefaults returns a copy of s with the transport and port filled in.
func (s Server) withDefaults() Server {
	if s.Transport == "" {
		s.Transport = DefaultTransport
	}
	if s.Port == 0 && s.Transport != "unix" {
		s.Port = DefaultPort
	}
	return s
}
