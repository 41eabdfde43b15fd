// Package glusterfs provides a GlusterFS implementation of the core.FS interface.
package glusterfs

import (
	"github.com/jmgilman/go/gluster/errors"
	"github.com/jmgilman/go/gluster/gfapi"
)

// DefaultRemoveConcurrency is the number of concurrent unlinks RemoveAll
// issues when Config.MaxRemoveConcurrency is zero.
const DefaultRemoveConcurrency = 10

// Config holds GlusterFS filesystem configuration.
type Config struct {
	// Connection settings used when Conn is nil.
	gfapi.Config

	// Conn is an optional established connection
	// If provided, the connection settings are ignored and Close leaves the
	// connection open
	Conn *gfapi.Conn

	// Prefix is an optional directory on the volume used as the root of the
	// filesystem
	Prefix string

	// MaxRemoveConcurrency limits concurrent unlinks during RemoveAll
	// Default: 10
	MaxRemoveConcurrency int
}

// validate checks if the configuration is valid.
// Either Conn OR a volume name must be provided. The remaining connection
// settings are checked when connecting.
func (c *Config) validate() error {
	if c.MaxRemoveConcurrency < 0 {
		return errors.Newf(errors.CodeInvalidConfig, "invalid remove concurrency %d", c.MaxRemoveConcurrency)
	}

	// If Conn is provided, we're done (connection settings are ignored)
	if c.Conn != nil {
		return nil
	}

	if c.Volume == "" {
		return errors.New(errors.CodeInvalidConfig, "volume name is required when conn is not provided")
	}

	return nil
}
