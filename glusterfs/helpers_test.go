package glusterfs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/gluster/gfapi"
	"github.com/jmgilman/go/gluster/gfapi/gfapitest"
)

const testVolume = "testvol"

// setupFS creates a filesystem over a fresh in-memory volume.
func setupFS(t *testing.T) (*FS, *gfapitest.Driver) {
	t.Helper()

	drv := gfapitest.New()
	g, err := New(Config{Config: gfapi.Config{Volume: testVolume, Driver: drv}})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = g.Close()
	})

	return g, drv
}
