package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/gluster/errors"
	"github.com/jmgilman/go/gluster/gfapi"
	"github.com/jmgilman/go/gluster/gfapi/gfapitest"
)

func TestParseServer(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		transport string
		want      gfapi.Server
		wantErr   bool
	}{
		{"host only", "gluster1", "tcp", gfapi.Server{Transport: "tcp", Host: "gluster1"}, false},
		{"host and port", "gluster1:24008", "tcp", gfapi.Server{Transport: "tcp", Host: "gluster1", Port: 24008}, false},
		{"bracketed ipv6", "[::1]:24007", "tcp", gfapi.Server{Transport: "tcp", Host: "::1", Port: 24007}, false},
		{"bare ipv6", "::1", "tcp", gfapi.Server{Transport: "tcp", Host: "::1"}, false},
		{"bracketed ipv6 without port", "[fe80::1]", "tcp", gfapi.Server{Transport: "tcp", Host: "fe80::1"}, false},
		{"unix socket", "/run/glusterd.socket", "unix", gfapi.Server{Transport: "unix", Host: "/run/glusterd.socket"}, false},
		{"bad port", "gluster1:http", "tcp", gfapi.Server{}, true},
		{"empty", "", "tcp", gfapi.Server{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseServer(tt.input, tt.transport)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func lastCluster(t *testing.T, drv *gfapitest.Driver) gfapi.Cluster {
	t.Helper()
	clusters := drv.Clusters()
	require.NotEmpty(t, clusters)
	return clusters[len(clusters)-1]
}

func TestConfig_Flags(t *testing.T) {
	drv := gfapitest.New()
	res := execute(t, drv, "",
		"--server", "g1", "--server", "g2:24010",
		"--native-log-file", "/tmp/gfapi.log", "--native-log-level", "7",
		"ls")
	require.NoError(t, res.err, res.stderr)

	c := lastCluster(t, drv)
	assert.Equal(t, []string{"tcp:g1:24007", "tcp:g2:24010"}, drv.Servers(c))
	logfile, level := drv.Logging(c)
	assert.Equal(t, "/tmp/gfapi.log", logfile)
	assert.Equal(t, 7, level)
	assert.Equal(t, 1, drv.FiniCount(c), "each command disconnects")
}

func TestConfig_Environment(t *testing.T) {
	drv := gfapitest.New()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GFCTL_VOLUME", "envvol")
	t.Setenv("GFCTL_SERVER", "e1 e2:1234")
	t.Setenv("GFCTL_TRANSPORT", "rdma")

	res := executeRaw(t, drv, "", "ls")
	require.NoError(t, res.err, res.stderr)

	c := lastCluster(t, drv)
	assert.Equal(t, []string{"rdma:e1:24007", "rdma:e2:1234"}, drv.Servers(c))

	// Flags win over the environment
	drv.WriteFile("flagvol", "/only-here", nil, 0o644)
	res = executeRaw(t, drv, "", "--volume", "flagvol", "ls")
	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, "only-here\n", res.stdout)
}

func TestConfig_File(t *testing.T) {
	drv := gfapitest.New()
	drv.WriteFile("filevol", "/a.txt", []byte("a"), 0o644)

	cfgFile := filepath.Join(t.TempDir(), "gfctl.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`volume: filevol
server:
  - f1
  - f2:24009
prefix: ""
`), 0o600))

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	res := executeRaw(t, drv, "", "--config", cfgFile, "ls")
	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, "a.txt\n", res.stdout)
	assert.Equal(t, []string{"tcp:f1:24007", "tcp:f2:24009"}, drv.Servers(lastCluster(t, drv)))

	t.Run("default location", func(t *testing.T) {
		home := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(home, "gfctl"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(home, "gfctl", "config.yaml"), []byte("volume: filevol\n"), 0o600))
		t.Setenv("XDG_CONFIG_HOME", home)

		res := executeRaw(t, drv, "", "cat", "a.txt")
		require.NoError(t, res.err, res.stderr)
		assert.Equal(t, "a", res.stdout)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		res := executeRaw(t, drv, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "ls")
		require.Error(t, res.err)
		assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(res.err))
	})
}

func TestConfig_Prefix(t *testing.T) {
	drv := gfapitest.New()
	drv.WriteFile(testVolume, "/tenant/x.txt", []byte("x"), 0o644)

	res := execute(t, drv, "", "--prefix", "tenant", "ls")
	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, "x.txt\n", res.stdout)
}

func TestConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing volume", []string{"ls"}},
		{"bad log level", []string{"--volume", testVolume, "--log-level", "loud", "ls"}},
		{"bad output", []string{"--volume", testVolume, "--output", "xml", "ls"}},
		{"bad transport", []string{"--volume", testVolume, "--server", "g1", "--transport", "udp", "ls"}},
		{"bad native log level", []string{"--volume", testVolume, "--native-log-level", "12", "ls"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())
			res := executeRaw(t, gfapitest.New(), "", tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(res.err))
			assert.Contains(t, res.stderr, "[INVALID_CONFIGURATION]")
		})
	}
}
