package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/gluster/errors"
	"github.com/jmgilman/go/gluster/gfapi/gfapitest"
)

func TestStat(t *testing.T) {
	drv := gfapitest.New()
	drv.WriteFile(testVolume, "/dir/file.txt", []byte("hello"), 0o640)
	require.NoError(t, execute(t, drv, "", "ln", "-s", "dir/file.txt", "link").err)

	t.Run("text", func(t *testing.T) {
		res := execute(t, drv, "", "stat", "dir/file.txt", "dir")
		require.NoError(t, res.err, res.stderr)
		assert.Contains(t, res.stdout, "  File: dir/file.txt\n")
		assert.Contains(t, res.stdout, "  Type: regular file\n")
		assert.Contains(t, res.stdout, "  Size: 5\n")
		assert.Contains(t, res.stdout, "  Mode: -rw-r-----\n")
		assert.Contains(t, res.stdout, "  Type: directory\n")
	})

	t.Run("json", func(t *testing.T) {
		res := execute(t, drv, "", "-o", "json", "stat", "link")
		require.NoError(t, res.err, res.stderr)

		var infos []entryInfo
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &infos))
		require.Len(t, infos, 1)
		assert.Equal(t, "symlink", infos[0].Type)
		assert.Equal(t, "dir/file.txt", infos[0].Target)
		assert.NotZero(t, infos[0].Inode)
	})

	t.Run("dereference", func(t *testing.T) {
		res := execute(t, drv, "", "-o", "json", "stat", "-L", "link")
		require.NoError(t, res.err, res.stderr)

		var infos []entryInfo
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &infos))
		require.Len(t, infos, 1)
		assert.Equal(t, "regular file", infos[0].Type)
		assert.Equal(t, int64(5), infos[0].Size)
		assert.Empty(t, infos[0].Target)
	})
}

func TestLs(t *testing.T) {
	drv := gfapitest.New()
	drv.WriteFile(testVolume, "/d/b.txt", []byte("bb"), 0o644)
	drv.WriteFile(testVolume, "/d/a.txt", []byte("a"), 0o644)
	drv.WriteFile(testVolume, "/d/sub/c.txt", nil, 0o644)

	res := execute(t, drv, "", "ls", "d")
	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, "a.txt\nb.txt\nsub\n", res.stdout)

	res = execute(t, drv, "", "ls", "-l", "d")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, " a.txt\n")
	assert.Contains(t, res.stdout, "-rw-r--r--")
	assert.Contains(t, res.stdout, " sub\n")

	res = execute(t, drv, "", "--output", "json", "ls", "d")
	require.NoError(t, res.err, res.stderr)
	var infos []entryInfo
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &infos))
	require.Len(t, infos, 3)
	assert.Equal(t, "b.txt", infos[1].Name)
	assert.Equal(t, int64(2), infos[1].Size)
	assert.Equal(t, "directory", infos[2].Type)
}

func TestPutAndCat(t *testing.T) {
	drv := gfapitest.New()

	t.Run("stdin", func(t *testing.T) {
		res := execute(t, drv, "from stdin", "put", "-", "in.txt")
		require.NoError(t, res.err, res.stderr)

		data, ok := drv.ReadFile(testVolume, "/in.txt")
		require.True(t, ok)
		assert.Equal(t, "from stdin", string(data))
	})

	t.Run("local file with parents", func(t *testing.T) {
		local := filepath.Join(t.TempDir(), "local.txt")
		require.NoError(t, os.WriteFile(local, []byte("from disk"), 0o600))

		res := execute(t, drv, "", "put", "-p", "-m", "0600", local, "a/b/out.txt")
		require.NoError(t, res.err, res.stderr)

		res = execute(t, drv, "", "-o", "json", "stat", "a/b/out.txt")
		require.NoError(t, res.err, res.stderr)
		assert.Contains(t, res.stdout, `"mode": "-rw-------"`)
	})

	t.Run("replaces existing", func(t *testing.T) {
		drv.WriteFile(testVolume, "/replace.txt", []byte("a much longer original"), 0o644)
		require.NoError(t, execute(t, drv, "short", "put", "-", "replace.txt").err)

		data, _ := drv.ReadFile(testVolume, "/replace.txt")
		assert.Equal(t, "short", string(data))
	})

	t.Run("cat concatenates", func(t *testing.T) {
		res := execute(t, drv, "", "cat", "in.txt", "a/b/out.txt")
		require.NoError(t, res.err, res.stderr)
		assert.Equal(t, "from stdinfrom disk", res.stdout)
	})

	t.Run("missing parent", func(t *testing.T) {
		res := execute(t, drv, "x", "put", "-", "nope/out.txt")
		require.Error(t, res.err)
		assert.True(t, errors.Is(res.err, os.ErrNotExist))
	})

	t.Run("missing source", func(t *testing.T) {
		res := execute(t, drv, "", "put", filepath.Join(t.TempDir(), "none"), "x.txt")
		require.Error(t, res.err)
		assert.Equal(t, errors.KindIO, errors.GetKind(res.err))
		assert.False(t, drv.Exists(testVolume, "/x.txt"))
	})

	t.Run("invalid mode", func(t *testing.T) {
		res := execute(t, drv, "x", "put", "-m", "999", "-", "x.txt")
		require.Error(t, res.err)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(res.err))
	})

	assert.Zero(t, drv.OpenDescriptors())
}

func TestMkdirRmMv(t *testing.T) {
	drv := gfapitest.New()

	require.NoError(t, execute(t, drv, "", "mkdir", "one").err)
	require.NoError(t, execute(t, drv, "", "mkdir", "-p", "two/three/four").err)
	assert.True(t, drv.Exists(testVolume, "/two/three/four"))

	res := execute(t, drv, "", "mkdir", "one")
	assert.True(t, errors.Is(res.err, os.ErrExist))

	require.NoError(t, execute(t, drv, "", "mv", "one", "uno").err)
	assert.False(t, drv.Exists(testVolume, "/one"))
	assert.True(t, drv.Exists(testVolume, "/uno"))

	res = execute(t, drv, "", "rm", "two")
	require.Error(t, res.err, "non-empty directory needs -r")
	assert.Equal(t, errors.CodeConflict, errors.GetCode(res.err))

	require.NoError(t, execute(t, drv, "", "rm", "-r", "two", "uno").err)
	assert.False(t, drv.Exists(testVolume, "/two"))
	assert.False(t, drv.Exists(testVolume, "/uno"))

	res = execute(t, drv, "", "rm", "missing")
	assert.True(t, errors.Is(res.err, os.ErrNotExist))
	require.NoError(t, execute(t, drv, "", "rm", "-f", "missing").err)
}

func TestLinks(t *testing.T) {
	drv := gfapitest.New()
	drv.WriteFile(testVolume, "/target.txt", []byte("content"), 0o644)

	require.NoError(t, execute(t, drv, "", "ln", "-s", "target.txt", "soft").err)
	require.NoError(t, execute(t, drv, "", "ln", "target.txt", "hard").err)

	res := execute(t, drv, "", "readlink", "soft")
	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, "target.txt\n", res.stdout)

	data, ok := drv.ReadFile(testVolume, "/hard")
	require.True(t, ok)
	assert.Equal(t, "content", string(data))

	res = execute(t, drv, "", "readlink", "hard")
	require.Error(t, res.err)
	assert.Equal(t, syscall.EINVAL, errors.GetErrno(res.err))
}

func TestFlagShorthands(t *testing.T) {
	root, _ := newRootCmd(gfapitest.New())

	for _, sub := range root.Commands() {
		t.Run(sub.Name(), func(t *testing.T) {
			// Merging persistent flags panics on a shorthand collision
			require.NotPanics(t, func() {
				_ = sub.InheritedFlags()
				_ = sub.Flags()
			})
		})
	}

	tests := []struct {
		cmd  string
		want string
	}{
		{"ln", "symbolic"},
		{"truncate", "size"},
	}
	for _, tt := range tests {
		sub, _, err := root.Find([]string{tt.cmd})
		require.NoError(t, err)
		flag := sub.Flags().ShorthandLookup("s")
		require.NotNil(t, flag, tt.cmd)
		assert.Equal(t, tt.want, flag.Name)
	}
	assert.Empty(t, root.PersistentFlags().Lookup("server").Shorthand)
}

func TestTruncate(t *testing.T) {
	drv := gfapitest.New()
	drv.WriteFile(testVolume, "/f", []byte("0123456789"), 0o644)

	require.NoError(t, execute(t, drv, "", "truncate", "-s", "4", "f").err)
	data, _ := drv.ReadFile(testVolume, "/f")
	assert.Equal(t, "0123", string(data))

	require.NoError(t, execute(t, drv, "", "truncate", "--size", "6", "f").err)
	data, _ = drv.ReadFile(testVolume, "/f")
	assert.Equal(t, []byte("0123\x00\x00"), data)

	res := execute(t, drv, "", "truncate", "-s", "-1", "f")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(res.err))

	res = execute(t, drv, "", "truncate", "f")
	require.Error(t, res.err, "size is required")
}

func TestErrorRendering(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		res := execute(t, gfapitest.New(), "", "stat", "missing")
		require.Error(t, res.err)
		assert.Contains(t, res.stderr, "Error: stat missing: [NOT_FOUND]")
		assert.NotContains(t, res.stderr, "(retryable)")
	})

	t.Run("json", func(t *testing.T) {
		res := execute(t, gfapitest.New(), "", "-o", "json", "cat", "missing")
		require.Error(t, res.err)

		var resp errors.ErrorResponse
		require.NoError(t, json.Unmarshal([]byte(res.stderr), &resp))
		assert.Equal(t, "NATIVE", resp.Kind)
		assert.Equal(t, "NOT_FOUND", resp.Code)
		assert.Equal(t, int(syscall.ENOENT), resp.Errno)
		assert.Equal(t, "missing", resp.Context["path"])
	})

	t.Run("retryable", func(t *testing.T) {
		drv := gfapitest.New()
		drv.FailInit(testVolume, -int(syscall.ENOTCONN))

		res := execute(t, drv, "", "ls")
		require.Error(t, res.err)
		assert.Contains(t, res.stderr, "[NETWORK]")
		assert.Contains(t, res.stderr, "(retryable)")
		assert.Equal(t, 1, drv.FiniCount(lastCluster(t, drv)))
	})

	t.Run("encoding", func(t *testing.T) {
		res := execute(t, gfapitest.New(), "", "stat", "bad\x00name")
		require.Error(t, res.err)
		assert.Equal(t, errors.KindEncoding, errors.GetKind(res.err))
	})
}

func TestLogging(t *testing.T) {
	drv := gfapitest.New()

	res := execute(t, drv, "data", "--log-level", "debug", "put", "-", "f")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stderr, "level=DEBUG msg=connecting volume=testvol")
	assert.Contains(t, res.stderr, "level=INFO msg=copied dest=f bytes=4")

	res = execute(t, drv, "data", "put", "-", "f")
	require.NoError(t, res.err)
	assert.Empty(t, res.stderr)
}
