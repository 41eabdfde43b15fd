package glusterfs

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/jmgilman/go/fs/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBilly_CreateMakesParents(t *testing.T) {
	g, drv := setupFS(t)
	b := g.Billy()
	assert.Same(t, g, b.Unwrap())

	f, err := b.Create(".git/objects/ab/cdef")
	require.NoError(t, err)
	_, err = f.Write([]byte("blob"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, ok := drv.ReadFile(testVolume, "/.git/objects/ab/cdef")
	require.True(t, ok)
	assert.Equal(t, "blob", string(data))

	rf, err := b.Open(".git/objects/ab/cdef")
	require.NoError(t, err)
	defer func() { _ = rf.Close() }()
	got, err := io.ReadAll(rf)
	require.NoError(t, err)
	assert.Equal(t, "blob", string(got))

	_, err = b.Open("missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBilly_Directories(t *testing.T) {
	g, _ := setupFS(t)
	b := g.Billy()

	require.NoError(t, b.MkdirAll("a/b", 0o755))
	f, err := b.Create("a/z.txt")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	infos, err := b.ReadDir("a")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "b", infos[0].Name())
	assert.True(t, infos[0].IsDir())
	assert.Equal(t, "z.txt", infos[1].Name())

	require.NoError(t, b.Rename("a/z.txt", "moved/to/z.txt"))
	_, err = b.Stat("moved/to/z.txt")
	require.NoError(t, err)

	require.NoError(t, b.Remove("moved/to/z.txt"))
	_, err = b.Lstat("moved/to/z.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.Equal(t, "a/b/c", b.Join("a", "b", "c"))
}

func TestBilly_Chroot(t *testing.T) {
	g, drv := setupFS(t)
	b := g.Billy()

	sub, err := b.Chroot("repo")
	require.NoError(t, err, "chroot does not require the directory")
	assert.Equal(t, "/repo", sub.Root())
	assert.Equal(t, "/", b.Root())

	f, err := sub.Create("HEAD")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.True(t, drv.Exists(testVolume, "/repo/HEAD"))
}

func TestBilly_TempFile(t *testing.T) {
	g, drv := setupFS(t)
	b := g.Billy()

	f, err := b.TempFile("pack", "tmp_pack_")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Contains(t, f.Name(), "pack/tmp_pack_")
	assert.True(t, drv.Exists(testVolume, "/"+f.Name()))
}

func TestBilly_Symlinks(t *testing.T) {
	g, _ := setupFS(t)
	b := g.Billy()

	require.NoError(t, b.Symlink("../target", "links/l"))
	dest, err := b.Readlink("links/l")
	require.NoError(t, err)
	assert.Equal(t, "../target", dest)

	info, err := b.Lstat("links/l")
	require.NoError(t, err)
	assert.Equal(t, os.ModeSymlink, info.Mode().Type())
}

func TestBilly_Change(t *testing.T) {
	g, _ := setupFS(t)
	b := g.Billy()

	f, err := b.Create("x")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, b.Chmod("x", 0o755))
	require.NoError(t, b.Chown("x", 1, 2))
	mtime := time.Unix(1_600_000_000, 0)
	require.NoError(t, b.Chtimes("x", mtime, mtime))

	info, err := b.Stat("x")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode())
	assert.True(t, mtime.Equal(info.ModTime()))

	assert.ErrorIs(t, b.Lchown("x", 1, 2), core.ErrUnsupported)
}

func TestBilly_Capabilities(t *testing.T) {
	g, _ := setupFS(t)
	caps := billy.Capabilities(g.Billy())

	assert.NotZero(t, caps&billy.ReadAndWriteCapability)
	assert.NotZero(t, caps&billy.TruncateCapability)
	assert.Zero(t, caps&billy.LockCapability)
}
