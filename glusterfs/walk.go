package glusterfs

import (
	"io/fs"
	"path"

	"github.com/jmgilman/go/gluster/errors"
)

// Walk walks the file tree rooted at root, calling walkFn for each file or
// directory in the tree, including root. Entries are visited in lexical
// order and symbolic links are not followed.
func (g *FS) Walk(root string, walkFn fs.WalkDirFunc) error {
	info, err := g.Lstat(root)
	if err != nil {
		err = walkFn(root, nil, err)
	} else {
		err = g.walk(root, fs.FileInfoToDirEntry(info), walkFn)
	}
	if errors.Is(err, fs.SkipDir) || errors.Is(err, fs.SkipAll) {
		return nil
	}
	return err
}

func (g *FS) walk(name string, d fs.DirEntry, walkFn fs.WalkDirFunc) error {
	if err := walkFn(name, d, nil); err != nil || !d.IsDir() {
		if errors.Is(err, fs.SkipDir) && d.IsDir() {
			err = nil
		}
		return err
	}

	entries, err := g.ReadDir(name)
	if err != nil {
		// Second call reports the read failure for the directory
		if err = walkFn(name, d, err); err != nil {
			if errors.Is(err, fs.SkipDir) {
				err = nil
			}
			return err
		}
	}

	for _, entry := range entries {
		if err := g.walk(path.Join(name, entry.Name()), entry, walkFn); err != nil {
			// SkipDir from a file skips the rest of its directory
			if errors.Is(err, fs.SkipDir) {
				return nil
			}
			return err
		}
	}
	return nil
}
