package commands

import (
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/jmgilman/go/gluster/errors"
	"github.com/jmgilman/go/gluster/glusterfs"
)

func (c *cli) mkdirCmd() *cobra.Command {
	var (
		mode    string
		parents bool
	)

	cmd := &cobra.Command{
		Use:   "mkdir DIR...",
		Short: "Create directories",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "0755", "permissions of created directories")
	cmd.Flags().BoolVarP(&parents, "parents", "p", false, "create parents as needed, no error if existing")

	cmd.RunE = c.run(func(_ *cobra.Command, fsys *glusterfs.FS, args []string) error {
		perm, err := parseMode(mode)
		if err != nil {
			return err
		}

		mkdir := fsys.Mkdir
		if parents {
			mkdir = fsys.MkdirAll
		}
		for _, name := range args {
			if err := mkdir(name, perm); err != nil {
				return err
			}
		}
		return nil
	})

	return cmd
}

func (c *cli) rmCmd() *cobra.Command {
	var recursive, force bool

	cmd := &cobra.Command{
		Use:   "rm PATH...",
		Short: "Remove files or directories",
		Long: `Remove files or directories. Without --recursive a directory is only
removed when empty.`,
		Args: cobra.MinimumNArgs(1),
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "remove directories and their contents")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "ignore nonexistent paths")

	cmd.RunE = c.run(func(_ *cobra.Command, fsys *glusterfs.FS, args []string) error {
		for _, name := range args {
			var err error
			if recursive {
				err = fsys.RemoveAll(name)
			} else {
				err = fsys.Remove(name)
			}
			if err != nil && !(force && errors.Is(err, fs.ErrNotExist)) {
				return err
			}
			c.logger.Debug("removed", "path", name)
		}
		return nil
	})

	return cmd
}

func (c *cli) mvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mv SOURCE DEST",
		Short: "Rename a file or directory",
		Args:  cobra.ExactArgs(2),
	}

	cmd.RunE = c.run(func(_ *cobra.Command, fsys *glusterfs.FS, args []string) error {
		return fsys.Rename(args[0], args[1])
	})

	return cmd
}

func (c *cli) lnCmd() *cobra.Command {
	var symbolic bool

	cmd := &cobra.Command{
		Use:   "ln TARGET LINK",
		Short: "Create a link to a file",
		Long: `Create a hard link, or with --symbolic a symbolic link, named LINK.
Symbolic link targets are stored as given.`,
		Args: cobra.ExactArgs(2),
	}
	cmd.Flags().BoolVarP(&symbolic, "symbolic", "s", false, "make a symbolic link")

	cmd.RunE = c.run(func(_ *cobra.Command, fsys *glusterfs.FS, args []string) error {
		if symbolic {
			return fsys.Symlink(args[0], args[1])
		}
		return fsys.Link(args[0], args[1])
	})

	return cmd
}

func (c *cli) readlinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readlink LINK",
		Short: "Print the target of a symbolic link",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = c.run(func(cmd *cobra.Command, fsys *glusterfs.FS, args []string) error {
		target, err := fsys.Readlink(args[0])
		if err != nil {
			return err
		}
		printf(cmd.OutOrStdout(), "%s\n", target)
		return nil
	})

	return cmd
}
