package commands

import (
	"io"
	"io/fs"
	"os"
	"path"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmgilman/go/gluster/errors"
	"github.com/jmgilman/go/gluster/glusterfs"
)

func (c *cli) statCmd() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "stat PATH...",
		Short: "Display file status",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.Flags().BoolVarP(&follow, "dereference", "L", false, "follow symbolic links")

	cmd.RunE = c.run(func(cmd *cobra.Command, fsys *glusterfs.FS, args []string) error {
		var infos []entryInfo
		for _, name := range args {
			stat := fsys.Lstat
			if follow {
				stat = fsys.Stat
			}
			info, err := stat(name)
			if err != nil {
				return err
			}

			e := newEntryInfo(name, info)
			if info.Mode()&fs.ModeSymlink != 0 {
				if e.Target, err = fsys.Readlink(name); err != nil {
					return err
				}
			}
			infos = append(infos, e)
		}

		out := cmd.OutOrStdout()
		if c.output() == OutputJSON {
			return writeJSON(out, infos)
		}

		for _, e := range infos {
			name := e.Name
			if e.Target != "" {
				name += " -> " + e.Target
			}
			printf(out, "  File: %s\n", name)
			printf(out, "  Type: %s\n", e.Type)
			printf(out, "  Size: %d\n", e.Size)
			printf(out, "  Mode: %s\n", e.Mode)
			printf(out, "   Uid: %d  Gid: %d\n", e.UID, e.GID)
			printf(out, " Inode: %d  Links: %d\n", e.Inode, e.Links)
			printf(out, "Modify: %s\n", e.ModTime.Format("2006-01-02 15:04:05 MST"))
		}
		return nil
	})

	return cmd
}

func (c *cli) lsCmd() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "ls [PATH]",
		Short: "List directory contents",
		Args:  cobra.MaximumNArgs(1),
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "use a long listing format")

	cmd.RunE = c.run(func(cmd *cobra.Command, fsys *glusterfs.FS, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		entries, err := fsys.ReadDir(dir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !long && c.output() == OutputText {
			for _, e := range entries {
				printf(out, "%s\n", e.Name())
			}
			return nil
		}

		infos := make([]entryInfo, 0, len(entries))
		for _, e := range entries {
			info, err := e.Info()
			if err != nil {
				return err
			}
			ei := newEntryInfo(e.Name(), info)
			if info.Mode()&fs.ModeSymlink != 0 {
				if ei.Target, err = fsys.Readlink(path.Join(dir, e.Name())); err != nil {
					return err
				}
			}
			infos = append(infos, ei)
		}

		if c.output() == OutputJSON {
			return writeJSON(out, infos)
		}

		tw := tabwriter.NewWriter(out, 0, 0, 1, ' ', tabwriter.AlignRight)
		for _, e := range infos {
			name := e.Name
			if e.Target != "" {
				name += " -> " + e.Target
			}
			printf(tw, "%s\t%d\t%d\t%d\t%s\t %s\n",
				e.Mode, e.UID, e.GID, e.Size, e.ModTime.Format("Jan _2 15:04"), name)
		}
		return tw.Flush()
	})

	return cmd
}

func (c *cli) catCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat PATH...",
		Short: "Write file contents to standard output",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.RunE = c.run(func(cmd *cobra.Command, fsys *glusterfs.FS, args []string) error {
		for _, name := range args {
			if err := copyOut(cmd.OutOrStdout(), fsys, name); err != nil {
				return err
			}
		}
		return nil
	})

	return cmd
}

func copyOut(w io.Writer, fsys *glusterfs.FS, name string) error {
	f, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

func (c *cli) putCmd() *cobra.Command {
	var (
		mode    string
		parents bool
	)

	cmd := &cobra.Command{
		Use:   "put SOURCE DEST",
		Short: "Copy a local file to the volume",
		Long: `Copy a local file to the volume, replacing DEST if it exists.
A SOURCE of "-" reads standard input.`,
		Args: cobra.ExactArgs(2),
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "0644", "permissions of a newly created file")
	cmd.Flags().BoolVarP(&parents, "parents", "p", false, "create missing parent directories")

	cmd.RunE = c.run(func(cmd *cobra.Command, fsys *glusterfs.FS, args []string) error {
		perm, err := parseMode(mode)
		if err != nil {
			return err
		}

		src := cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.IO(err, "failed to open source")
			}
			defer f.Close()
			src = f
		}

		if parents {
			if err := fsys.MkdirAll(path.Dir(args[1]), 0o755); err != nil {
				return err
			}
		}

		dst, err := fsys.OpenFile(args[1], os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
		if err != nil {
			return err
		}

		n, err := io.Copy(dst, src)
		if err != nil {
			_ = dst.Close()
			return err
		}
		if err := dst.Close(); err != nil {
			return err
		}

		c.logger.Info("copied", "dest", args[1], "bytes", n)
		return nil
	})

	return cmd
}

func (c *cli) truncateCmd() *cobra.Command {
	var size string

	cmd := &cobra.Command{
		Use:   "truncate -s SIZE PATH...",
		Short: "Shrink or extend files to a size",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.Flags().StringVarP(&size, "size", "s", "", "new size in bytes")
	_ = cmd.MarkFlagRequired("size")

	cmd.RunE = c.run(func(_ *cobra.Command, fsys *glusterfs.FS, args []string) error {
		n, err := strconv.ParseInt(size, 10, 64)
		if err != nil || n < 0 {
			return errors.Newf(errors.CodeInvalidInput, "invalid size %q", size)
		}

		for _, name := range args {
			if err := fsys.Truncate(name, n); err != nil {
				return err
			}
		}
		return nil
	})

	return cmd
}
