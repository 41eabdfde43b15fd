// Package commands implements the gfctl command tree.
package commands

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmgilman/go/gluster/errors"
	"github.com/jmgilman/go/gluster/gfapi"
	"github.com/jmgilman/go/gluster/glusterfs"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// cli carries the state shared by every command of one invocation.
type cli struct {
	v      *viper.Viper
	driver gfapi.Driver
	logger *slog.Logger
}

// Execute runs gfctl and returns the process exit code.
func Execute() int {
	root, c := newRootCmd(nil)
	if err := root.Execute(); err != nil {
		c.renderError(root.ErrOrStderr(), err)
		return 1
	}
	return 0
}

// newRootCmd builds the command tree. A nil driver selects the linked
// libgfapi driver.
func newRootCmd(drv gfapi.Driver) (*cobra.Command, *cli) {
	c := &cli{
		v:      viper.New(),
		driver: drv,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	root := &cobra.Command{
		Use:   "gfctl",
		Short: "Access GlusterFS volumes without a mount",
		Long: `gfctl talks to a GlusterFS volume directly through libgfapi, without a
FUSE mount. Connection settings come from flags, GFCTL_* environment
variables or a config file, in that order of precedence.

Use "gfctl [command] --help" for more information about a command.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default: $XDG_CONFIG_HOME/gfctl/config.yaml)")
	pf.StringP("volume", "V", "", "volume name")
	pf.StringSlice("server", nil, "volfile server as host[:port] (repeatable)")
	pf.String("transport", gfapi.DefaultTransport, "volfile server transport (tcp, rdma, unix)")
	pf.String("prefix", "", "directory on the volume that paths are relative to")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.String("native-log-file", "", "libgfapi log file")
	pf.Int("native-log-level", 0, "libgfapi log level (0-9)")
	pf.StringP("output", "o", OutputText, "output format (text, json)")

	for _, name := range []string{
		"volume", "server", "transport", "prefix", "log-level",
		"native-log-file", "native-log-level", "output",
	} {
		_ = c.v.BindPFlag(name, pf.Lookup(name))
	}

	root.AddCommand(
		c.statCmd(),
		c.lsCmd(),
		c.catCmd(),
		c.putCmd(),
		c.mkdirCmd(),
		c.rmCmd(),
		c.mvCmd(),
		c.lnCmd(),
		c.readlinkCmd(),
		c.truncateCmd(),
	)
	root.CompletionOptions.DisableDefaultCmd = true

	return root, c
}

// setup loads configuration and builds the logger.
func (c *cli) setup(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if err := loadConfig(c.v, cfgFile); err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.v.GetString("log-level"))); err != nil {
		return errors.Newf(errors.CodeInvalidConfig, "invalid log level %q", c.v.GetString("log-level"))
	}
	c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	switch c.output() {
	case OutputText, OutputJSON:
	default:
		return errors.Newf(errors.CodeInvalidConfig, "unknown output format %q", c.output())
	}

	return nil
}

func (c *cli) output() string {
	return strings.ToLower(c.v.GetString("output"))
}

// run wraps fn with a connection that is closed when fn returns.
func (c *cli) run(fn func(cmd *cobra.Command, fsys *glusterfs.FS, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := c.config()
		if err != nil {
			return err
		}

		c.logger.Debug("connecting",
			"volume", cfg.Volume,
			"servers", len(cfg.Servers),
			"prefix", cfg.Prefix,
		)

		fsys, err := glusterfs.New(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := fsys.Close(); err != nil {
				c.logger.Warn("disconnect failed", "error", err)
			}
		}()

		return fn(cmd, fsys, args)
	}
}

// renderError writes err to w. Structured errors carry their code in the
// message; retryable failures are marked as such.
func (c *cli) renderError(w io.Writer, err error) {
	if c.output() == OutputJSON {
		resp := errors.ToJSON(err)
		var pe *fs.PathError
		if errors.As(err, &pe) {
			// Report the path as the user gave it
			ctx := make(map[string]interface{}, len(resp.Context)+2)
			for k, v := range resp.Context {
				ctx[k] = v
			}
			ctx["op"], ctx["path"] = pe.Op, pe.Path
			resp.Context = ctx
		}
		_ = writeJSON(w, resp)
		return
	}

	msg := "Error: " + err.Error()
	if errors.IsRetryable(err) {
		msg += " (retryable)"
	}
	fmt.Fprintln(w, msg)
}
