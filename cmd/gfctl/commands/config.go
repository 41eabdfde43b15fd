package commands

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/jmgilman/go/gluster/errors"
	"github.com/jmgilman/go/gluster/gfapi"
	"github.com/jmgilman/go/gluster/glusterfs"
)

// loadConfig wires environment variables and the config file into v.
//
// Precedence (highest to lowest):
//  1. Flags
//  2. Environment variables (GFCTL_*)
//  3. Configuration file
//  4. Flag defaults
//
// A missing default config file is not an error; a missing explicit one is.
func loadConfig(v *viper.Viper, cfgFile string) error {
	// Example: GFCTL_NATIVE_LOG_LEVEL=7
	v.SetEnvPrefix("GFCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(filepath.Join(dir, "gfctl"))
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return errors.Wrap(err, errors.CodeInvalidConfig, "failed to read config file")
	}

	return nil
}

// config builds the provider configuration from the merged settings.
func (c *cli) config() (glusterfs.Config, error) {
	transport := c.v.GetString("transport")

	var servers []gfapi.Server
	for _, s := range c.v.GetStringSlice("server") {
		srv, err := parseServer(s, transport)
		if err != nil {
			return glusterfs.Config{}, err
		}
		servers = append(servers, srv)
	}

	return glusterfs.Config{
		Config: gfapi.Config{
			Volume:   c.v.GetString("volume"),
			Servers:  servers,
			LogFile:  c.v.GetString("native-log-file"),
			LogLevel: c.v.GetInt("native-log-level"),
			Driver:   c.driver,
		},
		Prefix: c.v.GetString("prefix"),
	}, nil
}

// parseServer parses host[:port]. For the unix transport the whole value
// is the socket path.
func parseServer(s, transport string) (gfapi.Server, error) {
	srv := gfapi.Server{Transport: transport, Host: s}
	if s == "" {
		return srv, errors.New(errors.CodeInvalidConfig, "empty server address")
	}
	if transport == "unix" {
		return srv, nil
	}

	host, port, err := net.SplitHostPort(s)
	if err != nil {
		// No port, or a bare IPv6 address
		if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			srv.Host = s[1 : len(s)-1]
		}
		return srv, nil
	}

	p, err := strconv.Atoi(port)
	if err != nil {
		return srv, errors.Newf(errors.CodeInvalidConfig, "invalid port in server address %q", s)
	}
	srv.Host, srv.Port = host, p

	return srv, nil
}
