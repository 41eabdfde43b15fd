package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jmgilman/go/gluster/gfapi/gfapitest"
)

const testVolume = "testvol"

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs gfctl against drv with the test volume selected. Config file
// lookup is confined to a temporary directory.
func execute(t *testing.T, drv *gfapitest.Driver, stdin string, args ...string) result {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	return executeRaw(t, drv, stdin, append([]string{"--volume", testVolume}, args...)...)
}

// executeRaw runs gfctl with args exactly as given.
func executeRaw(t *testing.T, drv *gfapitest.Driver, stdin string, args ...string) result {
	t.Helper()

	root, c := newRootCmd(drv)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	if err != nil {
		c.renderError(&stderr, err)
	}

	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
