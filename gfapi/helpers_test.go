package gfapi_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/gluster/errors"
	"github.com/jmgilman/go/gluster/gfapi"
	"github.com/jmgilman/go/gluster/gfapi/gfapitest"
)

// connect opens "testvol" on drv and clears the call log.
func connect(t *testing.T, drv *gfapitest.Driver) *gfapi.Conn {
	t.Helper()
	conn, err := gfapi.ConnectConfig(gfapi.Config{Volume: "testvol", Driver: drv})
	require.NoError(t, err)
	t.Cleanup(conn.Disconnect)
	drv.ResetCalls()
	return conn
}

// asError extracts the structured error from err.
func asError(t *testing.T, err error) errors.Error {
	t.Helper()
	require.Error(t, err)
	var gerr errors.Error
	require.True(t, errors.As(err, &gerr), "expected errors.Error, got %T", err)
	return gerr
}
