package cmd

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHELL", "/bin/unsupported")
	t.Setenv("GRIPVIEW_LOG_TO_FILE", "false")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "gripview version dev\n"), out)
	assert.Contains(t, out, "platform: "+runtime.GOOS+"/"+runtime.GOARCH)
}

func TestDumpSnapshot(t *testing.T) {
	out, err := run(t, "dump", "../internal/client/snapshot/testdata/session.json", "--depth", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "user: Object\n  address: Object\n")
	assert.Contains(t, out, "answer: 42\n")
}

func TestDumpRequiresSource(t *testing.T) {
	t.Setenv("GRIPVIEW_URL", "")
	_, err := run(t, "dump")
	assert.ErrorContains(t, err, "snapshot file or --url")
}

func TestRemoteRequiresConsole(t *testing.T) {
	t.Setenv("GRIPVIEW_CONSOLE", "")
	_, err := run(t, "dump", "--url", "ws://127.0.0.1:1", "-e", "window")
	assert.ErrorContains(t, err, "--console")
}
