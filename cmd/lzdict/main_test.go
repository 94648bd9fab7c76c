package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	app.ErrWriter = &buf
	args = append([]string{"lzdict", "--verbosity", "error"}, args...)
	if err := app.Run(args); err != nil {
		t.Fatalf("lzdict %q error %s", args, err)
	}
	return buf.String()
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	data := []byte("the quick brown fox; the quick brown dog; the lazy fox")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data"), data, 0o644))

	run(t, "--dir", dir, "--alloc", "heap", "sa")
	run(t, "--dir", dir, "rsa")
	run(t, "--dir", dir, "lcp")
	run(t, "--dir", dir, "--write-buffer", "64KB", "intervals")
	for _, name := range []string{"sa", "rsa", "lcp", "frequent-intervals"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}

	out := run(t, "--dir", dir, "stats")
	require.Contains(t, out, "Data size: 54 byte(s)")

	js := filepath.Join(dir, "dict.json")
	run(t, "--dir", dir, "extract", "--limit", "2", "--out", js)
	p, err := os.ReadFile(js)
	require.NoError(t, err)
	require.Equal(t, byte('['), p[0])

	blob := run(t, "superstring", "--in", js)
	require.NotEmpty(t, blob)
	require.Contains(t, string(data), blob[:4])
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data"),
		[]byte("abcdeVWXYZabcde"), 0o644))
	cfgFile := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgFile,
		[]byte(`{"dir": "`+dir+`", "alloc": "heap"}`), 0o644))

	run(t, "--config", cfgFile, "build")
	out := run(t, "--config", cfgFile, "extract")
	require.Equal(t, "[[97,98,99,100,101]]\n", out)
}

func TestBadFlags(t *testing.T) {
	app := newApp()
	var buf bytes.Buffer
	app.Writer = &buf
	app.ErrWriter = &buf
	err := app.Run([]string{"lzdict", "--dir", t.TempDir(), "--alloc", "disk", "build"})
	require.Error(t, err)
	app = newApp()
	app.Writer = &buf
	app.ErrWriter = &buf
	err = app.Run([]string{"lzdict", "--verbosity", "loud", "stats"})
	require.Error(t, err)
}
