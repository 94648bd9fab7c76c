package lzdict

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Dir: "."}
	cfg.ApplyDefaults()
	require.Equal(t, Anon, cfg.Alloc)
	require.Equal(t, datasize.MB, cfg.WriteBuffer)
	require.Equal(t, 30*time.Second, cfg.LogEvery)
	require.NotNil(t, cfg.Logger)
	require.NoError(t, cfg.Verify())
}

func TestConfigVerify(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"dir", Config{}},
		{"alloc", Config{Dir: ".", Alloc: 7}},
		{"limit", Config{Dir: ".", Limit: -1}},
		{"logEvery", Config{Dir: ".", LogEvery: -time.Second}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.ApplyDefaults()
			if err := cfg.Verify(); err == nil {
				t.Fatalf("cfg.Verify() returned no error for %+v", tc.cfg)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	name := filepath.Join(t.TempDir(), "config.json")
	p := []byte(`{"dir": "/data", "alloc": "heap", "writeBuffer": "4MB",
		"minRating": 1.5, "limit": 10}`)
	require.NoError(t, os.WriteFile(name, p, 0o644))
	cfg := Config{LogEvery: time.Minute}
	if err := LoadConfig(name, &cfg); err != nil {
		t.Fatalf("LoadConfig(%q) error %s", name, err)
	}
	require.Equal(t, "/data", cfg.Dir)
	require.Equal(t, Heap, cfg.Alloc)
	require.Equal(t, 4*datasize.MB, cfg.WriteBuffer)
	require.Equal(t, float32(1.5), cfg.MinRating)
	require.Equal(t, 10, cfg.Limit)
	require.Equal(t, time.Minute, cfg.LogEvery)

	require.NoError(t, os.WriteFile(name, []byte(`{"alloc": "disk"}`), 0o644))
	require.Error(t, LoadConfig(name, &cfg))
}

func TestAllocTypeText(t *testing.T) {
	for _, at := range []AllocType{Anon, Heap} {
		p, err := at.MarshalText()
		require.NoError(t, err)
		var x AllocType
		require.NoError(t, x.UnmarshalText(p))
		require.Equal(t, at, x)
	}
	require.Equal(t, "AllocType(9)", AllocType(9).String())
}
