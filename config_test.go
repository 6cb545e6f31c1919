package tabledb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
block_capacity: 128
blocks_per_segment: 4
log:
  level: debug
  format: json
resources:
  memory_limit_bytes: 1048576
  max_scan_workers: 2
`))
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.BlockCapacity)
	assert.Equal(t, 4, cfg.BlocksPerSegment)
	assert.Equal(t, int64(1048576), cfg.Resources.MemoryLimitBytes)

	o := applyOptions(cfg.Options())
	assert.Equal(t, 128, o.blockCapacity)
	assert.Equal(t, 4, o.blocksPerSegment)
	require.NotNil(t, o.resources)
	assert.Equal(t, int64(1048576), o.resources.MemoryLimit())
	assert.Equal(t, 2, o.resources.ScanWorkers())
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)

	o := applyOptions(cfg.Options())
	assert.Equal(t, defaultOptions().blockCapacity, o.blockCapacity)
	assert.Nil(t, o.resources)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown key":     "block_size: 1",
		"negative":        "block_capacity: -1",
		"bad level":       "log: {level: loud}",
		"bad format":      "log: {format: xml}",
		"negative limit":  "resources: {memory_limit_bytes: -5}",
		"not yaml":        "block_capacity: [",
		"segment too big": "block_capacity: 1048576\nblocks_per_segment: 8192",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(src))
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabledb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("block_capacity: 16\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.BlockCapacity)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
