package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.PerCallTimeout)
	assert.Equal(t, 10*time.Second, cfg.BatchTimeout)
	assert.Equal(t, 5, cfg.MaxConcurrent)
	assert.Equal(t, 69, cfg.UnvalidatedCap)
	assert.Equal(t, 70, cfg.HighThreshold)
	assert.Equal(t, "full", cfg.FootnoteStyle)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := "footnote_style: short\nmax_concurrent: 3\nper_call_timeout: 2s\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "short", cfg.FootnoteStyle)
	assert.Equal(t, 3, cfg.MaxConcurrent)
	assert.Equal(t, 2*time.Second, cfg.PerCallTimeout)
	// Unset keys keep defaults.
	assert.Equal(t, 10*time.Second, cfg.BatchTimeout)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad_footnote_style":  "footnote_style: fancy\n",
		"zero_timeout":        "per_call_timeout: 0s\n",
		"cap_above_threshold": "unvalidated_cap: 90\n",
	}
	for name, contents := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
