package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"DBPath", cfg.DBPath, DefaultDBPath()},
		{"Catalog", cfg.Catalog, "instances.json"},
		{"EditPolicy", cfg.EditPolicy, domain.PolicyLearning},
		{"LogUseCases", cfg.LogUseCases, false},
		{"SentinelTaskName", cfg.SentinelTaskName, "Integration"},
		{"PlaybackTickMs", cfg.PlaybackTickMs, 250},
		{"PlaybackSpeed", cfg.PlaybackSpeed, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCHEDTRACE_EDIT_POLICY", "strict")
	t.Setenv("SCHEDTRACE_PLAYBACK_SPEED", "3")
	t.Setenv("SCHEDTRACE_CATALOG", "/data/instances.json")

	v, err := New(writeConfig(t, "log_use_cases: true\n"))
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, domain.PolicyStrict, cfg.EditPolicy)
	assert.Equal(t, 3, cfg.PlaybackSpeed)
	assert.Equal(t, "/data/instances.json", cfg.Catalog)
	assert.True(t, cfg.LogUseCases)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := writeConfig(t, "db_path: /tmp/games.db\nsentinel_task_name: Rollout\nplayback_tick_ms: 100\n")
	v, err := New(path)
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/games.db", cfg.DBPath)
	assert.Equal(t, "Rollout", cfg.SentinelTaskName)
	assert.Equal(t, 100, cfg.PlaybackTickMs)
}

func TestNew_ExplicitMissingFileFails(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNew_SearchedFileIsOptional(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	_, err := New("")
	assert.NoError(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	v := viper.New()
	v.Set("edit_policy", "lenient")
	v.Set("playback_speed", 0)

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "edit_policy")
	assert.Contains(t, err.Error(), "playback_speed")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".schedtrace.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}
