package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := EmptyServiceConfig()
	assert.Equal(t, ":8089", cfg.GetListenAddr())
	assert.Equal(t, "motion.db", cfg.GetDBPath())
	assert.Equal(t, "", cfg.GetProfilesPath())
	assert.Equal(t, "", cfg.GetRecordingsDir())
	assert.False(t, cfg.GetDev())
	assert.Equal(t, 10, cfg.GetQueueCapacity())
	assert.Equal(t, 64, cfg.GetHistoryCapacity())
}

func TestPartialOverride(t *testing.T) {
	path := writeConfig(t, "svc.json", `{"listen_addr":":9000","queue_capacity":32}`)
	cfg, err := LoadServiceConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.GetListenAddr())
	assert.Equal(t, 32, cfg.GetQueueCapacity())
	// Untouched fields keep their defaults.
	assert.Equal(t, "motion.db", cfg.GetDBPath())
	assert.Equal(t, 64, cfg.GetHistoryCapacity())
}

func TestFullConfig(t *testing.T) {
	path := writeConfig(t, "svc.json",
		`{"listen_addr":":7070","db_path":"/var/lib/motion/motion.db","profiles_path":"profiles.json","recordings_dir":"/srv/recordings","dev":true,"queue_capacity":16,"history_capacity":128}`)
	cfg, err := LoadServiceConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.GetListenAddr())
	assert.Equal(t, "/var/lib/motion/motion.db", cfg.GetDBPath())
	assert.Equal(t, "profiles.json", cfg.GetProfilesPath())
	assert.Equal(t, "/srv/recordings", cfg.GetRecordingsDir())
	assert.True(t, cfg.GetDev())
	assert.Equal(t, 16, cfg.GetQueueCapacity())
	assert.Equal(t, 128, cfg.GetHistoryCapacity())
}

func TestRejectsNonJSONExtension(t *testing.T) {
	path := writeConfig(t, "svc.yaml", `listen_addr: :9000`)
	_, err := LoadServiceConfig(path)
	assert.ErrorContains(t, err, ".json extension")
}

func TestRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero queue capacity", `{"queue_capacity":0}`},
		{"negative history capacity", `{"history_capacity":-1}`},
		{"empty listen addr", `{"listen_addr":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "svc.json", tt.content)
			_, err := LoadServiceConfig(path)
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestRejectsMalformedJSON(t *testing.T) {
	path := writeConfig(t, "svc.json", `{"listen_addr":`)
	_, err := LoadServiceConfig(path)
	assert.ErrorContains(t, err, "parse")
}

func TestMissingFile(t *testing.T) {
	_, err := LoadServiceConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
