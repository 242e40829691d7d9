package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical service defaults file.
const DefaultConfigPath = "config/service.defaults.json"

// ServiceConfig holds startup settings for the HTTP service. All fields
// are pointers so a partial JSON file only overrides what it names; the
// Get* methods supply defaults for everything else.
type ServiceConfig struct {
	ListenAddr    *string `json:"listen_addr,omitempty"`
	DBPath        *string `json:"db_path,omitempty"`
	ProfilesPath  *string `json:"profiles_path,omitempty"`
	RecordingsDir *string `json:"recordings_dir,omitempty"`
	Dev           *bool   `json:"dev,omitempty"`

	// Pipeline params
	QueueCapacity   *int `json:"queue_capacity,omitempty"`
	HistoryCapacity *int `json:"history_capacity,omitempty"`
}

// EmptyServiceConfig returns a ServiceConfig with all fields unset.
func EmptyServiceConfig() *ServiceConfig {
	return &ServiceConfig{}
}

// LoadServiceConfig loads a ServiceConfig from a JSON file. The file
// must have a .json extension and stay under the max file size. Fields
// omitted from the JSON retain their defaults, so partial configs are
// safe.
func LoadServiceConfig(path string) (*ServiceConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyServiceConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *ServiceConfig) Validate() error {
	if c.QueueCapacity != nil && *c.QueueCapacity <= 0 {
		return fmt.Errorf("queue_capacity must be positive, got %d", *c.QueueCapacity)
	}
	if c.HistoryCapacity != nil && *c.HistoryCapacity <= 0 {
		return fmt.Errorf("history_capacity must be positive, got %d", *c.HistoryCapacity)
	}
	if c.ListenAddr != nil && *c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty when set")
	}
	return nil
}

// GetListenAddr returns the listen_addr value or the default.
func (c *ServiceConfig) GetListenAddr() string {
	if c.ListenAddr == nil {
		return ":8089"
	}
	return *c.ListenAddr
}

// GetDBPath returns the db_path value or the default.
func (c *ServiceConfig) GetDBPath() string {
	if c.DBPath == nil {
		return "motion.db"
	}
	return *c.DBPath
}

// GetProfilesPath returns the profiles_path value or the default.
// Empty means use the built-in sport profiles.
func (c *ServiceConfig) GetProfilesPath() string {
	if c.ProfilesPath == nil {
		return ""
	}
	return *c.ProfilesPath
}

// GetRecordingsDir returns the recordings_dir value or the default.
// Empty leaves replay paths unrestricted.
func (c *ServiceConfig) GetRecordingsDir() string {
	if c.RecordingsDir == nil {
		return ""
	}
	return *c.RecordingsDir
}

// GetDev returns the dev value or the default.
func (c *ServiceConfig) GetDev() bool {
	if c.Dev == nil {
		return false
	}
	return *c.Dev
}

// GetQueueCapacity returns the queue_capacity value or the default.
func (c *ServiceConfig) GetQueueCapacity() int {
	if c.QueueCapacity == nil {
		return 10
	}
	return *c.QueueCapacity
}

// GetHistoryCapacity returns the history_capacity value or the default.
func (c *ServiceConfig) GetHistoryCapacity() int {
	if c.HistoryCapacity == nil {
		return 64
	}
	return *c.HistoryCapacity
}
