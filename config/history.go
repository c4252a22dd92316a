package config

import (
	"fmt"

	"github.com/kilianp07/rcpsp/core/factory"
)

// HistoryConfig defines settings for run history storage and rotation.
type HistoryConfig struct {
	// Backend selects the store type: "jsonl", "sqlite" or "none".
	Backend string `json:"backend" yaml:"backend"`
	// Path is the file location of the store.
	Path string `json:"path" yaml:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups" yaml:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days" yaml:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *HistoryConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" && c.Backend != "none" {
		if c.Backend == "sqlite" {
			c.Path = ".rcpsp/runs.db"
		} else {
			c.Path = ".rcpsp/runs.jsonl"
		}
	}
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 5
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = 30
	}
}

// Validate checks mandatory fields.
func (c HistoryConfig) Validate() error {
	switch c.Backend {
	case "jsonl", "sqlite":
		if c.Path == "" {
			return fmt.Errorf("path is required")
		}
	case "none":
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	return nil
}

// Module returns the store factory configuration for runlog.NewStore.
func (c HistoryConfig) Module() factory.ModuleConfig {
	switch c.Backend {
	case "jsonl":
		return factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{
			"path":         c.Path,
			"max_size_mb":  c.MaxSizeMB,
			"max_backups":  c.MaxBackups,
			"max_age_days": c.MaxAgeDays,
		}}
	case "sqlite":
		return factory.ModuleConfig{Type: "sqlite", Conf: map[string]any{"path": c.Path}}
	default:
		return factory.ModuleConfig{}
	}
}
