package runlog

import (
	"github.com/kilianp07/rcpsp/core/factory"
)

var storeRegistry = factory.NewRegistry[Store]()

func init() {
	_ = storeRegistry.Register("nop", func(map[string]any) (Store, error) {
		return NopStore{}, nil
	})
	_ = storeRegistry.Register("jsonl", func(conf map[string]any) (Store, error) {
		c := struct {
			Path       string `json:"path"`
			MaxSizeMB  int    `json:"max_size_mb"`
			MaxBackups int    `json:"max_backups"`
			MaxAgeDays int    `json:"max_age_days"`
		}{Path: "runs.jsonl", MaxSizeMB: 10, MaxBackups: 5, MaxAgeDays: 30}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})
	_ = storeRegistry.Register("sqlite", func(conf map[string]any) (Store, error) {
		c := struct {
			Path string `json:"path"`
		}{Path: "runs.db"}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSQLiteStore(c.Path)
	})
}

// NewStore creates a Store from its configuration. An empty type yields a NopStore.
func NewStore(cfg factory.ModuleConfig) (Store, error) {
	if cfg.Type == "" {
		return NopStore{}, nil
	}
	return storeRegistry.Create(cfg)
}
