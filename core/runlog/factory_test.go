package runlog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rcpsp/core/factory"
)

func TestNewStore(t *testing.T) {
	s, err := NewStore(factory.ModuleConfig{})
	require.NoError(t, err)
	assert.IsType(t, NopStore{}, s)

	dir := t.TempDir()
	s, err = NewStore(factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": filepath.Join(dir, "r.jsonl")}})
	require.NoError(t, err)
	assert.IsType(t, &RotatingJSONLStore{}, s)
	require.NoError(t, s.Close())

	s, err = NewStore(factory.ModuleConfig{Type: "sqlite", Conf: map[string]any{"path": filepath.Join(dir, "r.db")}})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = NewStore(factory.ModuleConfig{Type: "postgres"})
	assert.Error(t, err)
}
