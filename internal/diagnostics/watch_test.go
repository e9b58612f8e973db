package diagnostics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	data, err := os.ReadFile("../../testdata/diagnostics/rules.yaml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r := NewResolver(DefaultRules())
	var reloaded int
	w, err := NewRulesWatcher(path, r, func(rules []Rule) { reloaded = len(rules) })
	require.NoError(t, err)
	defer w.Stop()

	assert.True(t, w.Reload())
	assert.Equal(t, 2, reloaded)
	assert.Len(t, r.Rules(), 2)

	// A broken file keeps the previous table.
	require.NoError(t, os.WriteFile(path, []byte("rules: [\n"), 0o644))
	assert.False(t, w.Reload())
	assert.Len(t, r.Rules(), 2)
}
