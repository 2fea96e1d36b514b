package catalog

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnChange(t *testing.T) {
	cfg := writeFiles(t, t.TempDir(), testLexiconJSON, testUniverseJSON)
	store, err := NewStore(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	// 等待 watcher 就緒後再寫檔
	time.Sleep(100 * time.Millisecond)
	updated := `[{"name": "Larb", "cuisine": "Thai", "ingredients": ["chili", "lime"]}]`
	require.NoError(t, os.WriteFile(cfg.UniversePath, []byte(updated), 0o644))

	assert.Eventually(t, func() bool {
		snap, err := store.Current()
		return err == nil && len(snap.Universe) == 1 && snap.Universe[0].Name == "Larb"
	}, 3*time.Second, 25*time.Millisecond)
}
