package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"food-translator/internal/pkg/common"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// 連續寫入時只在最後一次事件後重新載入
const watchDebounce = 250 * time.Millisecond

// Watch 監看資料檔所在目錄，檔案變更時重新載入，直到 ctx 結束
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	files := map[string]bool{}
	for _, p := range []string{s.config.LexiconPath, s.config.UniversePath} {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files[abs] = true
		// 監看目錄，編輯器以 rename 取代檔案時才收得到事件
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
		}
	}

	common.LogInfo("Watching catalog files",
		zap.String("lexicon", s.config.LexiconPath),
		zap.String("universe", s.config.UniversePath),
	)

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !files[abs] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				common.LogDebug("Catalog file changed",
					zap.String("file", event.Name),
					zap.String("op", event.Op.String()),
				)
				timer.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			common.LogWarn("Catalog watcher error", zap.Error(err))
		case <-timer.C:
			// 失敗時 Reload 已記錄錯誤並保留舊快照
			_, _ = s.Reload()
		}
	}
}
