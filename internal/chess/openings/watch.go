package openings

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDelay coalesces the burst of events an editor produces on save.
const reloadDelay = 250 * time.Millisecond

// Watch reloads the openings file whenever it changes on disk and hands the
// new corpus to onReload. The directory is watched so that files replaced by
// rename are picked up. Watch returns once the watcher is running; it stops
// when ctx is done.
// 재로딩 결과는 이후 시작되는 대국부터 적용.
func Watch(ctx context.Context, path string, logger *zap.Logger, onReload func(*Corpus)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}
	target := filepath.Clean(path)

	go func() {
		defer watcher.Close()
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(reloadDelay)
				} else {
					timer.Reset(reloadDelay)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				c := Load(path, logger)
				logger.Info("openings_reloaded", zap.String("source", c.Source()), zap.Int("entries", c.Len()))
				onReload(c)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("openings_watch_error", zap.Error(err))
			}
		}
	}()
	logger.Info("openings_watching", zap.String("path", path))
	return nil
}
