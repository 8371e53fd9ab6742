package main

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/karaoke"
)

// watchConfig sends the config at path to out every time the file is
// written, until ctx is done. Invalid files are logged and skipped.
//
// The parent directory is watched so editors that replace the file on save
// keep being followed.
func watchConfig(ctx context.Context, path string, out chan<- karaoke.Config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				cfg, err := readConfig(abs)
				if err != nil {
					slog.Warn("lyricsdemo: config reload failed", "err", err)
					continue
				}
				select {
				case out <- cfg:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("lyricsdemo: watcher error", "err", err)
			}
		}
	}()
	return nil
}
