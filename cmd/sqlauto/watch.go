package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watch calls run after every change of the file at path until ctx is
// done. Bursts of events within the debounce interval trigger one run.
// Failed runs are logged and watching goes on.
func (a *app) watch(ctx context.Context, path string, run func(context.Context) error) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	// Editors replace files on save, so watch the directory.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	a.log.Info("watching", zap.String("input", path))

	timer := time.NewTimer(a.debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(a.debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watch error", zap.Error(err))
		case <-timer.C:
			a.log.Info("input changed", zap.String("input", path))
			if err := run(ctx); err != nil {
				a.log.Error("regenerate", zap.Error(err))
			}
		}
	}
}
