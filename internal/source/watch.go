package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay groups the burst of events a single save produces.
const settleDelay = 100 * time.Millisecond

// Watch extracts path once and then again after every change to it, passing
// each result to fn. It blocks until ctx is done. The parent directory is
// watched so editors that replace the file on save are still followed.
func Watch(ctx context.Context, path string, opts Options, fn func(text string, err error)) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if info, err := os.Stat(target); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	} else if info.IsDir() {
		return fmt.Errorf("failed to watch %s: is a directory", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	fn(Read(target, opts))

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			settle = time.After(settleDelay)
		case <-settle:
			settle = nil
			fn(Read(target, opts))
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}
