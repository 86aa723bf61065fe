package sandbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 150 * time.Millisecond

// Watch runs the file at path once, then again after every change, passing
// each result to fn. It returns when ctx is done.
func (s *Sandbox) Watch(ctx context.Context, path string, lang Language, fn func(Result)) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	// Editors often replace files by rename, so watch the directory.
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	runFile := func() {
		source, err := os.ReadFile(target)
		if err != nil {
			s.opts.Logger.Warn().Err(err).Str("path", target).Msg("read watched file")
			return
		}
		fn(s.Run(ctx, Request{Source: string(source), Language: lang}))
	}
	runFile()

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			debounce.Reset(watchDebounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			s.opts.Logger.Error().Err(err).Msg("watcher error")

		case <-debounce.C:
			runFile()
		}
	}
}
