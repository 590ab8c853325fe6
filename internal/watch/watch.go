// Package watch re-runs a generation function whenever one of the files that
// function reports changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Regenerate is called once up front and again after every detected change.
// It returns the files to watch, even when it also returns an error. Run adds
// every newly reported file to the watcher's subscription set; files are
// never removed from it. The tspgen CLI reports only the entry files named
// on its command line, so files reached only through imports are not
// watched.
type Regenerate func() (inputFiles []string, err error)

// debounce coalesces bursts of filesystem events (a single save can emit
// several) into one regeneration.
const debounce = 150 * time.Millisecond

// Run watches whatever regenerate reports after each run for changes,
// invoking regenerate again after every detected (debounced) modification,
// until ctx is cancelled. onError receives regeneration failures without
// stopping the watch loop, matching a watch mode's expectation that a
// broken edit shouldn't kill the whole session.
func Run(ctx context.Context, regenerate Regenerate, onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting filesystem watcher: %w", err)
	}
	defer watcher.Close()

	watched := map[string]struct{}{}

	resync := func() {
		files, err := regenerate()
		addWatches(watcher, watched, files)
		if err != nil {
			onError(err)
		}
	}

	resync()

	var timer *time.Timer
	pending := false

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending = true
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onError(fmt.Errorf("watcher: %w", err))

		case <-timerC:
			if pending {
				pending = false
				resync()
			}
			timer = nil
		}
	}
}

func addWatches(watcher *fsnotify.Watcher, watched map[string]struct{}, files []string) {
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		if _, ok := watched[abs]; ok {
			continue
		}
		if err := watcher.Add(abs); err != nil {
			continue
		}
		watched[abs] = struct{}{}
	}
}
