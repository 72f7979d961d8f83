package watch

import (
	"context"
	"errors"
	"github.com/fsnotify/fsnotify"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultDebounce = 200 * time.Millisecond

// RebuildFunc runs one full build. It is never called concurrently.
type RebuildFunc func(ctx context.Context) error

type Watcher struct {
	Dir      string
	Rebuild  RebuildFunc
	Debounce time.Duration
	// Timeout bounds a single rebuild; zero means no bound.
	Timeout time.Duration
	Logger  *log.Logger
}

// Run builds once, then rebuilds after every burst of changes under Dir
// until ctx is cancelled. A failed rebuild is logged and the previous
// output stays in place.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Rebuild == nil {
		return errors.New("watch: missing rebuild func")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := addTree(fw, w.Dir); err != nil {
		return err
	}

	w.rebuild(ctx)
	w.logf("[watch] watching %s for changes ...", w.Dir)

	delay := w.Debounce
	if delay <= 0 {
		delay = DefaultDebounce
	}
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	trigger := func() {
		if !debounce.Stop() {
			select {
			case <-debounce.C:
			default:
			}
		}
		debounce.Reset(delay)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ignored(w.Dir, ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				// 新建目录也要监听
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := addTree(fw, ev.Name); err != nil {
						w.logf("[warn] watch %s: %v", ev.Name, err)
					}
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				trigger()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logf("[warn] watcher error: %v", err)
		case <-debounce.C:
			w.rebuild(ctx)
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context) {
	rctx, cancel := ctx, context.CancelFunc(func() {})
	if w.Timeout > 0 {
		rctx, cancel = context.WithTimeout(ctx, w.Timeout)
	}
	defer cancel()

	start := time.Now()
	if err := w.Rebuild(rctx); err != nil {
		w.logf("[watch] rebuild error: %v", err)
		return
	}
	w.logf("[watch] rebuild complete in %s", time.Since(start).Round(time.Millisecond))
}

func (w *Watcher) logf(format string, args ...interface{}) {
	if w.Logger != nil {
		w.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}

// ignored reports editor swap files and anything under a dot directory.
func ignored(root, name string) bool {
	rel, err := filepath.Rel(root, name)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	base := filepath.Base(name)
	return strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp")
}
