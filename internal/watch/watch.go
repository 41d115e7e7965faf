// Package watch formats markdown files on disk whenever they are saved.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/codalotl/mdfmt/internal/buffer"
	"github.com/codalotl/mdfmt/internal/editor"
	"github.com/codalotl/mdfmt/internal/position"
)

// DefaultDebounce is how long a file must be quiet before it is formatted.
const DefaultDebounce = 200 * time.Millisecond

// Watcher runs a save hook over markdown files as they change, writing the result back only if the hook changed the content.
//
// Writing back triggers another event; the second run changes nothing because formatting is idempotent, so the loop settles.
type Watcher struct {
	Hook     editor.SaveHook
	Unit     position.Unit // column unit of the buffers handed to Hook
	Debounce time.Duration // 0 means DefaultDebounce

	Log func(format string, args ...any) // optional

	// OnFormat, if set, is called after each file is processed.
	OnFormat func(path string, changed bool, err error)

	mu      sync.Mutex
	pending map[string]time.Time
}

// Run watches paths (files or directory trees) until ctx is done. It returns nil when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return errors.New("watch: no paths")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	var s scope
	for _, p := range paths {
		p = filepath.Clean(p)
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		if info.IsDir() {
			if err := addTree(fw, p); err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			s.trees = append(s.trees, p)
			continue
		}
		// Editors often save by renaming over the file, which drops a watch on the file itself.
		if err := fw.Add(filepath.Dir(p)); err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		s.files = append(s.files, p)
	}

	w.mu.Lock()
	w.pending = make(map[string]time.Time)
	w.mu.Unlock()

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ticker := time.NewTicker(debounce / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(ev.Name)
			if ev.Has(fsnotify.Create) && s.inTree(name) {
				if info, err := os.Stat(name); err == nil && info.IsDir() {
					if err := addTree(fw, name); err != nil {
						w.logf("watch: add %s: %v", name, err)
					}
					continue
				}
			}
			if !editor.IsMarkdown(name) || !s.contains(name) {
				continue
			}
			w.mu.Lock()
			w.pending[name] = time.Now()
			w.mu.Unlock()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logf("watch: %v", err)

		case now := <-ticker.C:
			for _, p := range w.due(now, debounce) {
				changed, err := w.FormatFile(p)
				if err != nil {
					w.logf("watch: %v", err)
				}
				if w.OnFormat != nil {
					w.OnFormat(p, changed, err)
				}
			}
		}
	}
}

// due removes and returns the pending paths that have been quiet for at least debounce.
func (w *Watcher) due(now time.Time, debounce time.Duration) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for p, t := range w.pending {
		if now.Sub(t) >= debounce {
			out = append(out, p)
			delete(w.pending, p)
		}
	}
	return out
}

// FormatFile runs the hook over the file at path and writes it back if the content changed.
func (w *Watcher) FormatFile(path string) (changed bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	old := string(data)
	buf := buffer.New(old, w.Unit)
	if err := w.Hook.BeforeSave(path, buf); err != nil {
		return false, err
	}
	if buf.Value() == old {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(buf.Value()), info.Mode().Perm()); err != nil {
		return false, err
	}
	w.logf("watch: formatted %s", path)
	return true, nil
}

func (w *Watcher) logf(format string, args ...any) {
	if w.Log != nil {
		w.Log(format, args...)
	}
}

// scope is the set of paths Run was asked to watch.
type scope struct {
	files []string
	trees []string
}

func (s scope) contains(path string) bool {
	return slices.Contains(s.files, path) || s.inTree(path)
}

func (s scope) inTree(path string) bool {
	for _, t := range s.trees {
		if rel, err := filepath.Rel(t, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// addTree watches dir and every directory below it, skipping hidden directories.
func addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && len(d.Name()) > 1 && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}
