package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
	"github.com/custodia-labs/contextguard/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// DefaultDebounce coalesces the burst of events an editor produces on save.
const DefaultDebounce = 250 * time.Millisecond

// ErrWatcherClosed is returned by Watch after Close.
var ErrWatcherClosed = errors.New("watcher is closed")

// Watcher reports changes to a fixed set of files.
//
// The parent directory of each file is watched rather than the file itself,
// so editors that save by writing a new file and renaming it over the old
// one are still seen.
type Watcher struct {
	loader   *Loader
	debounce time.Duration

	mu       sync.Mutex
	closed   bool
	watchers []*fsnotify.Watcher
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long events for one file are coalesced.
// Zero emits every event as it arrives.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLoader sets the loader used to read changed files.
func WithLoader(l *Loader) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.loader = l
		}
	}
}

// NewWatcher creates a file watcher.
func NewWatcher(opts ...WatcherOption) *Watcher {
	w := &Watcher{
		loader:   NewLoader(),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch starts watching paths. Every path must exist. The returned channel is
// closed when ctx is done or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context, paths []string) (<-chan domain.RawDocumentChange, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrWatcherClosed
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no files to watch", domain.ErrInvalidInput)
	}

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(ResolvePath(p))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		if _, err := os.Stat(abs); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("watch %s: %w", abs, domain.ErrNotFound)
			}
			return nil, fmt.Errorf("watch %s: %w", abs, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.watchers = append(w.watchers, fsw)

	out := make(chan domain.RawDocumentChange)
	go w.run(ctx, fsw, targets, out)

	logger.Debug("watching %d file(s) in %d director(ies)", len(targets), len(dirs))
	return out, nil
}

// run forwards events for targets until ctx is done or fsw is closed.
func (w *Watcher) run(
	ctx context.Context,
	fsw *fsnotify.Watcher,
	targets map[string]bool,
	out chan<- domain.RawDocumentChange,
) {
	defer close(out)
	defer w.release(fsw)

	pending := make(map[string]domain.ChangeType)
	var timer *time.Timer
	var fire <-chan time.Time

	send := func(change *domain.RawDocumentChange) bool {
		if change == nil {
			return true
		}
		select {
		case out <- *change:
			return true
		case <-ctx.Done():
			return false
		}
	}

	flush := func() bool {
		names := make([]string, 0, len(pending))
		for name := range pending {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if !send(w.buildChange(name, pending[name])) {
				return false
			}
			delete(pending, name)
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			logger.Debug("%s %s", event.Op, event.Name)

			if w.debounce == 0 {
				if !send(w.handleFsEvent(event)) {
					return
				}
				continue
			}
			changeType, ok := classify(event)
			if !ok {
				continue
			}
			name := filepath.Clean(event.Name)
			pending[name] = merge(pending, name, changeType)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if !flush() {
				return
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher: %v", err)
		}
	}
}

// merge keeps a pending creation a creation when the file is written again.
func merge(pending map[string]domain.ChangeType, name string, next domain.ChangeType) domain.ChangeType {
	if prev, ok := pending[name]; ok && prev == domain.ChangeCreated && next == domain.ChangeUpdated {
		return domain.ChangeCreated
	}
	return next
}

// classify maps an fsnotify operation to a change type.
// Chmod-only events are ignored.
func classify(event fsnotify.Event) (domain.ChangeType, bool) {
	switch {
	case event.Op.Has(fsnotify.Create):
		return domain.ChangeCreated, true
	case event.Op.Has(fsnotify.Write):
		return domain.ChangeUpdated, true
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		return domain.ChangeDeleted, true
	default:
		return 0, false
	}
}

// handleFsEvent converts an fsnotify event into a change, or nil if the
// event should be ignored.
func (w *Watcher) handleFsEvent(event fsnotify.Event) *domain.RawDocumentChange {
	changeType, ok := classify(event)
	if !ok {
		return nil
	}
	return w.buildChange(event.Name, changeType)
}

// buildChange reads the file for creations and updates. A file that has
// vanished by the time it is read is reported as deleted.
func (w *Watcher) buildChange(name string, changeType domain.ChangeType) *domain.RawDocumentChange {
	if changeType == domain.ChangeDeleted {
		return &domain.RawDocumentChange{
			Type:     domain.ChangeDeleted,
			Document: domain.RawDocument{URI: name},
		}
	}

	info, err := os.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &domain.RawDocumentChange{
				Type:     domain.ChangeDeleted,
				Document: domain.RawDocument{URI: name},
			}
		}
		logger.Warn("stat %s: %v", name, err)
		return nil
	}
	if info.IsDir() {
		return nil
	}

	raw, err := w.loader.Load(context.Background(), name)
	if err != nil {
		logger.Warn("read %s: %v", name, err)
		return nil
	}
	return &domain.RawDocumentChange{Type: changeType, Document: *raw}
}

func (w *Watcher) release(fsw *fsnotify.Watcher) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, active := range w.watchers {
		if active == fsw {
			w.watchers = append(w.watchers[:i], w.watchers[i+1:]...)
			break
		}
	}
	fsw.Close()
}

// Close stops every active watch. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	for _, fsw := range w.watchers {
		if err := fsw.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	w.watchers = nil
	return errors.Join(errs...)
}
