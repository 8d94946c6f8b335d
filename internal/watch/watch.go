// Package watch re-runs an export whenever one of its source files changes.
//
// Directories are watched rather than files: editors that save atomically
// replace the file, which drops a per-file watch. Events are filtered back
// down to the files of interest and debounced, since one save can emit
// several events.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Job runs one export pass and reports the files it read. The next pass
// watches exactly those files, so includes added or removed between runs are
// picked up.
type Job func() ([]string, error)

// Watcher drives the re-export loop.
type Watcher struct {
	log      *zap.SugaredLogger
	debounce time.Duration
	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]bool
	done     chan struct{}
}

// New returns a watcher with the given debounce interval.
func New(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		log:      zap.NewNop().Sugar(),
		debounce: debounce,
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		done:     make(chan struct{}),
	}, nil
}

// WithLogger sets the logger for watch events.
func (w *Watcher) WithLogger(log *zap.SugaredLogger) *Watcher {
	if log != nil {
		w.log = log
	}
	return w
}

// Run performs one pass immediately, then blocks, re-running job after each
// debounced change to a watched file. A failing pass is logged and leaves
// the previous watch set in place; root is always watched. Run returns after
// Close.
func (w *Watcher) Run(root string, job Job) error {
	files, err := job()
	if err != nil {
		return err
	}
	w.retarget(append(files, root))

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debugf("%s changed (%s)", ev.Name, ev.Op)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
				continue
			}
			if !timer.Stop() {
				<-timerC
			}
			timer.Reset(w.debounce)

		case <-timerC:
			timer = nil
			timerC = nil
			w.refresh(root, job)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnf("watch error: %v", err)

		case <-w.done:
			return nil
		}
	}
}

// Close stops the loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

// refresh runs one more pass. A failing pass keeps the previous watch set,
// so a fix to the broken file still triggers the next run.
func (w *Watcher) refresh(root string, job Job) {
	files, err := job()
	if err != nil {
		w.log.Warnf("export failed, watching previous file set: %v", err)
		return
	}
	w.retarget(append(files, root))
}

// retarget replaces the watched file set, adjusting the underlying
// directory watches. An empty update keeps the current set.
func (w *Watcher) retarget(files []string) {
	if len(files) == 0 {
		return
	}
	w.files = make(map[string]bool, len(files))
	next := make(map[string]bool, len(files))
	for _, f := range files {
		clean := filepath.Clean(f)
		w.files[clean] = true
		next[filepath.Dir(clean)] = true
	}
	for dir := range next {
		if !w.dirs[dir] {
			if err := w.fsw.Add(dir); err != nil {
				w.log.Warnf("watch %s: %v", dir, err)
				continue
			}
			w.log.Debugf("watching %s", dir)
		}
	}
	for dir := range w.dirs {
		if !next[dir] {
			_ = w.fsw.Remove(dir)
		}
	}
	w.dirs = next
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !w.files[filepath.Clean(ev.Name)] {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}
