package scenefile

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind says which reload a changed file needs.
type ChangeKind int

const (
	SceneChange ChangeKind = iota
	ScriptChange
)

func (k ChangeKind) String() string {
	switch k {
	case SceneChange:
		return "scene"
	case ScriptChange:
		return "script"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// Change is a scene or script file that was written, created, renamed, or
// removed.
type Change struct {
	Path string
	Kind ChangeKind
}

// settleDelay is how long the watched directories must stay quiet before the
// collected changes are delivered. Editors often write a file several times
// per save.
const settleDelay = 100 * time.Millisecond

const reloadOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

func classify(path string) (ChangeKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SceneChange, true
	case ".tengo":
		return ScriptChange, true
	}
	return 0, false
}

// Watcher collects scene and script changes and hands them over in batches
// once the files settle. The frame loop polls it; the watcher goroutine never
// touches the scene.
type Watcher struct {
	fs      *fsnotify.Watcher
	batches chan []Change
	stop    chan struct{}
	stopped chan struct{}

	closeOnce sync.Once
	closeErr  error

	mu      sync.Mutex
	lastErr error
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("scenefile: watch: %w", err)
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("scenefile: watch %s: %w", dir, err)
		}
	}

	w := &Watcher{
		fs:      fw,
		batches: make(chan []Change, 4),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.collect()
	return w, nil
}

// Batches delivers settled changes, scenes before scripts. It is closed by
// Close.
func (w *Watcher) Batches() <-chan []Change {
	return w.batches
}

// Poll merges every batch delivered so far without blocking. open is false
// once the watcher has been closed.
func (w *Watcher) Poll() (changes []Change, open bool) {
	for {
		select {
		case batch, ok := <-w.batches:
			if !ok {
				return changes, false
			}
			changes = append(changes, batch...)
		default:
			return changes, true
		}
	}
}

// Err returns and clears the last error reported by the file system.
func (w *Watcher) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.lastErr
	w.lastErr = nil
	return err
}

func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.stop)
		w.closeErr = w.fs.Close()
		<-w.stopped
		close(w.batches)
	})
	return w.closeErr
}

func (w *Watcher) collect() {
	defer close(w.stopped)

	pending := make(map[string]ChangeKind)
	settle := time.NewTimer(settleDelay)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&reloadOps == 0 {
				continue
			}
			kind, ok := classify(ev.Name)
			if !ok {
				continue
			}
			pending[ev.Name] = kind
			settle.Reset(settleDelay)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.mu.Lock()
			w.lastErr = err
			w.mu.Unlock()
		case <-settle.C:
			select {
			case w.batches <- drain(pending):
			case <-w.stop:
				return
			}
		}
	}
}

// drain empties pending into a batch ordered by kind, then path.
func drain(pending map[string]ChangeKind) []Change {
	batch := make([]Change, 0, len(pending))
	for path, kind := range pending {
		batch = append(batch, Change{Path: path, Kind: kind})
		delete(pending, path)
	}
	sort.Slice(batch, func(i, j int) bool {
		if batch[i].Kind != batch[j].Kind {
			return batch[i].Kind < batch[j].Kind
		}
		return batch[i].Path < batch[j].Path
	})
	return batch
}
