package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/loopship/pkg/log"
	"github.com/bft-labs/loopship/pkg/payload"
)

// ReloadDebounce is how long a watched file must stay quiet before it is
// reloaded.
const ReloadDebounce = 100 * time.Millisecond

// File is a field holding the contents of a file on disk. Once Watch is
// running, every write to the file reloads the contents and notifies
// subscribers, so a reactive payload follows the file as it is edited.
type File struct {
	label  string
	path   string
	logger log.Logger

	mu   sync.RWMutex
	data []byte
	err  error

	listeners listeners
}

// NewFile loads path and returns a field named label holding its contents.
func NewFile(label, path string, logger log.Logger) (*File, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	f := &File{label: label, path: path, logger: logger}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f.data = data
	return f, nil
}

func (f *File) Label() string { return f.label }

// Path returns the watched file.
func (f *File) Path() string { return f.path }

// Encode returns the last loaded contents, or the error of the last reload.
func (f *File) Encode() ([]byte, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: file is missing", payload.ErrEncoding)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]byte(nil), f.data...), nil
}

// Subscribe registers l for reloads.
func (f *File) Subscribe(l payload.Listener) func() {
	if f == nil {
		return func() {}
	}
	return f.listeners.add(l)
}

// Reload reads the file again and notifies subscribers.
func (f *File) Reload() {
	data, err := os.ReadFile(f.path)
	f.mu.Lock()
	if err != nil {
		f.err = fmt.Errorf("reload %s: %w", f.path, err)
	} else {
		f.data, f.err = data, nil
	}
	f.mu.Unlock()

	if err != nil {
		f.logger.Warn("file content reload failed", log.Path(f.path), log.Err(err))
	} else {
		f.logger.Debug("file content reloaded", log.Path(f.path), log.Int("bytes", len(data)))
	}
	f.listeners.notify()
}

// Watch starts watching the file until ctx is cancelled. The parent
// directory is watched so that editors replacing the file are seen too.
func (f *File) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go f.watchLoop(ctx, watcher)
	return nil
}

func (f *File) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	// Editors often emit several writes per save; reload once they settle.
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	name := filepath.Clean(f.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(ReloadDebounce, f.Reload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			f.logger.Warn("file watcher error", log.Path(f.path), log.Err(err))
		}
	}
}

var _ Field = (*File)(nil)
