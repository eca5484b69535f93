package source

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/simwire/errors"
	"github.com/teranos/simwire/logger"
)

// FileSource reads a serial capture file: a file some other process tees
// device output into. Read returns the whole file, which makes truncation
// (capture restarted) visible to the DeltaTracker as a discontinuity.
//
// An fsnotify watcher invalidates the cached content on writes, so an idle
// capture file costs a stat per tick instead of a full re-read.
type FileSource struct {
	path    string
	watcher *fsnotify.Watcher
	log     *zap.SugaredLogger

	mu     sync.Mutex
	dirty  bool
	cached string
}

// NewFile builds a capture-file source. The parent directory is watched
// rather than the file itself so rotation (rename + recreate) is picked up.
func NewFile(path string) (*FileSource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, errors.Wrapf(err, "failed to watch directory %s", dir)
	}

	s := &FileSource{
		path:    path,
		watcher: watcher,
		log:     logger.ComponentLogger("source.file"),
		dirty:   true,
	}
	go s.watch()

	s.log.Infow("capture file source ready", logger.FieldOperation, "watch", "path", path)
	return s, nil
}

func (s *FileSource) watch() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			s.mu.Lock()
			s.dirty = true
			s.mu.Unlock()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warnw("file watcher error", logger.FieldError, err)
		}
	}
}

// Read returns the full current file content. The cache is refreshed when
// the watcher flagged a write or when the file size no longer matches —
// the size check covers events the watcher can miss around setup.
func (s *FileSource) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		info, err := os.Stat(s.path)
		if err != nil {
			return "", errors.Wrapf(err, "failed to stat capture file %s", s.path)
		}
		if info.Size() == int64(len(s.cached)) {
			return s.cached, nil
		}
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read capture file %s", s.path)
	}
	s.cached = string(raw)
	s.dirty = false
	return s.cached, nil
}

// Close stops the watcher.
func (s *FileSource) Close() error {
	return s.watcher.Close()
}
