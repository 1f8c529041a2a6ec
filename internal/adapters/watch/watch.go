// Package watch invalidates the dataset memo when a local input file changes.
package watch

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

type Watcher struct {
	w     *fsnotify.Watcher
	files map[string]struct{}
}

// New watches the parent directories of files so that editors replacing a
// file by rename are still seen.
func New(files ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	out := &Watcher{w: w, files: make(map[string]struct{}, len(files))}
	dirs := map[string]struct{}{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		out.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	return out, nil
}

// Run calls onChange for every relevant event until ctx is done or the
// watcher is closed.
func (m *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	defer m.w.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-m.w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, ok := m.files[abs]; !ok {
				continue
			}
			log.Info().Str("file", abs).Str("op", ev.Op.String()).Msg("input changed")
			onChange(abs)
		case err, ok := <-m.w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("input watcher error")
		}
	}
}
