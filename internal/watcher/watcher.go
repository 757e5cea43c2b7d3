// Package watcher follows the memories directory with fsnotify so that
// records edited or dropped in place with a text editor show up on the
// SSE feed just like API writes do.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/conduitapp/conduit/internal/codec"
	"github.com/conduitapp/conduit/internal/storage"
)

// EventCallback is called for every observed record change. kind is one
// of "created", "updated", "deleted"; id is the memory identifier.
type EventCallback func(kind string, id string)

// Watch processes file change events under root until ctx is cancelled.
//
// Atomic writes land via rename, so fsnotify reports both fresh records
// and overwrites as Create; a set of known identifiers seeded from the
// store tells the two apart. Files that fail to decode are logged and
// produce no event.
func Watch(ctx context.Context, store storage.Provider, root string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}

	known := make(map[string]struct{})
	if paths, listErr := store.List(); listErr == nil {
		for _, p := range paths {
			known[recordID(p)] = struct{}{}
		}
	}

	logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, ".md") {
				continue
			}
			id := recordID(name)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := store.Read(name)
				if readErr != nil {
					// Renamed or deleted again before we could read it.
					continue
				}
				if _, decErr := codec.Decode(data); decErr != nil {
					logger.Warn("watcher: undecodable file",
						slog.String("file", name), slog.String("error", decErr.Error()))
					continue
				}
				kind := "updated"
				if _, seen := known[id]; !seen {
					kind = "created"
					known[id] = struct{}{}
				}
				logger.Debug("watcher: observed", slog.String("id", id), slog.String("op", kind))
				if cb != nil {
					cb(kind, id)
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				if _, seen := known[id]; !seen {
					continue
				}
				delete(known, id)
				logger.Debug("watcher: removed", slog.String("id", id))
				if cb != nil {
					cb("deleted", id)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func recordID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".md")
}
