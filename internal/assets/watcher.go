package assets

import (
	"context"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called for out-of-band changes under the asset tree.
// kind is one of "added", "removed".
type EventCallback func(kind string, loc Locator)

// Watch observes the three category directories for external changes
// (files dropped in or deleted outside the store's own operations) until
// ctx is cancelled, invoking cb for each. The store's own temp-then-rename
// writes surface as a single "added" event for the final name.
func (s *Store) Watch(ctx context.Context, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, cat := range []string{CategoryPDFs, CategoryImages, CategoryOther} {
		if err := w.Add(filepath.Join(s.root, assetsDir, cat)); err != nil {
			return err
		}
	}

	logger.Info("assets watcher: started", slog.String("root", s.root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("assets watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			loc, ok := s.locatorFor(ev.Name)
			if !ok {
				continue
			}

			switch {
			// Rename is how our own atomic writes land, and Create is how
			// external drops appear.
			case ev.Op&(fsnotify.Create|fsnotify.Rename) != 0:
				logger.Debug("assets watcher: added", slog.String("locator", string(loc)))
				if cb != nil {
					cb("added", loc)
				}
			case ev.Op&fsnotify.Remove != 0:
				logger.Debug("assets watcher: removed", slog.String("locator", string(loc)))
				if cb != nil {
					cb("removed", loc)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("assets watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// locatorFor maps an absolute path inside the asset tree back to a locator,
// skipping temp files and anything outside the category directories.
func (s *Store) locatorFor(abs string) (Locator, bool) {
	rel, err := filepath.Rel(filepath.Join(s.root, assetsDir), abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(path.Base(rel), ".tavle-tmp-") {
		return "", false
	}
	if err := validateLocator(Locator(rel)); err != nil {
		return "", false
	}
	return Locator(rel), true
}
