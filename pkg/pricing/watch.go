package pricing

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// CatalogWatcher reloads a catalog file whenever it is written or replaced
type CatalogWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onReload func(*Catalog)
	onError  func(error)
}

// WatchCatalog watches path. The parent directory is watched so editors
// that save by renaming over the file are seen too. onReload receives each
// successfully parsed catalog. onError receives load failures, after which
// the previous catalog stays in effect. Either callback may be nil.
func WatchCatalog(path string, onReload func(*Catalog), onError func(error)) (*CatalogWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &CatalogWatcher{
		path:     abs,
		watcher:  watcher,
		onReload: onReload,
		onError:  onError,
	}, nil
}

// Path is the absolute path being watched
func (w *CatalogWatcher) Path() string {
	return w.path
}

// Run processes file events until ctx is done, then closes the watcher
func (w *CatalogWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.fail(fmt.Errorf("catalog watcher: %w", err))
		}
	}
}

func (w *CatalogWatcher) reload() {
	catalog, err := LoadCatalog(w.path)
	if err != nil {
		w.fail(err)
		return
	}
	if w.onReload != nil {
		w.onReload(catalog)
	}
}

func (w *CatalogWatcher) fail(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}
