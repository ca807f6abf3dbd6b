package pattern

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/fsnotify.v1"
	"gopkg.in/yaml.v3"
)

// Registry serves the live, compiled pattern Catalog and optionally
// hot-reloads it from an override directory: operators can drop a YAML file
// there to retune a single entry's regex or confidence without a redeploy,
// the same way the rest of the pack watches config directories.
type Registry struct {
	mu       sync.RWMutex
	catalog  *Catalog
	base     []*Entry
	overlays map[string][]*Entry // path -> entries it contributed
	dir      string
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onChange func(event string)
}

// NewRegistry returns a Registry seeded with the built-in default catalog.
func NewRegistry() (*Registry, error) {
	cat, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	r := &Registry{
		catalog:  cat,
		base:     cat.entries,
		overlays: make(map[string][]*Entry),
	}
	return r, nil
}

// NewRegistryWithOverrideDir returns a Registry seeded with the default
// catalog, then overlaid with every YAML file in dir.
func NewRegistryWithOverrideDir(dir string) (*Registry, error) {
	r, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	if err := r.LoadDirectory(dir); err != nil {
		return nil, err
	}
	return r, nil
}

// Catalog returns the current compiled catalog. Safe for concurrent use
// with Reload/LoadFile/Watch.
func (r *Registry) Catalog() *Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog
}

// LoadDirectory loads every *.yaml/*.yml file in dir as a catalog overlay,
// in filename order, each applied on top of the previous.
func (r *Registry) LoadDirectory(dir string) error {
	r.dir = dir

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var loadErrors []string
	for _, name := range names {
		if err := r.LoadFile(filepath.Join(dir, name)); err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("%s: %v", name, err))
		}
	}
	if len(loadErrors) > 0 {
		return fmt.Errorf("errors loading pattern overlays: %s", strings.Join(loadErrors, "; "))
	}
	return nil
}

// LoadFile parses a single overlay file and merges it into the live
// catalog. Entries in the file replace base (or earlier-overlay) entries
// of the same ID; all others are kept.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	r.mu.Lock()
	r.overlays[path] = f.Entries
	err = r.rebuildLocked()
	r.mu.Unlock()
	if err != nil {
		delete(r.overlays, path)
		return fmt.Errorf("registering overlay %s: %w", path, err)
	}
	return nil
}

// rebuildLocked recompiles the catalog from base entries plus every
// overlay, in a stable path order, and must be called with mu held.
func (r *Registry) rebuildLocked() error {
	merged := append([]*Entry{}, r.base...)

	var paths []string
	for p := range r.overlays {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		merged = append(merged, r.overlays[p]...)
	}

	cat, err := NewCatalog(merged)
	if err != nil {
		return err
	}
	r.catalog = cat
	return nil
}

// Reload re-reads every overlay file from disk, applied on top of the
// built-in default catalog.
func (r *Registry) Reload() error {
	if r.dir == "" {
		return fmt.Errorf("no override directory configured for reload")
	}
	r.mu.Lock()
	r.overlays = make(map[string][]*Entry)
	r.mu.Unlock()
	return r.LoadDirectory(r.dir)
}

// SetOnChange installs a callback invoked after each successful reload.
func (r *Registry) SetOnChange(fn func(event string)) {
	r.onChange = fn
}

// Watch starts watching the override directory for changes, reloading the
// affected overlay (or the whole directory, for removals) on each event.
func (r *Registry) Watch() error {
	if r.dir == "" {
		return fmt.Errorf("no override directory configured for watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	r.watcher = watcher
	r.stopChan = make(chan struct{})

	go r.watchLoop()

	if err := watcher.Add(r.dir); err != nil {
		r.watcher.Close()
		return fmt.Errorf("watching directory %s: %w", r.dir, err)
	}
	return nil
}

func (r *Registry) watchLoop() {
	for {
		select {
		case <-r.stopChan:
			return

		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".yaml") && !strings.HasSuffix(event.Name, ".yml") {
				continue
			}
			switch {
			case event.Op&fsnotify.Create == fsnotify.Create, event.Op&fsnotify.Write == fsnotify.Write:
				if err := r.LoadFile(event.Name); err == nil && r.onChange != nil {
					r.onChange("modify")
				}
			case event.Op&fsnotify.Remove == fsnotify.Remove, event.Op&fsnotify.Rename == fsnotify.Rename:
				if err := r.Reload(); err == nil && r.onChange != nil {
					r.onChange("remove")
				}
			}

		case _, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// StopWatch stops the directory watcher, if one is running.
func (r *Registry) StopWatch() {
	if r.stopChan != nil {
		close(r.stopChan)
	}
	if r.watcher != nil {
		r.watcher.Close()
	}
}
