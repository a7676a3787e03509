package template

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const (
	templatePrefix = "mqtt_"
	templateExt    = ".ino"
)

// Registry loads firmware templates from a directory, one file per sensor
// category named mqtt_<CATEGORY>.ino, and can reload them when the files
// change on disk.
type Registry struct {
	dir     string
	watcher *fsnotify.Watcher

	mu         sync.RWMutex
	byCategory map[string]string

	// OnReload, when set, is called with the category name after a changed
	// template file has been reloaded.
	OnReload func(category string)
}

// OpenRegistry reads every template in dir. It fails if the directory
// cannot be read or any template file cannot be loaded.
func OpenRegistry(dir string) (*Registry, error) {
	r := &Registry{dir: dir, byCategory: make(map[string]string)}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read templates dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || categoryOf(e.Name()) == "" {
			continue
		}
		if err := r.loadFile(filepath.Join(dir, e.Name())); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// categoryOf maps a template filename to its sensor category, or "" if the
// file is not a template.
func categoryOf(name string) string {
	if !strings.HasPrefix(name, templatePrefix) || !strings.HasSuffix(name, templateExt) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(name, templatePrefix), templateExt)
}

func (r *Registry) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	r.mu.Lock()
	r.byCategory[categoryOf(filepath.Base(path))] = string(data)
	r.mu.Unlock()
	return nil
}

// Template returns the source template for a sensor category.
func (r *Registry) Template(category string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	text, ok := r.byCategory[category]
	return text, ok
}

// Categories returns the loaded category names, sorted.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byCategory))
	for name := range r.byCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Watch starts reloading templates when their files are written or
// created. Template authors can then edit a template without restarting a
// provisioning session.
func (r *Registry) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(r.dir); err != nil {
		w.Close()
		return err
	}
	r.watcher = w
	go r.watchLoop()
	return nil
}

func (r *Registry) watchLoop() {
	for {
		select {
		case ev, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			category := categoryOf(filepath.Base(ev.Name))
			if category == "" {
				continue
			}
			if err := r.loadFile(ev.Name); err != nil {
				continue
			}
			if r.OnReload != nil {
				r.OnReload(category)
			}
		case _, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops watching. Safe to call when Watch was never started.
func (r *Registry) Close() error {
	if r.watcher == nil {
		return nil
	}
	return r.watcher.Close()
}
