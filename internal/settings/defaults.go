package settings

import (
	"sync"

	"github.com/dshills/prefpane/internal/settings/schema"
	"github.com/dshills/prefpane/internal/settings/store"
)

// Defaults is an owned registry of process-wide defaults: the store path,
// the schema items, and renderer options a Manager starts from when its
// constructor does not override them.
//
// Construction of a Manager takes a snapshot; later edits to the registry
// do not retroactively affect already-constructed managers. Tests build a
// fresh registry per case rather than sharing one.
type Defaults struct {
	mu      sync.RWMutex
	path    string
	items   map[string]*schema.Item
	options map[string]string
}

// NewDefaults creates a registry with the built-in defaults: config.ini in
// the process working directory, an empty schema, and no renderer options.
func NewDefaults() *Defaults {
	return &Defaults{
		path:    store.DefaultPath(),
		items:   make(map[string]*schema.Item),
		options: make(map[string]string),
	}
}

// SetPath replaces the default store path.
func (d *Defaults) SetPath(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.path = path
}

// Path returns the default store path.
func (d *Defaults) Path() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.path
}

// SetSchema replaces the default schema wholesale. The incoming map is
// validated first; on failure the previous schema is retained.
func (d *Defaults) SetSchema(items map[string]*schema.Item) error {
	if err := schema.ValidateItems(items); err != nil {
		return err
	}

	next := make(map[string]*schema.Item, len(items))
	for key, it := range items {
		next[key] = it
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = next
	return nil
}

// AddItem validates and inserts a single default schema entry, overwriting
// any existing value at key.
func (d *Defaults) AddItem(key string, it *schema.Item) error {
	if err := it.Validate(); err != nil {
		return &schema.ItemError{Key: key, Err: err}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.items[key] = it
	return nil
}

// SchemaItems returns a copy of the default schema entries.
func (d *Defaults) SchemaItems() map[string]*schema.Item {
	d.mu.RLock()
	defer d.mu.RUnlock()

	items := make(map[string]*schema.Item, len(d.items))
	for key, it := range d.items {
		items[key] = it
	}
	return items
}

// SetOption sets a default renderer option.
func (d *Defaults) SetOption(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.options[name] = value
}

// Options returns a copy of the default renderer options.
func (d *Defaults) Options() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	opts := make(map[string]string, len(d.options))
	for name, value := range d.options {
		opts[name] = value
	}
	return opts
}
