package settings

import (
	"sync"

	"github.com/dshills/prefpane/internal/settings/notify"
	"github.com/dshills/prefpane/internal/settings/schema"
	"github.com/dshills/prefpane/internal/settings/store"
	"github.com/dshills/prefpane/internal/settings/value"
	"github.com/dshills/prefpane/internal/settings/watcher"
)

// Logger receives one diagnostic line per failure. It is advisory only:
// a nil logger never changes control flow.
type Logger func(msg string)

// Store is the sectioned key-value persistence the manager writes through.
type Store interface {
	// Read returns the stored value or fallback if unset.
	Read(path, section, name, fallback string) string
	// Write persists the value, preserving other sections and keys.
	Write(path, section, name, value string) error
	// EnsureDir ensures the parent directory of path exists.
	EnsureDir(path string) error
}

// Manager orchestrates schema, store, layered defaults, and the get/set
// transformation pipelines. It is the sole entry point consumed by the
// form renderer.
type Manager struct {
	path     string
	schema   *schema.Schema
	store    Store
	logger   Logger
	notifier *notify.Notifier
	options  map[string]string

	mu      sync.Mutex // guards watcher
	watcher *watcher.Watcher

	// keepEmpty disables the empty-string-collapses-to-default read
	// policy.
	keepEmpty bool
}

// Option configures a Manager under construction.
type Option func(*managerConfig)

type managerConfig struct {
	path      value.Value[string]
	hasPath   bool
	items     map[string]*schema.Item
	hasItems  bool
	store     Store
	logger    Logger
	options   map[string]string
	keepEmpty bool
	async     int
}

// WithPath overrides the default store path.
func WithPath(path string) Option {
	return func(c *managerConfig) {
		c.path = value.Lit(path)
		c.hasPath = true
	}
}

// WithPathFunc supplies the store path as a computation, resolved once at
// construction time.
func WithPathFunc(fn func() string) Option {
	return func(c *managerConfig) {
		c.path = value.Func(fn)
		c.hasPath = true
	}
}

// WithItems overrides the default schema with the given items.
func WithItems(items map[string]*schema.Item) Option {
	return func(c *managerConfig) {
		c.items = items
		c.hasItems = true
	}
}

// WithStore overrides the INI-backed store.
func WithStore(s Store) Option {
	return func(c *managerConfig) { c.store = s }
}

// WithLogger sets the diagnostic sink.
func WithLogger(logger Logger) Option {
	return func(c *managerConfig) { c.logger = logger }
}

// WithOption sets one renderer option, layered over the registry defaults.
func WithOption(name, val string) Option {
	return func(c *managerConfig) {
		if c.options == nil {
			c.options = make(map[string]string)
		}
		c.options[name] = val
	}
}

// WithKeepEmpty disables the policy of collapsing an empty read result to
// the item default.
func WithKeepEmpty() Option {
	return func(c *managerConfig) { c.keepEmpty = true }
}

// WithAsyncNotify enables buffered asynchronous change delivery.
func WithAsyncNotify(bufferSize int) Option {
	return func(c *managerConfig) { c.async = bufferSize }
}

// New creates a manager by layering the given options over a snapshot of
// the defaults registry. A nil registry behaves like a fresh NewDefaults.
// Later edits to the registry do not affect the constructed manager.
func New(defaults *Defaults, opts ...Option) (*Manager, error) {
	if defaults == nil {
		defaults = NewDefaults()
	}

	var cfg managerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	path := defaults.Path()
	if cfg.hasPath {
		path = cfg.path.Resolve()
	}

	items := defaults.SchemaItems()
	if cfg.hasItems {
		items = cfg.items
	}
	sch, err := schema.FromItems(items)
	if err != nil {
		return nil, err
	}

	options := defaults.Options()
	for name, val := range cfg.options {
		options[name] = val
	}

	st := cfg.store
	if st == nil {
		st = store.New()
	}

	var notifyOpts []notify.Option
	if cfg.async > 0 {
		notifyOpts = append(notifyOpts, notify.WithAsync(cfg.async))
	}

	return &Manager{
		path:      path,
		schema:    sch,
		store:     st,
		logger:    cfg.logger,
		notifier:  notify.New(notifyOpts...),
		options:   options,
		keepEmpty: cfg.keepEmpty,
	}, nil
}

// Path returns the resolved store file path.
func (m *Manager) Path() string {
	return m.path
}

// Schema returns the manager's schema for enumeration by the renderer.
func (m *Manager) Schema() *schema.Schema {
	return m.schema
}

// Options returns the renderer options layered at construction.
func (m *Manager) Options() map[string]string {
	opts := make(map[string]string, len(m.options))
	for name, val := range m.options {
		opts[name] = val
	}
	return opts
}

// Get resolves the value for a schema key.
//
// The pipeline: schema lookup, store read with the item default as
// fallback, the item's Get transform, the OnGet observer, then the
// empty-collapse policy (an empty result is replaced by the resolved
// default unless WithKeepEmpty was set).
func (m *Manager) Get(key string) (string, error) {
	it, ok := m.schema.Get(key)
	if !ok {
		err := &KeyError{Key: key}
		m.log("get: " + err.Error())
		return "", err
	}

	section := it.Section.Resolve()
	name := it.Name.Resolve()
	def := it.Default.Resolve()

	raw := m.store.Read(m.path, section, name, def)

	out := raw
	if it.Get != nil {
		out = it.Get(raw)
	}
	if it.OnGet != nil {
		it.OnGet(out)
	}

	if out == "" && !m.keepEmpty {
		return def, nil
	}
	return out, nil
}

// Set persists a value for a schema key.
//
// The pipeline: schema lookup, the item's Save transform, the store
// write, then the OnSave observer and a change notification. OnSave is
// not invoked when the write fails.
func (m *Manager) Set(key, val string) error {
	it, ok := m.schema.Get(key)
	if !ok {
		err := &KeyError{Key: key}
		m.log("set: " + err.Error())
		return err
	}

	toPersist := val
	if it.Save != nil {
		toPersist = it.Save(val)
	}

	section := it.Section.Resolve()
	name := it.Name.Resolve()

	if err := m.store.Write(m.path, section, name, toPersist); err != nil {
		saveErr := &SaveError{Key: key, Err: err}
		m.log("set: " + saveErr.Error())
		return saveErr
	}

	if it.OnSave != nil {
		it.OnSave(toPersist)
	}
	m.notifier.NotifySet(key, toPersist)
	return nil
}

// SetSchema replaces the manager's schema wholesale. Validation failures
// are logged and returned; the previous schema is retained.
func (m *Manager) SetSchema(items map[string]*schema.Item) error {
	if err := m.schema.Replace(items); err != nil {
		m.log("set schema: " + err.Error())
		return err
	}
	return nil
}

// AddToSchema validates and inserts a single schema entry. Validation
// failures are logged and returned.
func (m *Manager) AddToSchema(key string, it *schema.Item) error {
	if err := m.schema.Add(key, it); err != nil {
		m.log("add to schema: " + err.Error())
		return err
	}
	return nil
}

// EnsureStoreDir ensures the store file's parent directory exists.
func (m *Manager) EnsureStoreDir() error {
	if err := m.store.EnsureDir(m.path); err != nil {
		m.log("ensure store dir: " + err.Error())
		return err
	}
	return nil
}

// Subscribe registers an observer for all settings changes.
func (m *Manager) Subscribe(observer notify.Observer) *notify.Subscription {
	return m.notifier.Subscribe(observer)
}

// SubscribeKey registers an observer for changes to one schema key.
func (m *Manager) SubscribeKey(key string, observer notify.Observer) *notify.Subscription {
	return m.notifier.SubscribeKey(key, observer)
}

// Watch starts watching the store file for external edits. Changes are
// surfaced to subscribers as reload events.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watcher != nil {
		return nil
	}

	w := watcher.New()
	w.OnChange(func(event watcher.Event) {
		m.notifier.NotifyReload(event.Path)
	})
	if err := w.Watch(m.path); err != nil {
		m.log("watch: " + err.Error())
		return err
	}
	w.Start()
	m.watcher = w
	return nil
}

// Close stops the watcher and the notifier. A manager needs Close only
// when Watch or async notification was enabled.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.watcher != nil {
		m.watcher.Stop()
		m.watcher = nil
	}
	m.mu.Unlock()

	m.notifier.Close()
}

// log emits one diagnostic line if a logger is configured.
func (m *Manager) log(msg string) {
	if m.logger != nil {
		m.logger(msg)
	}
}
