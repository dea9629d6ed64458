// Package settings provides the schema-driven settings engine for prefpane.
//
// A host application declares its user-configurable settings as a schema
// of items (control type, persisted section and name, default, callbacks)
// and resolves or persists their values through a Manager backed by a
// sectioned INI file. The form renderer consumes the same schema to build
// an interactive dialog and funnels edits back through Get/Set.
//
// # Architecture
//
//	┌────────────────────────────┐
//	│   form renderer (external) │  ← enumerates schema, calls Get/Set
//	├────────────────────────────┤
//	│   Manager                  │  ← pipelines, layered defaults, logging
//	├─────────────┬──────────────┤
//	│   Schema    │   Store      │  ← validated items │ INI persistence
//	├─────────────┴──────────────┤
//	│   value.Value              │  ← literal-or-computed fields
//	└────────────────────────────┘
//
// # Sub-packages
//
//   - value: literal-or-computed field resolution
//   - schema: setting items and the validated key-to-item mapping
//   - store: sectioned key-value persistence (INI)
//   - loader: declarative schema loading (TOML, optional Lua computations)
//   - notify: change notification and observer pattern
//   - watcher: store file watching for external-edit reloads
//
// # Basic Usage
//
// Declare a schema and construct a manager:
//
//	reg := settings.NewDefaults()
//	reg.SetPath("/home/user/.config/app/config.ini")
//
//	mgr, err := settings.New(reg, settings.WithItems(map[string]*schema.Item{
//	    "Username": schema.MustItem(schema.ControlEdit,
//	        schema.Name("Username"),
//	        schema.Section("General"),
//	        schema.Default("guest"),
//	    ),
//	}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	name, _ := mgr.Get("Username")
//	_ = mgr.Set("Username", "alice")
//
// # Read and Write Pipelines
//
// Get runs: schema lookup → store read (item default as fallback) → Get
// transform → OnGet observer → empty-collapse policy. Set runs: schema
// lookup → Save transform → store write → OnSave observer → change
// notification. Failures are logged through the optional one-string
// logger callback before being returned; a nil logger changes nothing.
package settings
