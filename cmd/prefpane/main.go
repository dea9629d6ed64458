// Package main is the entry point for the prefpane settings dialog.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/prefpane/internal/form"
	"github.com/dshills/prefpane/internal/settings"
	"github.com/dshills/prefpane/internal/settings/loader"
	"github.com/dshills/prefpane/internal/settings/schema"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	SchemaPath string
	StorePath  string
	ExportPath string
	ImportPath string
	Verbose    bool
}

func run() int {
	opts := parseFlags()

	mgr, err := buildManager(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer mgr.Close()

	if err := mgr.EnsureStoreDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Snapshot modes run without the dialog.
	if opts.ExportPath != "" {
		return exportSnapshot(mgr, opts.ExportPath)
	}
	if opts.ImportPath != "" {
		return importSnapshot(mgr, opts.ImportPath)
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		mgr.Close()
		os.Exit(1)
	}()

	dialog, err := form.New(mgr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to build dialog: %v\n", err)
		return 1
	}
	if err := dialog.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// buildManager assembles the manager from flags and, when given, a
// declarative TOML schema file.
func buildManager(opts options) (*settings.Manager, error) {
	var mgrOpts []settings.Option

	if opts.Verbose {
		mgrOpts = append(mgrOpts, settings.WithLogger(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		}))
	}

	if opts.SchemaPath != "" {
		result, err := loader.NewTOMLLoader(opts.SchemaPath).Load()
		if err != nil {
			return nil, err
		}
		if result == nil {
			return nil, fmt.Errorf("schema file %s not found", opts.SchemaPath)
		}
		mgrOpts = append(mgrOpts, settings.WithItems(result.Items))
		if result.Path != "" {
			mgrOpts = append(mgrOpts, settings.WithPath(result.Path))
		}
		for name, val := range result.Options {
			mgrOpts = append(mgrOpts, settings.WithOption(name, val))
		}
	} else {
		mgrOpts = append(mgrOpts, settings.WithItems(demoItems()))
	}

	// The store path flag wins over the schema file declaration.
	if opts.StorePath != "" {
		mgrOpts = append(mgrOpts, settings.WithPath(opts.StorePath))
	}

	return settings.New(nil, mgrOpts...)
}

func exportSnapshot(mgr *settings.Manager, path string) int {
	data, err := mgr.ExportJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: export failed: %v\n", err)
		return 1
	}
	var pretty json.RawMessage = data
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		out = data
	}
	if path == "-" {
		fmt.Println(string(out))
		return 0
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func importSnapshot(mgr *settings.Manager, path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := mgr.ImportJSON(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error: import failed: %v\n", err)
		return 1
	}
	return 0
}

// demoItems is the built-in schema used when no schema file is given.
func demoItems() map[string]*schema.Item {
	return map[string]*schema.Item{
		"username": schema.MustItem(schema.ControlEdit,
			schema.Name("username"),
			schema.Section("General"),
			schema.Label("User name"),
			schema.DefaultFunc(func() string {
				if u := os.Getenv("USER"); u != "" {
					return u
				}
				return "guest"
			}),
		),
		"theme": schema.MustItem(schema.ControlDropdown,
			schema.Name("theme"),
			schema.Section("General"),
			schema.Label("Color theme"),
			schema.Default("dark"),
			schema.Dropdown("light", "dark", "solarized"),
		),
		"autosave": schema.MustItem(schema.ControlCheckbox,
			schema.Name("autosave"),
			schema.Section("General"),
			schema.Label("Autosave"),
			schema.Default("1"),
		),
		"port": schema.MustItem(schema.ControlNumber,
			schema.Name("port"),
			schema.Section("Network"),
			schema.Label("Proxy port"),
			schema.Default("8080"),
		),
		"cache-dir": schema.MustItem(schema.ControlFolderPath,
			schema.Name("cache-dir"),
			schema.Section("Network"),
			schema.Label("Cache directory"),
		),
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.SchemaPath, "schema", "", "Path to TOML schema file")
	flag.StringVar(&opts.SchemaPath, "s", "", "Path to TOML schema file (shorthand)")
	flag.StringVar(&opts.StorePath, "store", "", "Path to INI settings store")
	flag.StringVar(&opts.ExportPath, "export", "", "Export settings as JSON to file (- for stdout) and exit")
	flag.StringVar(&opts.ImportPath, "import", "", "Import settings from a JSON file and exit")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Log setting pipeline warnings to stderr")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Prefpane - schema-driven settings dialog\n\n")
		fmt.Fprintf(os.Stderr, "Usage: prefpane [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  prefpane                        Open dialog with the built-in schema\n")
		fmt.Fprintf(os.Stderr, "  prefpane -s settings.toml       Open dialog for a declared schema\n")
		fmt.Fprintf(os.Stderr, "  prefpane -export -               Print current settings as JSON\n")
		fmt.Fprintf(os.Stderr, "  prefpane -import snapshot.json   Apply a JSON snapshot\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Prefpane %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}
