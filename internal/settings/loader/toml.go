package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/prefpane/internal/settings/schema"
)

// TOMLLoader loads schema declarations from TOML documents.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoader creates a loader for the given path.
func NewTOMLLoader(path string) *TOMLLoader {
	return &TOMLLoader{fs: DefaultFS(), path: path}
}

// NewTOMLLoaderWithFS creates a loader with a custom file system.
func NewTOMLLoaderWithFS(fs FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{fs: fs, path: path}
}

// Result is a loaded schema declaration.
type Result struct {
	// Path is the store path declared by the document, if any.
	Path string

	// Options are renderer options declared by the document.
	Options map[string]string

	// Items are the declared schema entries.
	Items map[string]*schema.Item
}

// document mirrors the TOML layout.
type document struct {
	Path    string              `toml:"path"`
	Options map[string]string   `toml:"options"`
	Items   map[string]itemSpec `toml:"items"`
}

// itemSpec is one [items.<Key>] table. Scalar fields declare literals;
// *-script fields declare Lua computations evaluated per resolve. A
// script field takes precedence over its literal counterpart.
type itemSpec struct {
	Type string `toml:"type"`

	Name          string `toml:"name"`
	NameScript    string `toml:"name-script"`
	Section       string `toml:"section"`
	SectionScript string `toml:"section-script"`
	Default       string `toml:"default"`
	DefaultScript string `toml:"default-script"`

	Label              string   `toml:"label"`
	LabelScript        string   `toml:"label-script"`
	Description        string   `toml:"description"`
	SectionLabel       string   `toml:"section-label"`
	Dropdown           []string `toml:"dropdown"`
	DropdownScript     string   `toml:"dropdown-script"`
	Required           bool     `toml:"required"`
	Visible            *bool    `toml:"visible"`
	VisibleScript      string   `toml:"visible-script"`
	ExtraOptions       string   `toml:"extra-options"`
	ButtonExtraOptions string   `toml:"button-extra-options"`
	FontStyle          string   `toml:"font-style"`
}

// Load reads and parses the configured document.
func (l *TOMLLoader) Load() (*Result, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Absent document, not an error
		}
		return nil, fmt.Errorf("reading schema file %s: %w", l.path, err)
	}
	return l.parse(l.path, data)
}

// LoadFromReader reads a schema declaration from an io.Reader.
func (l *TOMLLoader) LoadFromReader(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	return l.parse("<reader>", data)
}

// parse decodes the document and builds schema items.
func (l *TOMLLoader) parse(source string, data []byte) (*Result, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}

	items := make(map[string]*schema.Item, len(doc.Items))
	for key, spec := range doc.Items {
		it, err := buildItem(spec)
		if err != nil {
			return nil, fmt.Errorf("item %q in %s: %w", key, source, err)
		}
		items[key] = it
	}

	return &Result{
		Path:    doc.Path,
		Options: doc.Options,
		Items:   items,
	}, nil
}

// buildItem converts one declaration table into a schema item.
func buildItem(spec itemSpec) (*schema.Item, error) {
	typ, err := parseControlType(spec.Type)
	if err != nil {
		return nil, err
	}

	var opts []schema.ItemOption

	if err := addString(&opts, spec.Name, spec.NameScript, schema.Name, schema.NameFunc); err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	if err := addString(&opts, spec.Section, spec.SectionScript, schema.Section, schema.SectionFunc); err != nil {
		return nil, fmt.Errorf("section: %w", err)
	}
	if err := addString(&opts, spec.Default, spec.DefaultScript, schema.Default, schema.DefaultFunc); err != nil {
		return nil, fmt.Errorf("default: %w", err)
	}
	if err := addString(&opts, spec.Label, spec.LabelScript, schema.Label, schema.LabelFunc); err != nil {
		return nil, fmt.Errorf("label: %w", err)
	}

	if spec.Description != "" {
		opts = append(opts, schema.Description(spec.Description))
	}
	if spec.SectionLabel != "" {
		opts = append(opts, schema.SectionLabel(spec.SectionLabel))
	}

	switch {
	case spec.DropdownScript != "":
		fn, err := listScript(spec.DropdownScript)
		if err != nil {
			return nil, fmt.Errorf("dropdown: %w", err)
		}
		opts = append(opts, schema.DropdownFunc(fn))
	case len(spec.Dropdown) > 0:
		opts = append(opts, schema.Dropdown(spec.Dropdown...))
	}

	if spec.Required {
		opts = append(opts, schema.Required(true))
	}

	switch {
	case spec.VisibleScript != "":
		fn, err := boolScript(spec.VisibleScript)
		if err != nil {
			return nil, fmt.Errorf("visible: %w", err)
		}
		opts = append(opts, schema.VisibleFunc(fn))
	case spec.Visible != nil:
		opts = append(opts, schema.Visible(*spec.Visible))
	}

	if spec.ExtraOptions != "" {
		opts = append(opts, schema.ExtraOptions(spec.ExtraOptions))
	}
	if spec.ButtonExtraOptions != "" {
		opts = append(opts, schema.ButtonExtraOptions(spec.ButtonExtraOptions))
	}
	if spec.FontStyle != "" {
		opts = append(opts, schema.FontStyle(spec.FontStyle))
	}

	return schema.NewItem(typ, opts...)
}

// addString appends a literal or script option for one string field.
func addString(opts *[]schema.ItemOption, literal, script string,
	lit func(string) schema.ItemOption, comp func(func() string) schema.ItemOption) error {
	if script != "" {
		fn, err := stringScript(script)
		if err != nil {
			return err
		}
		*opts = append(*opts, comp(fn))
		return nil
	}
	if literal != "" {
		*opts = append(*opts, lit(literal))
	}
	return nil
}

// parseControlType maps a declaration type name to the closed enum.
func parseControlType(name string) (schema.ControlType, error) {
	switch name {
	case "edit":
		return schema.ControlEdit, nil
	case "number":
		return schema.ControlNumber, nil
	case "checkbox":
		return schema.ControlCheckbox, nil
	case "dropdown":
		return schema.ControlDropdown, nil
	case "filepath":
		return schema.ControlFilePath, nil
	case "folderpath":
		return schema.ControlFolderPath, nil
	default:
		return 0, fmt.Errorf("%w: %q", schema.ErrInvalidControlType, name)
	}
}
