// Package schema defines setting items and the validated key-to-item
// mapping consumed by the settings manager and the form renderer.
//
// An Item carries descriptive metadata (where the value is stored, how the
// renderer should present it) and behavioral callbacks applied around reads
// and writes. Metadata fields may be literals or zero-argument computations;
// they are resolved at read time, never at construction.
package schema

import (
	"fmt"

	"github.com/dshills/prefpane/internal/settings/value"
)

// ControlType identifies the kind of control an item is rendered as.
type ControlType uint8

const (
	// ControlEdit is a free-form text input.
	ControlEdit ControlType = iota
	// ControlNumber is a numeric input.
	ControlNumber
	// ControlCheckbox is a boolean toggle.
	ControlCheckbox
	// ControlDropdown is a fixed-choice selector.
	ControlDropdown
	// ControlFilePath is a text input with a file picker affordance.
	ControlFilePath
	// ControlFolderPath is a text input with a folder picker affordance.
	ControlFolderPath

	controlTypeCount
)

// String returns the control type name.
func (t ControlType) String() string {
	switch t {
	case ControlEdit:
		return "edit"
	case ControlNumber:
		return "number"
	case ControlCheckbox:
		return "checkbox"
	case ControlDropdown:
		return "dropdown"
	case ControlFilePath:
		return "filepath"
	case ControlFolderPath:
		return "folderpath"
	default:
		return "unknown"
	}
}

// Valid reports whether the control type belongs to the closed set.
func (t ControlType) Valid() bool {
	return t < controlTypeCount
}

// Callback transforms a value on its way through the get or set pipeline.
type Callback func(string) string

// Observer is notified of a pipeline value; its return is discarded.
type Observer func(string)

// Item is one schema entry: metadata plus behavioral callbacks.
//
// Metadata fields are value.Value wrappers so each may be a literal or a
// zero-argument computation. Callers resolve them per read; nothing is
// evaluated at construction.
type Item struct {
	// Type is the control kind; must belong to the closed set.
	Type ControlType

	// Name is the key the value is persisted under within its section.
	Name value.Value[string]

	// Section is the store section the value is persisted under.
	Section value.Value[string]

	// Default is returned when no value is persisted.
	Default value.Value[string]

	// Label is the human-readable name shown by the renderer.
	Label value.Value[string]

	// Description is shown by the renderer as help text.
	Description value.Value[string]

	// SectionLabel is the human-readable section name.
	SectionLabel value.Value[string]

	// Dropdown lists the choices for ControlDropdown items.
	Dropdown value.Value[[]string]

	// Required is consulted by the renderer; the core never enforces it.
	Required value.Value[bool]

	// Visible is consulted by the renderer; the core never enforces it.
	Visible value.Value[bool]

	// ExtraOptions carries renderer-specific control options.
	ExtraOptions value.Value[string]

	// ButtonExtraOptions carries renderer-specific picker-button options.
	ButtonExtraOptions value.Value[string]

	// FontStyle carries renderer-specific font styling.
	FontStyle value.Value[string]

	// Save transforms the value before it is persisted.
	Save Callback

	// OnSave observes the persisted value after a successful write.
	OnSave Observer

	// Get transforms the raw stored value on read.
	Get Callback

	// OnGet observes the transformed value on read.
	OnGet Observer

	// OnChange is consulted by the renderer when a control's value changes.
	OnChange Observer
}

// ItemOption configures an Item under construction.
type ItemOption func(*Item)

// NewItem constructs an item of the given control type. The type is
// validated immediately; all other fields default to type-appropriate
// empties (Visible defaults to true).
func NewItem(typ ControlType, opts ...ItemOption) (*Item, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidControlType, typ)
	}

	it := &Item{
		Type:    typ,
		Visible: value.Lit(true),
	}
	for _, opt := range opts {
		opt(it)
	}
	return it, nil
}

// MustItem constructs an item and panics on error. Useful for registering
// built-in schemas at init time.
func MustItem(typ ControlType, opts ...ItemOption) *Item {
	it, err := NewItem(typ, opts...)
	if err != nil {
		panic(err)
	}
	return it
}

// Validate checks the item's control type against the closed set.
func (it *Item) Validate() error {
	if it == nil {
		return ErrInvalidSchemaItem
	}
	if !it.Type.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidControlType, it.Type)
	}
	return nil
}

// Name sets the persisted key name.
func Name(name string) ItemOption {
	return func(it *Item) { it.Name = value.Lit(name) }
}

// NameFunc sets the persisted key name as a computation.
func NameFunc(fn func() string) ItemOption {
	return func(it *Item) { it.Name = value.Func(fn) }
}

// Section sets the persisted section.
func Section(section string) ItemOption {
	return func(it *Item) { it.Section = value.Lit(section) }
}

// SectionFunc sets the persisted section as a computation.
func SectionFunc(fn func() string) ItemOption {
	return func(it *Item) { it.Section = value.Func(fn) }
}

// Default sets the fallback value.
func Default(def string) ItemOption {
	return func(it *Item) { it.Default = value.Lit(def) }
}

// DefaultFunc sets the fallback value as a computation.
func DefaultFunc(fn func() string) ItemOption {
	return func(it *Item) { it.Default = value.Func(fn) }
}

// Label sets the human-readable name.
func Label(label string) ItemOption {
	return func(it *Item) { it.Label = value.Lit(label) }
}

// LabelFunc sets the human-readable name as a computation.
func LabelFunc(fn func() string) ItemOption {
	return func(it *Item) { it.Label = value.Func(fn) }
}

// Description sets the help text.
func Description(desc string) ItemOption {
	return func(it *Item) { it.Description = value.Lit(desc) }
}

// DescriptionFunc sets the help text as a computation.
func DescriptionFunc(fn func() string) ItemOption {
	return func(it *Item) { it.Description = value.Func(fn) }
}

// SectionLabel sets the human-readable section name.
func SectionLabel(label string) ItemOption {
	return func(it *Item) { it.SectionLabel = value.Lit(label) }
}

// SectionLabelFunc sets the human-readable section name as a computation.
func SectionLabelFunc(fn func() string) ItemOption {
	return func(it *Item) { it.SectionLabel = value.Func(fn) }
}

// Dropdown sets the dropdown choices.
func Dropdown(choices ...string) ItemOption {
	return func(it *Item) { it.Dropdown = value.Lit(choices) }
}

// DropdownFunc sets the dropdown choices as a computation.
func DropdownFunc(fn func() []string) ItemOption {
	return func(it *Item) { it.Dropdown = value.Func(fn) }
}

// Required marks the item required for the renderer.
func Required(required bool) ItemOption {
	return func(it *Item) { it.Required = value.Lit(required) }
}

// RequiredFunc sets the required flag as a computation.
func RequiredFunc(fn func() bool) ItemOption {
	return func(it *Item) { it.Required = value.Func(fn) }
}

// Visible controls whether the renderer shows the item.
func Visible(visible bool) ItemOption {
	return func(it *Item) { it.Visible = value.Lit(visible) }
}

// VisibleFunc sets the visible flag as a computation.
func VisibleFunc(fn func() bool) ItemOption {
	return func(it *Item) { it.Visible = value.Func(fn) }
}

// ExtraOptions sets renderer-specific control options.
func ExtraOptions(opts string) ItemOption {
	return func(it *Item) { it.ExtraOptions = value.Lit(opts) }
}

// ButtonExtraOptions sets renderer-specific picker-button options.
func ButtonExtraOptions(opts string) ItemOption {
	return func(it *Item) { it.ButtonExtraOptions = value.Lit(opts) }
}

// FontStyle sets renderer-specific font styling.
func FontStyle(style string) ItemOption {
	return func(it *Item) { it.FontStyle = value.Lit(style) }
}

// Save sets the transform applied before persisting.
func Save(fn Callback) ItemOption {
	return func(it *Item) { it.Save = fn }
}

// OnSave sets the observer invoked after a successful write.
func OnSave(fn Observer) ItemOption {
	return func(it *Item) { it.OnSave = fn }
}

// Get sets the transform applied to the raw stored value.
func Get(fn Callback) ItemOption {
	return func(it *Item) { it.Get = fn }
}

// OnGet sets the observer invoked with the transformed read value.
func OnGet(fn Observer) ItemOption {
	return func(it *Item) { it.OnGet = fn }
}

// OnChange sets the renderer-consulted change observer.
func OnChange(fn Observer) ItemOption {
	return func(it *Item) { it.OnChange = fn }
}
