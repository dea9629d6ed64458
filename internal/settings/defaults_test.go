package settings

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/dshills/prefpane/internal/settings/schema"
	"github.com/dshills/prefpane/internal/settings/store"
)

func TestDefaults_BuiltinPath(t *testing.T) {
	reg := NewDefaults()
	if filepath.Base(reg.Path()) != store.DefaultFileName {
		t.Errorf("Path() = %q, want base %q", reg.Path(), store.DefaultFileName)
	}
}

func TestDefaults_SetPath(t *testing.T) {
	reg := NewDefaults()
	reg.SetPath("/tmp/app/config.ini")
	if reg.Path() != "/tmp/app/config.ini" {
		t.Errorf("Path() = %q", reg.Path())
	}
}

func TestDefaults_SetSchema(t *testing.T) {
	reg := NewDefaults()

	items := map[string]*schema.Item{
		"Username": schema.MustItem(schema.ControlEdit, schema.Name("Username")),
	}
	if err := reg.SetSchema(items); err != nil {
		t.Fatalf("SetSchema failed: %v", err)
	}
	if len(reg.SchemaItems()) != 1 {
		t.Errorf("SchemaItems() has %d entries, want 1", len(reg.SchemaItems()))
	}

	// Invalid replacement retains the previous schema.
	bad := map[string]*schema.Item{"X": {Type: schema.ControlType(50)}}
	if err := reg.SetSchema(bad); !errors.Is(err, schema.ErrInvalidSchemaItem) {
		t.Errorf("SetSchema error = %v, want ErrInvalidSchemaItem", err)
	}
	if _, ok := reg.SchemaItems()["Username"]; !ok {
		t.Error("previous default schema lost after failed SetSchema")
	}

	if err := reg.SetSchema(nil); !errors.Is(err, schema.ErrInvalidSchema) {
		t.Errorf("SetSchema(nil) = %v, want ErrInvalidSchema", err)
	}
}

func TestDefaults_AddItem(t *testing.T) {
	reg := NewDefaults()

	if err := reg.AddItem("Theme", schema.MustItem(schema.ControlDropdown,
		schema.Name("Theme"),
		schema.Dropdown("dark", "light"),
	)); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	err := reg.AddItem("Bad", &schema.Item{Type: schema.ControlType(9)})
	if !errors.Is(err, schema.ErrInvalidSchemaItem) {
		t.Errorf("AddItem error = %v, want ErrInvalidSchemaItem", err)
	}
	if _, ok := reg.SchemaItems()["Bad"]; ok {
		t.Error("invalid item inserted into defaults")
	}
}

func TestDefaults_SchemaItemsCopied(t *testing.T) {
	reg := NewDefaults()
	if err := reg.AddItem("A", schema.MustItem(schema.ControlEdit)); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	items := reg.SchemaItems()
	delete(items, "A")
	if _, ok := reg.SchemaItems()["A"]; !ok {
		t.Error("SchemaItems shares storage with the registry")
	}
}

func TestDefaults_Options(t *testing.T) {
	reg := NewDefaults()
	reg.SetOption("title", "Preferences")

	opts := reg.Options()
	if opts["title"] != "Preferences" {
		t.Errorf("Options()[title] = %q", opts["title"])
	}

	opts["title"] = "mutated"
	if reg.Options()["title"] != "Preferences" {
		t.Error("Options shares storage with the registry")
	}
}
