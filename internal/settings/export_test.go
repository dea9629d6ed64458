package settings

import (
	"errors"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/prefpane/internal/settings/schema"
)

func exportItems() map[string]*schema.Item {
	return map[string]*schema.Item{
		"Username": schema.MustItem(schema.ControlEdit,
			schema.Name("Username"),
			schema.Section("General"),
			schema.Default("guest"),
		),
		"Theme": schema.MustItem(schema.ControlDropdown,
			schema.Name("Theme"),
			schema.Section("UI"),
			schema.Default("dark"),
			schema.Dropdown("dark", "light"),
		),
	}
}

func TestManager_ExportJSON(t *testing.T) {
	m := newTestManager(t, exportItems())
	if err := m.Set("Username", "alice"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := m.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	if got := gjson.GetBytes(data, "settings.Username").String(); got != "alice" {
		t.Errorf("exported Username = %q, want alice", got)
	}
	// Unset keys export their resolved default.
	if got := gjson.GetBytes(data, "settings.Theme").String(); got != "dark" {
		t.Errorf("exported Theme = %q, want dark", got)
	}
}

func TestManager_ImportJSON(t *testing.T) {
	src := newTestManager(t, exportItems())
	if err := src.Set("Username", "alice"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := src.Set("Theme", "light"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	data, err := src.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	dst := newTestManager(t, exportItems())
	if err := dst.ImportJSON(data); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}

	if got, _ := dst.Get("Username"); got != "alice" {
		t.Errorf("imported Username = %q, want alice", got)
	}
	if got, _ := dst.Get("Theme"); got != "light" {
		t.Errorf("imported Theme = %q, want light", got)
	}
}

func TestManager_ImportJSON_Invalid(t *testing.T) {
	m := newTestManager(t, exportItems())

	if err := m.ImportJSON([]byte("not json")); !errors.Is(err, ErrInvalidSnapshot) {
		t.Errorf("ImportJSON(garbage) = %v, want ErrInvalidSnapshot", err)
	}
	if err := m.ImportJSON([]byte(`{"other":1}`)); !errors.Is(err, ErrInvalidSnapshot) {
		t.Errorf("ImportJSON(no settings) = %v, want ErrInvalidSnapshot", err)
	}
}

func TestManager_ImportJSON_UnknownKeysReported(t *testing.T) {
	m := newTestManager(t, exportItems())

	err := m.ImportJSON([]byte(`{"settings":{"Username":"bob","Nope":"x"}}`))
	if !errors.Is(err, ErrUnknownKey) {
		t.Errorf("ImportJSON error = %v, want ErrUnknownKey in join", err)
	}

	// Known keys were still applied; per-key failures are not atomic.
	if got, _ := m.Get("Username"); got != "bob" {
		t.Errorf("Username = %q, want bob", got)
	}
}

func TestManager_ExportJSON_EscapedKeys(t *testing.T) {
	items := map[string]*schema.Item{
		"net.proxy": schema.MustItem(schema.ControlEdit,
			schema.Name("Proxy"),
			schema.Section("Network"),
			schema.Default("none"),
		),
	}
	m := newTestManager(t, items)

	data, err := m.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	// The dotted schema key must stay one JSON key, not nest.
	if got := gjson.GetBytes(data, `settings.net\.proxy`).String(); got != "none" {
		t.Errorf("exported net.proxy = %q, want none", got)
	}

	dst := newTestManager(t, items)
	if err := dst.ImportJSON(data); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	if got, _ := dst.Get("net.proxy"); got != "none" {
		t.Errorf("imported net.proxy = %q, want none", got)
	}
}
