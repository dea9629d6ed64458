package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidSnapshot indicates an import document is not a valid settings
// snapshot.
var ErrInvalidSnapshot = errors.New("invalid settings snapshot")

// pathEscaper escapes schema keys for use in gjson/sjson paths.
var pathEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`)

// ExportJSON returns a JSON snapshot of every schema key and its resolved
// value, as produced by the full Get pipeline.
func (m *Manager) ExportJSON() ([]byte, error) {
	out := []byte(`{}`)

	var err error
	for _, key := range m.schema.Keys() {
		val, getErr := m.Get(key)
		if getErr != nil {
			return nil, getErr
		}
		out, err = sjson.SetBytes(out, "settings."+pathEscaper.Replace(key), val)
		if err != nil {
			return nil, fmt.Errorf("exporting %q: %w", key, err)
		}
	}
	return out, nil
}

// ImportJSON applies a snapshot produced by ExportJSON, setting each key
// through the full Set pipeline. Keys absent from the schema and per-key
// write failures do not stop the import; all failures are joined into the
// returned error. There is no cross-key atomicity.
func (m *Manager) ImportJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: not valid JSON", ErrInvalidSnapshot)
	}

	snapshot := gjson.GetBytes(data, "settings")
	if !snapshot.Exists() || !snapshot.IsObject() {
		return fmt.Errorf("%w: missing settings object", ErrInvalidSnapshot)
	}

	var errs []error
	snapshot.ForEach(func(key, val gjson.Result) bool {
		if err := m.Set(key.String(), val.String()); err != nil {
			errs = append(errs, err)
		}
		return true
	})
	return errors.Join(errs...)
}
