package engineconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the path to the picker config file, relative to the process working directory.
const ConfigPath = "config/picker.yaml"

// Prefs holds picker preferences. Persisted across runs.
type Prefs struct {
	TrackedBoxMaterial     string        `yaml:"tracked_box_material"`
	SelectionBoxMaterial   string        `yaml:"selection_box_material"`
	MaterialsPath          string        `yaml:"materials_path,omitempty"`
	PropertyUpdateInterval time.Duration `yaml:"property_update_interval"`
	ShowInspector          bool          `yaml:"show_inspector"`
	LogLevel               string        `yaml:"log_level"`
}

// Default returns default preferences (cyan tracked boxes, inspector on).
func Default() Prefs {
	return Prefs{
		TrackedBoxMaterial:     "cyan",
		SelectionBoxMaterial:   "yellow",
		PropertyUpdateInterval: 250 * time.Millisecond,
		ShowInspector:          true,
		LogLevel:               "info",
	}
}

// Load reads preferences from path. A missing file yields Default() and no error; malformed YAML is
// an error. Fields absent from the file keep their default values.
func Load(path string) (Prefs, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	if p.PropertyUpdateInterval <= 0 {
		p.PropertyUpdateInterval = Default().PropertyUpdateInterval
	}
	return p, nil
}

// Save writes preferences to path, creating the config directory if needed.
func Save(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
