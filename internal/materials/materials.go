package materials

import (
	"fmt"
	"image/color"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FallbackName is the material used when a lookup misses.
const FallbackName = "white"

// Def is the YAML definition of one material (e.g. an entry in assets/materials.yaml).
type Def struct {
	Name      string  `yaml:"name"`
	Color     string  `yaml:"color"`
	LineWidth float32 `yaml:"line_width,omitempty"`
}

// File is the top-level YAML document: a list of material definitions.
type File struct {
	Materials []Def `yaml:"materials"`
}

// Material is a resolved wireframe material: an opaque color and a line width.
type Material struct {
	Name      string
	Color     color.RGBA
	LineWidth float32
}

// Library maps material names to materials. Later definitions replace earlier ones with the same name.
type Library struct {
	byName map[string]Material
}

// New returns an empty library.
func New() *Library {
	return &Library{byName: make(map[string]Material)}
}

// Default returns a library holding the built-in box colors.
func Default() *Library {
	l := New()
	for _, d := range []Def{
		{Name: "white", Color: "#fff"},
		{Name: "cyan", Color: "#00ffff"},
		{Name: "red", Color: "#ff0000"},
		{Name: "green", Color: "#00ff00"},
		{Name: "blue", Color: "#0000ff"},
		{Name: "yellow", Color: "#ffff00"},
	} {
		_ = l.Add(d)
	}
	return l
}

// Add resolves d and stores it under d.Name. LineWidth defaults to 1.
func (l *Library) Add(d Def) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return fmt.Errorf("material without name")
	}
	c, ok := ParseHexColor(d.Color)
	if !ok {
		return fmt.Errorf("material %q: invalid color %q", name, d.Color)
	}
	w := d.LineWidth
	if w <= 0 {
		w = 1
	}
	l.byName[name] = Material{Name: name, Color: c, LineWidth: w}
	return nil
}

// LoadBytes parses a YAML material file and adds every definition. Stops at the first invalid entry.
func (l *Library) LoadBytes(data []byte) error {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse materials: %w", err)
	}
	for _, d := range f.Materials {
		if err := l.Add(d); err != nil {
			return err
		}
	}
	return nil
}

// Load reads and parses the YAML material file at path.
func (l *Library) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return l.LoadBytes(data)
}

// Lookup returns the material with the given name.
func (l *Library) Lookup(name string) (Material, bool) {
	m, ok := l.byName[name]
	return m, ok
}

// Resolve returns the named material, or the fallback material and false when the name is unknown.
func (l *Library) Resolve(name string) (Material, bool) {
	if m, ok := l.byName[name]; ok {
		return m, true
	}
	if m, ok := l.byName[FallbackName]; ok {
		return m, false
	}
	return Material{Name: FallbackName, Color: color.RGBA{255, 255, 255, 255}, LineWidth: 1}, false
}

// Names returns all material names, sorted.
func (l *Library) Names() []string {
	out := make([]string, 0, len(l.byName))
	for n := range l.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ParseHexColor parses #RGB or #RRGGBB into an opaque color. Returns black and false on parse error.
func ParseHexColor(s string) (color.RGBA, bool) {
	black := color.RGBA{0, 0, 0, 255}
	s = strings.TrimSpace(s)
	if len(s) < 4 || s[0] != '#' {
		return black, false
	}
	hex := s[1:]
	for i := 0; i < len(hex); i++ {
		if _, ok := hexByte(hex[i]); !ok {
			return black, false
		}
	}
	var r, g, b uint8
	switch len(hex) {
	case 3:
		// #RGB -> RR GG BB
		r = mustHex(hex[0]) * 17
		g = mustHex(hex[1]) * 17
		b = mustHex(hex[2]) * 17
	case 6:
		r = mustHex(hex[0])<<4 + mustHex(hex[1])
		g = mustHex(hex[2])<<4 + mustHex(hex[3])
		b = mustHex(hex[4])<<4 + mustHex(hex[5])
	default:
		return black, false
	}
	return color.RGBA{r, g, b, 255}, true
}

func hexByte(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func mustHex(c byte) uint8 {
	v, _ := hexByte(c)
	return v
}
