package engineconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), p)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "picker.yaml")
	want := Default()
	want.TrackedBoxMaterial = "green"
	want.ShowInspector = false
	want.PropertyUpdateInterval = time.Second
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picker.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nmaterials_path: mats.yaml\n"), 0644))

	p, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", p.LogLevel)
	require.Equal(t, "mats.yaml", p.MaterialsPath)
	require.Equal(t, "cyan", p.TrackedBoxMaterial)
	require.Equal(t, 250*time.Millisecond, p.PropertyUpdateInterval)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picker.yaml")
	require.NoError(t, os.WriteFile(path, []byte("show_inspector: [\n"), 0644))

	p, err := Load(path)
	require.Error(t, err)
	require.Equal(t, Default(), p)
}
