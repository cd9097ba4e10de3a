package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-hclog"
)

func TestReadOrCreateWritesDefaults(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	t.Setenv("XDG_CONFIG_HOME", "")

	configDir := filepath.Join(tmpHome, ".config", "hyprpaper-we")
	configFile := filepath.Join(configDir, FileName)
	cfg := NewDefault(configDir)

	if err := ReadOrCreate(configFile, cfg, hclog.NewNullLogger()); err != nil {
		t.Fatalf("ReadOrCreate returned error: %v", err)
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		t.Fatalf("config file was not created: %v", err)
	}
	for _, key := range []string{"wallpaper_dir", "apply_script", "state_file", "prune_stale_monitors"} {
		if !strings.Contains(string(content), key) {
			t.Errorf("expected %q in the generated config", key)
		}
	}
	if got, want := cfg.Paths.StateFile, filepath.Join(configDir, "state.json"); got != want {
		t.Errorf("StateFile = %q, want %q", got, want)
	}
}

func TestReadOrCreateLoadsExisting(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configDir := t.TempDir()
	configFile := filepath.Join(configDir, FileName)

	written := NewDefault(configDir)
	written.Paths.WallpaperDir = "/srv/wallpapers"
	written.Behaviour.PruneStaleMonitors = false
	written.SavedUIState.SortBy = "date_desc"
	if err := written.Save(configFile); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded := NewDefault(configDir)
	if err := ReadOrCreate(configFile, loaded, hclog.NewNullLogger()); err != nil {
		t.Fatalf("ReadOrCreate returned error: %v", err)
	}

	if diff := cmp.Diff(written, loaded); diff != "" {
		t.Errorf("loaded config differs (-written +loaded):\n%s", diff)
	}
}

func TestReadOrCreateRejectsInvalidTOML(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configFile, []byte("[Paths\nwallpaper_dir = "), 0644); err != nil {
		t.Fatal(err)
	}

	err := ReadOrCreate(configFile, NewDefault(""), hclog.NewNullLogger())
	if err == nil {
		t.Fatal("expected an error for malformed TOML")
	}
}

func TestValidateFillsEmptyFields(t *testing.T) {
	cfg := &Config{}
	cfg.Paths.StateFile = "/tmp/hyprpaper-we/state.json"
	cfg.SavedUIState.SortBy = "sideways"

	cfg.Validate()

	if cfg.Paths.WallpaperDir == "" || cfg.Paths.ApplyScript == "" || cfg.Paths.HyprctlBin == "" {
		t.Errorf("required paths were not filled: %+v", cfg.Paths)
	}
	if cfg.Behaviour.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.Behaviour.LogLevel)
	}
	if cfg.SavedUIState.SortBy != "name_asc" {
		t.Errorf("unknown sort_by should fall back to name_asc, got %q", cfg.SavedUIState.SortBy)
	}
	if cfg.Paths.StateFile != "/tmp/hyprpaper-we/state.json" {
		t.Errorf("StateFile should be kept, got %q", cfg.Paths.StateFile)
	}
}

func TestResolvedExpandsTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := NewDefault(t.TempDir())
	cfg.Paths.WallpaperDir = "~/walls"

	resolved := cfg.Resolved()
	if got, want := resolved.Paths.WallpaperDir, filepath.Join(home, "walls"); got != want {
		t.Errorf("WallpaperDir = %q, want %q", got, want)
	}
	if cfg.Paths.WallpaperDir != "~/walls" {
		t.Errorf("Resolved must not modify the receiver")
	}
}
