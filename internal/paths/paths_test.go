package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/wallpapers", filepath.Join(home, "wallpapers")},
		{"/abs/path", "/abs/path"},
	}

	for _, tt := range tests {
		got, err := Resolve(tt.in)
		if err != nil {
			t.Fatalf("Resolve(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveRelative(t *testing.T) {
	got, err := Resolve("relative/dir")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
}

func TestEnsureDirCreatesParents(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "c")

	got, err := EnsureDir(target)
	if err != nil {
		t.Fatalf("EnsureDir returned error: %v", err)
	}
	info, err := os.Stat(got)
	if err != nil {
		t.Fatalf("directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", got)
	}

	// calling it again on an existing directory is fine
	if _, err := EnsureDir(target); err != nil {
		t.Errorf("second EnsureDir returned error: %v", err)
	}
}

func TestXDGDirectories(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")

	if got, want := ConfigDir(), filepath.Join(home, ".config", AppName); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
	if got, want := CacheDir(), filepath.Join(home, ".cache", AppName); got != want {
		t.Errorf("CacheDir() = %q, want %q", got, want)
	}
	if got, want := AutostartDir(), filepath.Join(home, ".config", "autostart"); got != want {
		t.Errorf("AutostartDir() = %q, want %q", got, want)
	}

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	if got, want := ConfigDir(), filepath.Join(xdg, AppName); got != want {
		t.Errorf("ConfigDir() with XDG_CONFIG_HOME = %q, want %q", got, want)
	}
}
