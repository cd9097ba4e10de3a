// Package paths resolves user supplied paths and the XDG directories the
// selector keeps its files in.
package paths

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// AppName is the directory name used under the XDG config and cache roots.
const AppName = "hyprpaper-we"

// Resolve expands a leading "~/" and makes the path absolute.
func Resolve(pathString string) (string, error) {
	// users can write ~ in the config file, so make sure we resolve it
	if pathString == "~" || strings.HasPrefix(pathString, "~/") {
		home, err := homeDir()
		if err != nil {
			return "", err
		}
		pathString = filepath.Join(home, strings.TrimPrefix(pathString, "~"))
	}

	if !filepath.IsAbs(pathString) {
		absPath, err := filepath.Abs(pathString)
		if err != nil {
			return "", err
		}
		pathString = absPath
	}

	return pathString, nil
}

// EnsureDir resolves the path and creates it (and its parents) if missing.
func EnsureDir(pathString string) (string, error) {
	pathString, err := Resolve(pathString)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(pathString, 0755); err != nil {
		return "", err
	}
	return pathString, nil
}

// ConfigDir returns $XDG_CONFIG_HOME/hyprpaper-we (or ~/.config/hyprpaper-we).
func ConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, AppName)
}

// CacheDir returns $XDG_CACHE_HOME/hyprpaper-we (or ~/.cache/hyprpaper-we).
func CacheDir() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		cacheDir = filepath.Join(os.Getenv("HOME"), ".cache")
	}
	return filepath.Join(cacheDir, AppName)
}

// AutostartDir returns the directory desktop entries are started from.
func AutostartDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "autostart")
}

// EnsureConfigDir creates the config directory if needed and returns it.
func EnsureConfigDir() (string, error) {
	return EnsureDir(ConfigDir())
}

// EnsureCacheDir creates the cache directory if needed and returns it.
func EnsureCacheDir() (string, error) {
	return EnsureDir(CacheDir())
}

// ExecutableDir is the directory of the running binary. The apply script and
// autostart launcher ship next to it by default.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func homeDir() (string, error) {
	if home := os.Getenv("HOME"); home != "" {
		return home, nil
	}
	usr, err := user.Current()
	if err != nil {
		return "", err
	}
	return usr.HomeDir, nil
}
