// Package config holds the selector's TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/pelletier/go-toml/v2"

	"github.com/6gh/hyprpaper-we/internal/paths"
)

const FileName = "config.toml"

type PathsStruct struct {
	WallpaperDir    string `toml:"wallpaper_dir"    comment:"The workshop content directory of Wallpaper Engine; where the wallpapers are stored"`
	ApplyScript     string `toml:"apply_script"     comment:"The script that applies wallpapers (clone, per-monitor, stretch, stop, list-monitors)"`
	AutostartScript string `toml:"autostart_script" comment:"The launcher the autostart desktop entry points at"`
	AutostartEntry  string `toml:"autostart_entry"  comment:"The desktop entry whose presence enables autostart"`
	StateFile       string `toml:"state_file"       comment:"The JSON file holding the mode, last wallpaper and per-monitor selections"`
	HyprctlBin      string `toml:"hyprctl_bin"      comment:"The hyprctl binary, in case it isn't in PATH"`
}

type BehaviourStruct struct {
	PruneStaleMonitors bool     `toml:"prune_stale_monitors" comment:"Drop per-monitor selections for monitors that are no longer connected"`
	WatchDirectory     bool     `toml:"watch_directory"      comment:"Rescan the wallpaper directory when wallpapers are added or removed"`
	LogLevel           string   `toml:"log_level"            comment:"trace, debug, info, warn or error"`
	RendererProcesses  []string `toml:"renderer_processes"   comment:"Process names reported by 'hyprpaper-we status' as running renderers"`
}

type SavedUIStateStruct struct {
	SortBy          string `toml:"sort_by"          comment:"The criteria to sort wallpapers by. 'date_desc', 'date_asc', 'name_desc', 'name_asc'"`
	SelectedMonitor string `toml:"selected_monitor" comment:"The monitor last picked in per-monitor mode"`
}

type Config struct {
	Paths        PathsStruct        `toml:"Paths"`
	Behaviour    BehaviourStruct    `toml:"Behaviour"`
	SavedUIState SavedUIStateStruct `toml:"SavedUIState"`
}

// NewDefault returns the configuration used when no file exists yet.
// configDir may be empty, in which case the XDG default is used.
func NewDefault(configDir string) *Config {
	if configDir == "" {
		configDir = paths.ConfigDir()
	}
	exeDir := paths.ExecutableDir()

	return &Config{
		Paths: PathsStruct{
			WallpaperDir:    filepath.Join(os.Getenv("HOME"), ".steam", "steam", "steamapps", "workshop", "content", "431960"),
			ApplyScript:     filepath.Join(exeDir, "hyprpaper-we.sh"),
			AutostartScript: filepath.Join(exeDir, "autostart.sh"),
			AutostartEntry:  filepath.Join(paths.AutostartDir(), "hyprpaper-we.desktop"),
			StateFile:       filepath.Join(configDir, "state.json"),
			HyprctlBin:      "hyprctl",
		},
		Behaviour: BehaviourStruct{
			PruneStaleMonitors: true,
			WatchDirectory:     false,
			LogLevel:           "info",
			RendererProcesses:  []string{"web-viewer", "linux-wallpaperengine", "mpvpaper"},
		},
		SavedUIState: SavedUIStateStruct{
			SortBy:          "name_asc",
			SelectedMonitor: "",
		},
	}
}

// ReadOrCreate loads configFile into cfg. If the file does not exist the
// values already in cfg are written out as the new default file.
func ReadOrCreate(configFile string, cfg *Config, logger hclog.Logger) error {
	content, err := os.ReadFile(configFile)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("config file does not exist, creating default", "path", configFile)
		if err := cfg.Save(configFile); err != nil {
			return err
		}
		logger.Info("default config file created", "path", configFile)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config file %s: %w", configFile, err)
	}
	cfg.Validate()
	logger.Debug("config file loaded", "path", configFile)
	return nil
}

// Validate makes sure required fields are set, falling back to defaults.
func (c *Config) Validate() {
	defaultConfig := NewDefault(filepath.Dir(c.Paths.StateFile))

	if c.Paths.WallpaperDir == "" {
		c.Paths.WallpaperDir = defaultConfig.Paths.WallpaperDir
	}
	if c.Paths.ApplyScript == "" {
		c.Paths.ApplyScript = defaultConfig.Paths.ApplyScript
	}
	if c.Paths.AutostartScript == "" {
		c.Paths.AutostartScript = defaultConfig.Paths.AutostartScript
	}
	if c.Paths.AutostartEntry == "" {
		c.Paths.AutostartEntry = defaultConfig.Paths.AutostartEntry
	}
	if c.Paths.StateFile == "" {
		c.Paths.StateFile = NewDefault("").Paths.StateFile
	}
	if c.Paths.HyprctlBin == "" {
		c.Paths.HyprctlBin = defaultConfig.Paths.HyprctlBin
	}
	if c.Behaviour.LogLevel == "" {
		c.Behaviour.LogLevel = defaultConfig.Behaviour.LogLevel
	}
	switch c.SavedUIState.SortBy {
	case "date_desc", "date_asc", "name_desc", "name_asc":
	default:
		c.SavedUIState.SortBy = defaultConfig.SavedUIState.SortBy
	}
}

// Save validates and writes the configuration to configFile.
func (c *Config) Save(configFile string) error {
	c.Validate()

	content, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to TOML: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Resolved returns a copy with every path expanded through paths.Resolve.
// Entries that fail to resolve are left untouched.
func (c *Config) Resolved() Config {
	out := *c
	resolve := func(p *string) {
		if *p == "" {
			return
		}
		if r, err := paths.Resolve(*p); err == nil {
			*p = r
		}
	}
	resolve(&out.Paths.WallpaperDir)
	resolve(&out.Paths.ApplyScript)
	resolve(&out.Paths.AutostartScript)
	resolve(&out.Paths.AutostartEntry)
	resolve(&out.Paths.StateFile)
	out.Behaviour.RendererProcesses = append([]string(nil), c.Behaviour.RendererProcesses...)
	return out
}
