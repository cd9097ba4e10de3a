package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/6gh/hyprpaper-we/internal/applyscript"
	"github.com/6gh/hyprpaper-we/internal/autostart"
	"github.com/6gh/hyprpaper-we/internal/catalog"
	"github.com/6gh/hyprpaper-we/internal/config"
	"github.com/6gh/hyprpaper-we/internal/hyprctl"
	"github.com/6gh/hyprpaper-we/internal/logging"
	"github.com/6gh/hyprpaper-we/internal/paths"
	"github.com/6gh/hyprpaper-we/internal/selector"
	"github.com/6gh/hyprpaper-we/internal/state"
	"github.com/6gh/hyprpaper-we/internal/thumbnail"
)

// App is everything a command needs: the loaded config and the components
// built from it.
type App struct {
	Config     *config.Config
	ConfigFile string
	// Paths is Config.Paths with ~ and relative paths resolved
	Paths config.PathsStruct

	Logger     hclog.Logger
	Script     *applyscript.Script
	Hyprctl    *hyprctl.Client
	Autostart  autostart.Entry
	Store      *state.Store
	Selector   *selector.Controller
	Thumbnails *thumbnail.Cache
}

// newApp ensures the config and cache directories, reads (or creates) the
// config file and wires the components. configFile may be empty.
func newApp(configFile string, verbose bool) (*App, error) {
	logger := logging.New(paths.AppName, "info", verbose)

	if configFile == "" {
		configDir, err := paths.EnsureConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to ensure config directory: %w", err)
		}
		configFile = filepath.Join(configDir, config.FileName)
	}
	configFile, err := paths.Resolve(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	configDir, err := paths.EnsureDir(filepath.Dir(configFile))
	if err != nil {
		return nil, fmt.Errorf("failed to ensure config directory: %w", err)
	}
	logger.Debug("config directory ensured", "path", configDir)

	cacheDir, err := paths.EnsureCacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to ensure cache directory: %w", err)
	}
	logger.Debug("cache directory ensured", "path", cacheDir)

	cfg := config.NewDefault(configDir)
	if err := config.ReadOrCreate(configFile, cfg, logger); err != nil {
		return nil, err
	}
	if !verbose {
		logger.SetLevel(logLevel(cfg.Behaviour.LogLevel))
	}

	a := &App{
		Config:     cfg,
		ConfigFile: configFile,
		Logger:     logger,
	}
	a.wire(cacheDir)
	return a, nil
}

func logLevel(level string) hclog.Level {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		return hclog.Info
	}
	return lvl
}

// wire builds the components from the current config.
func (a *App) wire(cacheDir string) {
	resolved := a.Config.Resolved()
	a.Paths = resolved.Paths

	a.Script = applyscript.New(a.Paths.ApplyScript, a.Logger.Named("script"))
	a.Hyprctl = hyprctl.New(a.Paths.HyprctlBin)
	a.Autostart = autostart.Entry{Path: a.Paths.AutostartEntry, Exec: a.Paths.AutostartScript}
	a.Store = state.NewStore(a.Paths.StateFile, a.Logger.Named("state"))
	a.Selector = selector.New(selector.Options{
		Store:              a.Store,
		Script:             a.Script,
		Autostart:          a.Autostart,
		ScriptPath:         a.Paths.ApplyScript,
		PruneStaleMonitors: a.Config.Behaviour.PruneStaleMonitors,
		Logger:             a.Logger.Named("selector"),
	})
	a.Thumbnails = thumbnail.NewCache(cacheDir, thumbnail.DefaultSize, a.Logger.Named("thumbnail"))
}

// initSelector loads the state and the monitor list.
func (a *App) initSelector(ctx context.Context) error {
	if err := a.Selector.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialise selector: %w", err)
	}
	return nil
}

// loadCatalog scans the wallpaper directory and sorts it per config.
func (a *App) loadCatalog() []catalog.Asset {
	assets := catalog.Load(a.Paths.WallpaperDir, a.Logger.Named("catalog"))
	catalog.Sort(assets, a.Config.SavedUIState.SortBy)
	a.Logger.Debug("catalog loaded", "path", a.Paths.WallpaperDir, "count", len(assets))
	return assets
}

func (a *App) saveConfig() {
	if err := a.Config.Save(a.ConfigFile); err != nil {
		a.Logger.Error("failed to save config", "path", a.ConfigFile, "error", err)
		return
	}
	a.Logger.Debug("config saved", "path", a.ConfigFile)
}
