// Package state persists the selector's display mode, last applied wallpaper
// and per-monitor assignments as a small JSON document.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// Mode is how wallpapers are laid out across monitors.
type Mode string

const (
	ModeClone      Mode = "clone"
	ModePerMonitor Mode = "per-monitor"
	ModeStretch    Mode = "stretch"
)

// Modes lists every mode in the order the UI offers them.
var Modes = []Mode{ModeClone, ModePerMonitor, ModeStretch}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeClone, ModePerMonitor, ModeStretch:
		return true
	}
	return false
}

// State mirrors state.json.
type State struct {
	LastWallpaperID   *string           `json:"last_wallpaper_id"`
	Mode              Mode              `json:"mode"`
	MonitorSelections map[string]string `json:"monitor_selections"`
}

// Default is the state used on first run.
func Default() State {
	return State{
		LastWallpaperID:   nil,
		Mode:              ModeClone,
		MonitorSelections: map[string]string{},
	}
}

// LastWallpaper returns the last applied id, or "" when there is none.
func (s State) LastWallpaper() string {
	if s.LastWallpaperID == nil {
		return ""
	}
	return *s.LastWallpaperID
}

// SetLastWallpaper records id; an empty id clears the field.
func (s *State) SetLastWallpaper(id string) {
	if id == "" {
		s.LastWallpaperID = nil
		return
	}
	s.LastWallpaperID = &id
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	if s.LastWallpaperID != nil {
		id := *s.LastWallpaperID
		out.LastWallpaperID = &id
	}
	out.MonitorSelections = maps.Clone(s.MonitorSelections)
	if out.MonitorSelections == nil {
		out.MonitorSelections = map[string]string{}
	}
	return out
}

// Prune drops selections whose monitor is not in live. It returns the names
// that were removed. An empty live set prunes nothing.
func (s *State) Prune(live []string) []string {
	if len(live) == 0 {
		return nil
	}
	known := make(map[string]bool, len(live))
	for _, name := range live {
		known[name] = true
	}

	var removed []string
	for name := range s.MonitorSelections {
		if !known[name] {
			removed = append(removed, name)
			delete(s.MonitorSelections, name)
		}
	}
	return removed
}

// Store reads and writes a State at a fixed path.
type Store struct {
	Path   string
	logger hclog.Logger
}

func NewStore(path string, logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{Path: path, logger: logger}
}

// Load returns the persisted state. A missing file is created with defaults;
// a corrupt file is logged and replaced by defaults in memory only.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("state file does not exist, creating default", "path", s.Path)
		st := Default()
		return st, s.Save(st)
	}
	if err != nil {
		return Default(), fmt.Errorf("failed to read state file: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		s.logger.Warn("state file is not valid JSON, using defaults", "path", s.Path, "error", err)
		return Default(), nil
	}
	return normalise(st, s.logger), nil
}

// Save overwrites the state file with st, pretty printed.
func (s *Store) Save(st State) error {
	st = normalise(st, s.logger)

	data, err := json.MarshalIndent(st, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	s.logger.Debug("state saved", "path", s.Path)
	return nil
}

func normalise(st State, logger hclog.Logger) State {
	if !st.Mode.Valid() {
		if st.Mode != "" {
			logger.Warn("unknown mode in state file, falling back to clone", "mode", st.Mode)
		}
		st.Mode = ModeClone
	}
	if st.MonitorSelections == nil {
		st.MonitorSelections = map[string]string{}
	}
	return st
}
