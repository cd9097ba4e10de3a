// Package selector holds the wallpaper selection logic shared by the GTK
// window and the command line: the current mode, the per-monitor map and the
// calls into the apply script.
//
// State is only persisted after the script confirmed a change. A failed call
// leaves both the in-memory state and the state file as they were.
package selector

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/6gh/hyprpaper-we/internal/applyscript"
	"github.com/6gh/hyprpaper-we/internal/autostart"
	"github.com/6gh/hyprpaper-we/internal/state"
)

var (
	ErrNoMonitors       = errors.New("no monitors detected")
	ErrUnknownMonitor   = errors.New("unknown monitor")
	ErrUnknownMode      = errors.New("unknown mode")
	ErrEmptyWallpaper   = errors.New("no wallpaper id given")
	ErrNothingToRestore = errors.New("nothing to restore")
)

// Commander runs the apply script. *applyscript.Script satisfies it.
type Commander interface {
	Run(ctx context.Context, args ...string) (string, error)
}

type Options struct {
	Store     *state.Store
	Script    Commander
	Autostart autostart.Entry

	// ScriptPath is only used to render commands for the user.
	ScriptPath string

	PruneStaleMonitors bool
	Logger             hclog.Logger
}

type Controller struct {
	opts   Options
	logger hclog.Logger

	// runMu serialises calls into the apply script
	runMu sync.Mutex

	mu       sync.Mutex
	state    state.State
	monitors []string
}

func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Controller{
		opts:   opts,
		logger: logger,
		state:  state.Default(),
	}
}

// Init loads the persisted state and asks the script for the monitor list.
// A failing list-monitors is logged and leaves the list empty.
func (c *Controller) Init(ctx context.Context) error {
	st, err := c.opts.Store.Load()
	if err != nil {
		return err
	}

	monitors, err := c.listMonitors(ctx)
	if err != nil {
		c.logger.Error("error getting monitors", "error", err)
		monitors = []string{}
	}

	if c.opts.PruneStaleMonitors {
		if removed := st.Prune(monitors); len(removed) > 0 {
			slices.Sort(removed)
			c.logger.Info("dropped selections for disconnected monitors", "monitors", removed)
			if err := c.opts.Store.Save(st); err != nil {
				return err
			}
		}
	}

	c.mu.Lock()
	c.state = st
	c.monitors = monitors
	c.mu.Unlock()

	c.logger.Debug("selector initialised", "mode", st.Mode, "monitors", monitors)
	return nil
}

// RefreshMonitors re-queries the monitor list. Selections are left alone.
func (c *Controller) RefreshMonitors(ctx context.Context) ([]string, error) {
	monitors, err := c.listMonitors(ctx)
	if err != nil {
		return c.Monitors(), err
	}

	c.mu.Lock()
	c.monitors = monitors
	c.mu.Unlock()
	return slices.Clone(monitors), nil
}

func (c *Controller) listMonitors(ctx context.Context) ([]string, error) {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	out, err := c.opts.Script.Run(ctx, applyscript.CmdListMonitors)
	if err != nil {
		return nil, err
	}
	return applyscript.ParseMonitors(out), nil
}

// State returns a copy of the current state.
func (c *Controller) State() state.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

func (c *Controller) Mode() state.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Mode
}

// Monitors returns the names reported by list-monitors.
func (c *Controller) Monitors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.monitors)
}

// SetMode switches the mode and persists it.
func (c *Controller) SetMode(mode state.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state.Clone()
	next.Mode = mode
	if err := c.opts.Store.Save(next); err != nil {
		return err
	}
	c.state = next
	c.logger.Info("mode changed", "mode", mode)
	return nil
}

// SelectWallpaper applies id according to the current mode. monitor is only
// used in per-monitor mode; empty means the first detected monitor.
func (c *Controller) SelectWallpaper(ctx context.Context, id, monitor string) error {
	if id == "" {
		return ErrEmptyWallpaper
	}

	c.runMu.Lock()
	defer c.runMu.Unlock()

	c.mu.Lock()
	snapshot := c.state.Clone()
	monitors := slices.Clone(c.monitors)
	c.mu.Unlock()

	args, err := buildArgs(snapshot, monitors, id, monitor)
	if err != nil {
		return err
	}

	c.logger.Info("applying wallpaper", "id", id, "mode", snapshot.Mode, "args", args)
	if _, err := c.opts.Script.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to apply wallpaper %s: %w", id, err)
	}

	// only the applied selection is written back; the mode may have been
	// changed while the script ran
	target := resolveMonitor(monitors, monitor)
	return c.commit(func(st *state.State) {
		if snapshot.Mode == state.ModePerMonitor {
			st.MonitorSelections[target] = id
			return
		}
		st.SetLastWallpaper(id)
	})
}

// Command returns the argv SelectWallpaper would run for id.
func (c *Controller) Command(id, monitor string) ([]string, error) {
	c.mu.Lock()
	st := c.state.Clone()
	monitors := slices.Clone(c.monitors)
	c.mu.Unlock()

	args, err := buildArgs(st, monitors, id, monitor)
	if err != nil {
		return nil, err
	}
	if c.opts.ScriptPath == "" {
		return args, nil
	}
	return append([]string{c.opts.ScriptPath}, args...), nil
}

// buildArgs computes the script arguments for applying id. In per-monitor
// mode the arguments carry every recorded selection, not just the new one.
func buildArgs(st state.State, monitors []string, id, monitor string) ([]string, error) {
	switch st.Mode {
	case state.ModeClone:
		return []string{applyscript.CmdClone, id}, nil
	case state.ModeStretch:
		return []string{applyscript.CmdStretch, id}, nil
	case state.ModePerMonitor:
		if len(monitors) == 0 {
			return nil, ErrNoMonitors
		}
		target := resolveMonitor(monitors, monitor)
		if !slices.Contains(monitors, target) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMonitor, target)
		}
		selections := st.Clone().MonitorSelections
		selections[target] = id
		return append([]string{applyscript.CmdPerMonitor}, applyscript.PerMonitorArgs(selections)...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, st.Mode)
}

func resolveMonitor(monitors []string, monitor string) string {
	if monitor == "" && len(monitors) > 0 {
		return monitors[0]
	}
	return monitor
}

// Stop runs the script's stop command and clears the last wallpaper.
// The script's output is returned for display.
func (c *Controller) Stop(ctx context.Context) (string, error) {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	out, err := c.opts.Script.Run(ctx, applyscript.CmdStop)
	if err != nil {
		return out, fmt.Errorf("failed to send stop command: %w", err)
	}

	return strings.TrimSpace(out), c.commit(func(st *state.State) {
		st.SetLastWallpaper("")
	})
}

// Restore re-applies the persisted state.
func (c *Controller) Restore(ctx context.Context) error {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	st := c.State()

	var args []string
	switch st.Mode {
	case state.ModeClone, state.ModeStretch:
		if st.LastWallpaper() == "" {
			return fmt.Errorf("%w: no wallpaper set in %s mode", ErrNothingToRestore, st.Mode)
		}
		cmd := applyscript.CmdClone
		if st.Mode == state.ModeStretch {
			cmd = applyscript.CmdStretch
		}
		args = []string{cmd, st.LastWallpaper()}
	case state.ModePerMonitor:
		if len(st.MonitorSelections) == 0 {
			return fmt.Errorf("%w: no per-monitor selections", ErrNothingToRestore)
		}
		args = append([]string{applyscript.CmdPerMonitor}, applyscript.PerMonitorArgs(st.MonitorSelections)...)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, st.Mode)
	}

	c.logger.Info("restoring wallpaper", "mode", st.Mode, "args", args)
	if _, err := c.opts.Script.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to restore wallpaper: %w", err)
	}
	return nil
}

func (c *Controller) AutostartEnabled() bool {
	return c.opts.Autostart.Enabled()
}

// ToggleAutostart flips the autostart entry and returns the new state.
func (c *Controller) ToggleAutostart() (bool, error) {
	enabled, err := c.opts.Autostart.Toggle()
	if err != nil {
		return c.opts.Autostart.Enabled(), err
	}
	if enabled {
		c.logger.Info("autostart enabled", "entry", c.opts.Autostart.Path)
	} else {
		c.logger.Info("autostart disabled", "entry", c.opts.Autostart.Path)
	}
	return enabled, nil
}

// Status is the one-line summary shown under the grid. selectedMonitor is
// the monitor currently picked in the UI, if any.
func (c *Controller) Status(selectedMonitor string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	last := c.state.LastWallpaper()
	switch c.state.Mode {
	case state.ModePerMonitor:
		if len(c.state.MonitorSelections) > 0 {
			return "Per-monitor: " + strings.Join(applyscript.PerMonitorArgs(c.state.MonitorSelections), ", ")
		}
		target := "none"
		if len(c.monitors) > 0 {
			target = resolveMonitor(c.monitors, selectedMonitor)
		}
		return "Per-monitor mode: Select wallpaper for " + target
	case state.ModeStretch:
		if last != "" {
			return fmt.Sprintf("Stretch mode: Wallpaper %s stretched across monitors", last)
		}
		return "Stretch mode: Select a wallpaper to stretch across all monitors"
	default:
		if last != "" {
			return fmt.Sprintf("Clone mode: Wallpaper %s on all monitors", last)
		}
		return "Clone mode: Select a wallpaper to apply to all monitors"
	}
}

// MonitorsInfo is the "Detected monitors" line.
func (c *Controller) MonitorsInfo() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.monitors) == 0 {
		return "No monitors detected"
	}
	return "Detected monitors: " + strings.Join(c.monitors, ", ")
}

// commit applies change to the current state and saves the result.
func (c *Controller) commit(change func(*state.State)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state.Clone()
	change(&next)
	c.state = next
	if err := c.opts.Store.Save(next); err != nil {
		return fmt.Errorf("state was not saved: %w", err)
	}
	return nil
}
