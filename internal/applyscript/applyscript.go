// Package applyscript runs the external hyprpaper-we.sh script that does the
// actual wallpaper rendering.
package applyscript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Subcommands understood by the script.
const (
	CmdClone        = "clone"
	CmdPerMonitor   = "per-monitor"
	CmdStretch      = "stretch"
	CmdStop         = "stop"
	CmdListMonitors = "list-monitors"
)

// monitorsHeader is printed by list-monitors before the names.
const monitorsHeader = "Available monitors:"

// ErrScriptNotFound is returned when the script does not exist.
var ErrScriptNotFound = errors.New("apply script not found")

// ExitError is returned when the script exits non-zero.
type ExitError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("apply script %s exited with status %d", strings.Join(e.Args, " "), e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// Script is a checked caller for the apply script.
type Script struct {
	Path   string
	Logger hclog.Logger
}

func New(path string, logger hclog.Logger) *Script {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Script{Path: path, Logger: logger}
}

// Run executes the script with args and returns its stdout.
func (s *Script) Run(ctx context.Context, args ...string) (string, error) {
	logger := s.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if _, err := os.Stat(s.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrScriptNotFound, s.Path)
		}
		return "", fmt.Errorf("failed to stat apply script: %w", err)
	}

	logger.Debug("running apply script", "path", s.Path, "args", args)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.Path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), &ExitError{
				Args:     slices.Clone(args),
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}
		return stdout.String(), fmt.Errorf("failed to run apply script: %w", err)
	}

	if stderr.Len() > 0 {
		logger.Debug("apply script stderr", "output", strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// ListMonitors runs list-monitors and parses its output.
func (s *Script) ListMonitors(ctx context.Context) ([]string, error) {
	out, err := s.Run(ctx, CmdListMonitors)
	if err != nil {
		return nil, err
	}
	return ParseMonitors(out), nil
}

// ParseMonitors returns the monitor names printed by list-monitors, without
// the header line and blank lines.
func ParseMonitors(stdout string) []string {
	monitors := []string{}
	for line := range strings.Lines(stdout) {
		line = strings.TrimSpace(line)
		if line == "" || line == monitorsHeader {
			continue
		}
		monitors = append(monitors, line)
	}
	return monitors
}

// PerMonitorArgs turns a selection map into "monitor:id" arguments sorted by
// monitor name.
func PerMonitorArgs(selections map[string]string) []string {
	args := make([]string, 0, len(selections))
	for _, monitor := range slices.Sorted(maps.Keys(selections)) {
		args = append(args, monitor+":"+selections[monitor])
	}
	return args
}
