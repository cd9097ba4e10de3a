package viewer

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
)

var ErrUsage = errors.New("expected <html_path> [monitor_name]")

// Target is the page to show and the monitor to show it on. An empty
// Monitor spans every monitor.
type Target struct {
	URI     string
	Monitor string
}

// ParseArgs validates the positional arguments of web-viewer.
func ParseArgs(args []string) (Target, error) {
	if len(args) < 1 || len(args) > 2 {
		return Target{}, fmt.Errorf("%w, got %d argument(s)", ErrUsage, len(args))
	}
	if args[0] == "" {
		return Target{}, fmt.Errorf("%w: html_path is empty", ErrUsage)
	}

	uri, err := FileURI(args[0])
	if err != nil {
		return Target{}, err
	}
	target := Target{URI: uri}
	if len(args) == 2 {
		target.Monitor = args[1]
	}
	return target, nil
}

// FileURI turns a local path into an absolute file:// URI.
func FileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return (&url.URL{Scheme: "file", Path: abs}).String(), nil
}
