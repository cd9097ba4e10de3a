// Package hyprctl queries Hyprland for monitor geometry.
package hyprctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// Monitor is the subset of `hyprctl monitors -j` we use.
type Monitor struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Scale       float64 `json:"scale"`
	Focused     bool    `json:"focused"`
}

type Client struct {
	Bin string
}

func New(bin string) *Client {
	if bin == "" {
		bin = "hyprctl"
	}
	return &Client{Bin: bin}
}

// Monitors runs `hyprctl monitors -j`.
func (c *Client) Monitors(ctx context.Context) ([]Monitor, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Bin, "monitors", "-j")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("hyprctl monitors failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("hyprctl monitors failed: %w", err)
	}
	return ParseMonitors(stdout.Bytes())
}

// Find returns the monitor called name, if connected.
func (c *Client) Find(ctx context.Context, name string) (Monitor, bool, error) {
	monitors, err := c.Monitors(ctx)
	if err != nil {
		return Monitor{}, false, err
	}
	for _, m := range monitors {
		if m.Name == name {
			return m, true, nil
		}
	}
	return Monitor{}, false, nil
}

func ParseMonitors(data []byte) ([]Monitor, error) {
	var monitors []Monitor
	if err := json.Unmarshal(data, &monitors); err != nil {
		return nil, fmt.Errorf("failed to parse hyprctl output: %w", err)
	}
	return monitors, nil
}
