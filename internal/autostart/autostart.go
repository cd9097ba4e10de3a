// Package autostart manages the XDG autostart desktop entry. The entry's
// presence is the only record of whether autostart is enabled.
package autostart

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const entryTemplate = `[Desktop Entry]
Type=Application
Name=HyprPaper-WE
Exec=%s
StartupNotify=false
Terminal=false
`

type Entry struct {
	Path string // the .desktop file
	Exec string // the launcher it points at
}

// Content returns the desktop entry text that Enable writes.
func (e Entry) Content() string {
	return fmt.Sprintf(entryTemplate, e.Exec)
}

// Enabled reports whether the desktop entry exists.
func (e Entry) Enabled() bool {
	_, err := os.Stat(e.Path)
	return err == nil
}

func (e Entry) Enable() error {
	if err := os.MkdirAll(filepath.Dir(e.Path), 0755); err != nil {
		return fmt.Errorf("failed to create autostart directory: %w", err)
	}
	if err := os.WriteFile(e.Path, []byte(e.Content()), 0644); err != nil {
		return fmt.Errorf("failed to write autostart entry: %w", err)
	}
	return nil
}

// Disable removes the entry. A missing entry is not an error.
func (e Entry) Disable() error {
	if err := os.Remove(e.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove autostart entry: %w", err)
	}
	return nil
}

// Toggle flips the entry and returns the new state.
func (e Entry) Toggle() (bool, error) {
	if e.Enabled() {
		return false, e.Disable()
	}
	if err := e.Enable(); err != nil {
		return false, err
	}
	return true, nil
}
