// Package catalog scans a Wallpaper Engine workshop directory.
//
// Every immediate subdirectory holding a project.json is one wallpaper; the
// directory name is its id. Scene wallpapers are skipped because nothing
// downstream can render them.
package catalog

import (
	"encoding/json"
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	ManifestName = "project.json"

	DefaultTitle   = "No Title"
	DefaultPreview = "preview.gif"
	DefaultType    = "unknown"

	// PlaceholderIcon is shown for assets whose preview file is missing.
	PlaceholderIcon = "image-missing"
)

// Asset is one browsable wallpaper.
type Asset struct {
	ID            string
	Title         string
	Type          string
	PreviewPath   string
	PreviewExists bool

	Description string
	Tags        []string
	File        string // entry file relative to Dir, e.g. index.html for web wallpapers
	Dir         string
	ModTime     time.Time
}

// IsScene reports whether a declared type is a scene.
func IsScene(kind string) bool {
	return strings.EqualFold(kind, "scene")
}

// manifest is the subset of project.json we read. Pointers tell a missing
// key apart from an empty one.
type manifest struct {
	Title       *string  `json:"title"`
	Type        *string  `json:"type"`
	Preview     *string  `json:"preview"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	File        string   `json:"file"`
}

// Scan lazily yields the assets under root in directory-name order.
// A missing root is logged and yields nothing. Entries with an unreadable or
// malformed manifest are logged and skipped.
func Scan(root string, logger hclog.Logger) iter.Seq[Asset] {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return func(yield func(Asset) bool) {
		entries, err := os.ReadDir(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("wallpaper directory not found", "path", root)
			} else {
				logger.Error("failed to read wallpaper directory", "path", root, "error", err)
			}
			return
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				logger.Trace("skipping non-directory entry", "name", entry.Name())
				continue
			}

			asset, ok := readAsset(root, entry, logger)
			if !ok {
				continue
			}
			if !yield(asset) {
				return
			}
		}
	}
}

// Load collects Scan into a slice.
func Load(root string, logger hclog.Logger) []Asset {
	assets := []Asset{}
	for asset := range Scan(root, logger) {
		assets = append(assets, asset)
	}
	return assets
}

func readAsset(root string, entry fs.DirEntry, logger hclog.Logger) (Asset, bool) {
	id := entry.Name()
	dir := filepath.Join(root, id)

	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if errors.Is(err, fs.ErrNotExist) {
		logger.Trace("no manifest, skipping", "id", id)
		return Asset{}, false
	}
	if err != nil {
		logger.Warn("could not read manifest", "id", id, "error", err)
		return Asset{}, false
	}

	var m *manifest
	if err := json.Unmarshal(data, &m); err != nil {
		logger.Warn("could not parse manifest", "id", id, "error", err)
		return Asset{}, false
	}
	if m == nil {
		logger.Warn("could not parse manifest", "id", id, "error", "manifest is null")
		return Asset{}, false
	}

	kind := valueOr(m.Type, DefaultType)
	if IsScene(kind) {
		logger.Debug("skipping scene wallpaper", "id", id)
		return Asset{}, false
	}

	previewPath := filepath.Join(dir, valueOr(m.Preview, DefaultPreview))
	_, statErr := os.Stat(previewPath)

	var modTime time.Time
	if info, err := entry.Info(); err != nil {
		logger.Debug("could not stat wallpaper directory", "id", id, "error", err)
	} else {
		modTime = info.ModTime()
	}

	return Asset{
		ID:            id,
		Title:         valueOr(m.Title, DefaultTitle),
		Type:          kind,
		PreviewPath:   previewPath,
		PreviewExists: statErr == nil,
		Description:   m.Description,
		Tags:          m.Tags,
		File:          m.File,
		Dir:           dir,
		ModTime:       modTime,
	}, true
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
