// Package thumbnail keeps small PNG copies of wallpaper previews so the grid
// doesn't decode full size GIFs on every start.
package thumbnail

import (
	"errors"
	"fmt"
	_ "image/gif"  // gif decoder
	_ "image/jpeg" // jpeg decoder
	_ "image/png"  // png decoder
	"io/fs"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-hclog"
	_ "golang.org/x/image/webp" // webp decoder
)

// DefaultSize is the edge length thumbnails are fitted into.
const DefaultSize = 128

const fileName = "thumbnail.png"

type Cache struct {
	Dir    string
	Size   int
	logger hclog.Logger
}

func NewCache(dir string, size int, logger hclog.Logger) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Cache{Dir: dir, Size: size, logger: logger}
}

// Path is where the thumbnail for id lives,
// e.g. ~/.cache/hyprpaper-we/<id>/thumbnail.png.
func (c *Cache) Path(id string) string {
	return filepath.Join(c.Dir, id, fileName)
}

// Ensure returns a cached thumbnail for id, generating it from source when it
// is missing or older than source.
func (c *Cache) Ensure(id, source string) (string, error) {
	dest := c.Path(id)

	srcInfo, err := os.Stat(source)
	if err != nil {
		return "", fmt.Errorf("preview not available: %w", err)
	}

	destInfo, err := os.Stat(dest)
	switch {
	case err == nil && !destInfo.ModTime().Before(srcInfo.ModTime()):
		c.logger.Trace("using cached thumbnail", "id", id)
		return dest, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("failed to stat thumbnail: %w", err)
	}

	c.logger.Debug("creating thumbnail", "id", id, "source", source)
	if err := Generate(source, dest, c.Size); err != nil {
		return "", err
	}
	return dest, nil
}

// Generate fits source into a size x size box and writes it to dest as PNG.
func Generate(source, dest string, size int) error {
	img, err := imaging.Open(source)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", source, err)
	}

	// fit rather than fill so wide previews are not cropped
	thumb := imaging.Fit(img, size, size, imaging.Lanczos)

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create thumbnail directory: %w", err)
	}
	if err := imaging.Save(thumb, dest); err != nil {
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return nil
}

// Clear removes every cached thumbnail.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := os.RemoveAll(filepath.Join(c.Dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
