// Package viewer shows an HTML wallpaper in a background layer-shell window.
package viewer

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/6gh/hyprpaper-we/internal/hyprctl"
)

// Namespace is the layer-shell namespace of every viewer window.
const Namespace = "hyprpaper-we"

// Lookup finds a monitor's geometry by name. (*hyprctl.Client).Find
// satisfies it.
type Lookup func(ctx context.Context, name string) (hyprctl.Monitor, bool, error)

// Placement is where the viewer window goes.
//
// With AnchorAll the window is stretched over the whole layout. Otherwise it
// is unanchored, sized to one monitor and pushed to that monitor's origin
// with the left and top margins.
type Placement struct {
	AnchorAll  bool
	Monitor    string
	Width      int
	Height     int
	MarginLeft int
	MarginTop  int
}

func fullSpan() Placement {
	return Placement{AnchorAll: true}
}

// Place decides the placement for monitorName. An empty name spans every
// monitor. A monitor that can't be looked up is logged and also spans
// everything.
func Place(ctx context.Context, lookup Lookup, monitorName string, logger hclog.Logger) Placement {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if monitorName == "" {
		return fullSpan()
	}

	m, found, err := lookup(ctx, monitorName)
	if err != nil {
		logger.Warn("could not get monitor info, using default anchoring", "monitor", monitorName, "error", err)
		return fullSpan()
	}
	if !found {
		logger.Warn("monitor not found, using default anchoring", "monitor", monitorName)
		return fullSpan()
	}

	return Placement{
		Monitor:    m.Name,
		Width:      m.Width,
		Height:     m.Height,
		MarginLeft: m.X,
		MarginTop:  m.Y,
	}
}
