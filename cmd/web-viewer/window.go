package main

import (
	ls "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4-webkitgtk/pkg/webkit/v6"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/6gh/hyprpaper-we/internal/viewer"
)

var edges = []ls.Edge{
	ls.LayerShellEdgeTop,
	ls.LayerShellEdgeBottom,
	ls.LayerShellEdgeLeft,
	ls.LayerShellEdgeRight,
}

// wallpaperWindow is a borderless background surface holding one web view.
type wallpaperWindow struct {
	*gtk.ApplicationWindow
	view   *webkit.WebView
	uri    string
	loaded bool
}

func newWallpaperWindow(app *gtk.Application, uri string, placement viewer.Placement, logger hclog.Logger) *wallpaperWindow {
	w := &wallpaperWindow{
		ApplicationWindow: gtk.NewApplicationWindow(app),
		view:              webkit.NewWebView(),
		uri:               uri,
	}
	w.SetTitle("hyprpaper-we web viewer")
	w.SetDecorated(false)
	w.SetChild(w.view)

	if !ls.IsSupported() {
		logger.Warn("layer shell is not supported by the compositor, showing a normal window")
	} else {
		setupLayerShell(&w.Window, placement)
	}

	if !placement.AnchorAll {
		w.SetDefaultSize(placement.Width, placement.Height)
		logger.Info("positioning on monitor",
			"monitor", placement.Monitor,
			"width", placement.Width, "height", placement.Height,
			"x", placement.MarginLeft, "y", placement.MarginTop)
	}
	return w
}

func setupLayerShell(win *gtk.Window, placement viewer.Placement) {
	ls.InitForWindow(win)
	ls.SetNamespace(win, viewer.Namespace)
	ls.SetLayer(win, ls.LayerShellLayerBackground)
	ls.SetKeyboardMode(win, ls.LayerShellKeyboardModeNone)

	for _, edge := range edges {
		ls.SetAnchor(win, edge, placement.AnchorAll)
	}
	if !placement.AnchorAll {
		ls.SetMargin(win, ls.LayerShellEdgeLeft, placement.MarginLeft)
		ls.SetMargin(win, ls.LayerShellEdgeTop, placement.MarginTop)
	}
}

// present shows the window, loading the page on the first call only.
func (w *wallpaperWindow) present() {
	if !w.loaded {
		w.view.LoadURI(w.uri)
		w.loaded = true
	}
	w.Present()
}
