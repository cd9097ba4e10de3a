package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gdkpixbuf/v2"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"golang.org/x/sync/semaphore"

	"github.com/6gh/hyprpaper-we/internal/catalog"
	"github.com/6gh/hyprpaper-we/internal/procs"
	"github.com/6gh/hyprpaper-we/internal/state"
	"github.com/6gh/hyprpaper-we/internal/watch"
)

const (
	appID = "dev._6gh.hyprpaper-we"

	cardImageSize   = 120
	cardsPerLine    = 5
	noMonitorsLabel = "none"
)

var modeLabels = []string{"Clone", "Per-Monitor", "Stretch"}

// card is one wallpaper in the grid.
type card struct {
	asset catalog.Asset
	child *gtk.FlowBoxChild
}

type selectorWindow struct {
	app    *App
	ctx    context.Context
	cancel context.CancelFunc

	window          *gtk.ApplicationWindow
	modeDropdown    *gtk.DropDown
	monitorLabel    *gtk.Label
	monitorDropdown *gtk.DropDown
	autostartButton *gtk.Button
	infoLabel       *gtk.Label
	statusLabel     *gtk.Label
	scrolled        *gtk.ScrolledWindow
	grid            *gtk.FlowBox

	monitors    []string
	assets      []catalog.Asset
	cards       []card
	searchQuery string
	// the grid is swapped out for a label while this is set
	showingError bool

	// limits concurrent preview decoding
	thumbs *semaphore.Weighted
}

// runGUI initialises the selector and runs the GTK main loop until the
// window is closed.
func runGUI(ctx context.Context, a *App) int {
	if err := a.initSelector(ctx); err != nil {
		a.Logger.Error("failed to start selector", "error", err)
		return 1
	}

	gtkApp := gtk.NewApplication(appID, gio.ApplicationFlagsNone)
	var w *selectorWindow
	gtkApp.ConnectActivate(func() {
		if w != nil {
			w.window.Present()
			return
		}
		w = newSelectorWindow(ctx, gtkApp, a)
	})

	// cobra already consumed our arguments
	code := gtkApp.Run([]string{os.Args[0]})
	if w != nil {
		w.cancel()
	}
	a.saveConfig()
	return code
}

func newSelectorWindow(parent context.Context, gtkApp *gtk.Application, a *App) *selectorWindow {
	ctx, cancel := context.WithCancel(parent)
	w := &selectorWindow{
		app:      a,
		ctx:      ctx,
		cancel:   cancel,
		monitors: a.Selector.Monitors(),
		thumbs:   semaphore.NewWeighted(int64(runtime.NumCPU())),
	}

	w.window = gtk.NewApplicationWindow(gtkApp)
	w.window.SetTitle("HyprPaper-WE")
	setupStyling()

	//ANCHOR - Top control bar
	// mode and monitor pickers, search, sort and the global actions

	topControlBar := gtk.NewBox(gtk.OrientationHorizontal, 0)
	topControlBar.SetHAlign(gtk.AlignCenter)
	topControlBar.SetVAlign(gtk.AlignStart)
	topControlBar.SetMarginTop(10)
	topControlBar.SetMarginBottom(10)
	topControlBar.SetMarginStart(10)
	topControlBar.SetMarginEnd(10)
	topControlBar.SetSpacing(4)

	modeLabel := gtk.NewLabel("Mode:")
	topControlBar.Append(modeLabel)

	w.modeDropdown = gtk.NewDropDown(gtk.NewStringList(modeLabels), nil)
	w.modeDropdown.SetVAlign(gtk.AlignCenter)
	w.modeDropdown.SetSelected(uint(modeIndex(a.Selector.Mode())))
	w.modeDropdown.Connect("notify::selected", func() {
		index := int(w.modeDropdown.Selected())
		if index < 0 || index >= len(state.Modes) {
			return
		}
		if err := a.Selector.SetMode(state.Modes[index]); err != nil {
			a.Logger.Error("failed to change mode", "error", err)
			w.modeDropdown.SetSelected(uint(modeIndex(a.Selector.Mode())))
			w.setStatus("Error: " + err.Error())
			return
		}
		w.updateMonitorSelectorVisibility()
		w.refreshStatus()
	})
	topControlBar.Append(w.modeDropdown)

	w.monitorLabel = gtk.NewLabel("Monitor:")
	w.monitorLabel.SetMarginStart(8)
	topControlBar.Append(w.monitorLabel)

	w.monitorDropdown = gtk.NewDropDown(gtk.NewStringList(w.monitorNames()), nil)
	w.monitorDropdown.SetVAlign(gtk.AlignCenter)
	w.selectSavedMonitor()
	w.monitorDropdown.Connect("notify::selected", func() {
		a.Config.SavedUIState.SelectedMonitor = w.selectedMonitor()
		w.refreshStatus()
	})
	topControlBar.Append(w.monitorDropdown)

	searchEntry := gtk.NewSearchEntry()
	searchEntry.SetPlaceholderText("Search wallpapers...")
	searchEntry.SetVAlign(gtk.AlignCenter)
	searchEntry.SetMarginStart(8)
	searchEntry.Connect("search-changed", func(entry *gtk.SearchEntry) {
		w.searchQuery = entry.Text()
		a.Logger.Trace("search query changed", "query", w.searchQuery)
		w.applyFilter()
	})
	topControlBar.Append(searchEntry)

	sortLabels := make([]string, len(catalog.SortOptions))
	sortIndex := 0
	for i, by := range catalog.SortOptions {
		sortLabels[i] = catalog.SortLabel(by)
		if by == a.Config.SavedUIState.SortBy {
			sortIndex = i
		}
	}
	sortByDropdown := gtk.NewDropDown(gtk.NewStringList(sortLabels), nil)
	sortByDropdown.SetVAlign(gtk.AlignCenter)
	sortByDropdown.SetSelected(uint(sortIndex))
	sortByDropdown.Connect("notify::selected", func() {
		index := int(sortByDropdown.Selected())
		if index < 0 || index >= len(catalog.SortOptions) {
			return
		}
		a.Config.SavedUIState.SortBy = catalog.SortOptions[index]
		catalog.Sort(w.assets, a.Config.SavedUIState.SortBy)
		w.rebuildGrid()
	})
	topControlBar.Append(sortByDropdown)

	refreshButton := gtk.NewButtonWithLabel("Refresh")
	refreshButton.SetVAlign(gtk.AlignCenter)
	refreshButton.Connect("clicked", func() {
		a.Logger.Info("refreshing wallpapers and monitors")
		w.reloadMonitors()
		w.reloadCatalog()
	})
	topControlBar.Append(refreshButton)

	stopButton := gtk.NewButtonWithLabel("Stop Wallpaper")
	stopButton.SetVAlign(gtk.AlignCenter)
	stopButton.Connect("clicked", func() {
		w.stopWallpaper()
	})
	topControlBar.Append(stopButton)

	w.autostartButton = gtk.NewButtonWithLabel("")
	w.autostartButton.SetVAlign(gtk.AlignCenter)
	w.updateAutostartButtonLabel()
	w.autostartButton.Connect("clicked", func() {
		if _, err := a.Selector.ToggleAutostart(); err != nil {
			a.Logger.Error("failed to toggle autostart", "error", err)
			w.setStatus("Error: " + err.Error())
		}
		w.updateAutostartButtonLabel()
	})
	topControlBar.Append(w.autostartButton)

	optionsButton := gtk.NewButtonWithLabel("Options")
	optionsButton.SetVAlign(gtk.AlignCenter)
	optionsButton.Connect("clicked", func() {
		a.Logger.Debug("opening options dialog")
		w.showOptionsDialog()
	})
	topControlBar.Append(optionsButton)

	//ANCHOR - Info area
	// detected monitors and what is currently applied

	w.infoLabel = gtk.NewLabel("")
	w.infoLabel.SetHAlign(gtk.AlignCenter)
	w.infoLabel.SetMarginTop(4)
	w.infoLabel.AddCSSClass("dim-label")

	w.statusLabel = gtk.NewLabel("")
	w.statusLabel.SetHAlign(gtk.AlignCenter)
	w.statusLabel.SetMarginTop(4)
	w.statusLabel.SetMarginBottom(4)
	w.statusLabel.SetWrap(true)

	//ANCHOR - Wallpaper grid

	w.grid = gtk.NewFlowBox()
	w.grid.SetSelectionMode(gtk.SelectionNone)
	w.grid.SetHomogeneous(true)
	w.grid.SetColumnSpacing(12)
	w.grid.SetRowSpacing(12)
	w.grid.SetMaxChildrenPerLine(cardsPerLine)
	w.grid.SetHAlign(gtk.AlignCenter)
	w.grid.SetVAlign(gtk.AlignStart)
	w.grid.SetMarginTop(10)
	w.grid.SetMarginBottom(10)
	w.grid.SetMarginStart(10)
	w.grid.SetMarginEnd(10)

	w.scrolled = gtk.NewScrolledWindow()
	w.scrolled.SetPolicy(gtk.PolicyNever, gtk.PolicyAutomatic)
	w.scrolled.SetMinContentHeight(600)
	w.scrolled.SetMinContentWidth(800)
	w.scrolled.SetHExpand(true)
	w.scrolled.SetVExpand(true)
	w.scrolled.SetChild(w.grid)

	vBox := gtk.NewBox(gtk.OrientationVertical, 0)
	vBox.Append(topControlBar)
	vBox.Append(w.infoLabel)
	vBox.Append(w.statusLabel)
	vBox.Append(w.scrolled)

	w.window.SetChild(vBox)
	w.window.SetDefaultSize(1000, 700)
	w.window.Connect("close-request", func() bool {
		w.cancel()
		return false
	})

	w.updateMonitorSelectorVisibility()
	w.refreshInfo()
	w.refreshStatus()
	w.reloadCatalog()
	w.startWatcher()

	w.window.SetVisible(true)
	return w
}

// Provides custom CSS to the entire application.
func setupStyling() {
	cssProvider := gtk.NewCSSProvider()
	css := `
		.wallpaper-card {
			padding: 6px;
		}

		.error {
			color: #ab0000ff;
		}
		`

	cssProvider.LoadFromString(css)
	gtk.StyleContextAddProviderForDisplay(
		gdk.DisplayGetDefault(),
		cssProvider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
}

func modeIndex(mode state.Mode) int {
	for i, m := range state.Modes {
		if m == mode {
			return i
		}
	}
	return 0
}

func (w *selectorWindow) monitorNames() []string {
	if len(w.monitors) == 0 {
		return []string{noMonitorsLabel}
	}
	return w.monitors
}

// selectedMonitor is the monitor picked in the dropdown, or "" when no
// monitors were detected.
func (w *selectorWindow) selectedMonitor() string {
	index := int(w.monitorDropdown.Selected())
	if len(w.monitors) == 0 || index < 0 || index >= len(w.monitors) {
		return ""
	}
	return w.monitors[index]
}

func (w *selectorWindow) selectSavedMonitor() {
	saved := w.app.Config.SavedUIState.SelectedMonitor
	for i, m := range w.monitors {
		if m == saved {
			w.monitorDropdown.SetSelected(uint(i))
			return
		}
	}
	w.monitorDropdown.SetSelected(0)
}

func (w *selectorWindow) updateMonitorSelectorVisibility() {
	visible := w.app.Selector.Mode() == state.ModePerMonitor
	w.monitorLabel.SetVisible(visible)
	w.monitorDropdown.SetVisible(visible)
}

func (w *selectorWindow) updateAutostartButtonLabel() {
	if w.app.Selector.AutostartEnabled() {
		w.autostartButton.SetLabel("Disable Autostart")
	} else {
		w.autostartButton.SetLabel("Enable Autostart")
	}
}

func (w *selectorWindow) refreshInfo() {
	w.infoLabel.SetText(w.app.Selector.MonitorsInfo())
}

func (w *selectorWindow) refreshStatus() {
	w.setStatus(w.app.Selector.Status(w.selectedMonitor()))
}

func (w *selectorWindow) setStatus(message string) {
	w.statusLabel.SetText(message)
}

// setStatusAsync is setStatus for goroutines.
func (w *selectorWindow) setStatusAsync(message string) {
	glib.IdleAdd(func() {
		w.setStatus(message)
	})
}

// reloadMonitors asks the apply script for the monitor list again and
// rebuilds the monitor dropdown.
func (w *selectorWindow) reloadMonitors() {
	go func() {
		monitors, err := w.app.Selector.RefreshMonitors(w.ctx)
		if err != nil {
			w.app.Logger.Error("error getting monitors", "error", err)
		}
		glib.IdleAdd(func() {
			w.monitors = monitors
			w.monitorDropdown.SetModel(gtk.NewStringList(w.monitorNames()))
			w.selectSavedMonitor()
			w.refreshInfo()
			w.refreshStatus()
		})
	}()
}

// reloadCatalog rescans the wallpaper directory off the main thread.
func (w *selectorWindow) reloadCatalog() {
	go func() {
		assets := w.app.loadCatalog()
		glib.IdleAdd(func() {
			w.assets = assets
			w.rebuildGrid()
		})
	}()
}

func (w *selectorWindow) startWatcher() {
	if !w.app.Config.Behaviour.WatchDirectory {
		return
	}

	watcher, err := watch.New(w.app.Paths.WallpaperDir, watch.DefaultDebounce, w.app.Logger.Named("watch"))
	if err != nil {
		w.app.Logger.Warn("not watching wallpaper directory", "error", err)
		return
	}
	go func() {
		err := watcher.Run(w.ctx, func() {
			glib.IdleAdd(func() {
				w.reloadCatalog()
			})
		})
		if err != nil {
			w.app.Logger.Warn("wallpaper directory watcher stopped", "error", err)
		}
	}()
}

// Replaces the grid with an error message.
func (w *selectorWindow) showFrontError(message string) {
	w.grid.RemoveAll()
	w.cards = nil

	errorLabel := gtk.NewLabel(message)
	errorLabel.SetHExpand(true)
	errorLabel.SetVExpand(true)
	errorLabel.SetHAlign(gtk.AlignCenter)
	errorLabel.SetVAlign(gtk.AlignCenter)
	errorLabel.SetWrap(true)

	w.scrolled.SetChild(errorLabel)
	w.showingError = true
}

// Rebuilds the grid from w.assets, keeping the current search filter.
func (w *selectorWindow) rebuildGrid() {
	if len(w.assets) == 0 {
		w.showFrontError("No wallpapers found in " + w.app.Paths.WallpaperDir)
		return
	}
	if w.showingError {
		w.scrolled.SetChild(w.grid)
		w.showingError = false
	}

	w.grid.RemoveAll()
	w.cards = make([]card, 0, len(w.assets))

	for i, asset := range w.assets {
		child := gtk.NewFlowBoxChild()
		child.SetChild(w.newCard(i, asset))
		w.grid.Append(child)
		w.cards = append(w.cards, card{asset: asset, child: child})
	}

	w.applyFilter()
}

// Shows only the cards matching the search query.
func (w *selectorWindow) applyFilter() {
	for _, c := range w.cards {
		c.child.SetVisible(catalog.Match(c.asset, w.searchQuery))
	}
}

// newCard builds the button for one wallpaper: preview, title and type.
func (w *selectorWindow) newCard(index int, asset catalog.Asset) *gtk.Button {
	box := gtk.NewBox(gtk.OrientationVertical, 5)

	image := gtk.NewImageFromIconName(catalog.PlaceholderIcon)
	image.SetPixelSize(cardImageSize)
	image.SetSizeRequest(cardImageSize, cardImageSize)
	box.Append(image)
	if asset.PreviewExists {
		w.loadThumbnailAsync(asset, image)
	}

	titleLabel := gtk.NewLabel(asset.Title)
	titleLabel.SetWrap(true)
	titleLabel.SetMaxWidthChars(18)
	titleLabel.SetJustify(gtk.JustifyCenter)
	box.Append(titleLabel)

	typeLabel := gtk.NewLabel("")
	typeLabel.SetMarkup("<small><i>" + escapeMarkup(capitalize(asset.Type)) + "</i></small>")
	box.Append(typeLabel)

	button := gtk.NewButton()
	button.SetChild(box)
	button.SetTooltipText(asset.Title)
	button.AddCSSClass("wallpaper-card")
	button.Connect("clicked", func() {
		w.applyWallpaper(asset)
	})

	w.attachContextMenu(button, "card"+strconv.Itoa(index), asset)
	return button
}

// Decodes and caches the preview in a goroutine, then swaps it into target
// on the main thread. Failures keep the placeholder.
func (w *selectorWindow) loadThumbnailAsync(asset catalog.Asset, target *gtk.Image) {
	go func() {
		if err := w.thumbs.Acquire(w.ctx, 1); err != nil {
			return
		}
		defer w.thumbs.Release(1)

		thumbnailPath, err := w.app.Thumbnails.Ensure(asset.ID, asset.PreviewPath)
		if err != nil {
			w.app.Logger.Debug("no thumbnail for wallpaper", "id", asset.ID, "error", err)
			return
		}

		pixbuf, err := gdkpixbuf.NewPixbufFromFile(thumbnailPath)
		if err != nil {
			w.app.Logger.Warn("error creating pixbuf", "path", thumbnailPath, "error", err)
			return
		}

		// convert to paintable as image.SetFromPixbuf is deprecated
		paintable := gdk.NewTextureForPixbuf(pixbuf)

		glib.IdleAdd(func() {
			target.SetFromPaintable(paintable)
			target.SetPixelSize(cardImageSize)
		})
	}()
}

// Applies the wallpaper with the current mode, off the main thread.
func (w *selectorWindow) applyWallpaper(asset catalog.Asset) {
	monitor := w.selectedMonitor()
	w.app.Logger.Info("selected wallpaper", "id", asset.ID, "title", asset.Title)
	w.setStatus(fmt.Sprintf("Applying %s...", asset.Title))

	go func() {
		err := w.app.Selector.SelectWallpaper(w.ctx, asset.ID, monitor)
		glib.IdleAdd(func() {
			if err != nil {
				w.app.Logger.Error("error launching wallpaper script", "id", asset.ID, "error", err)
				w.setStatus("Error: " + err.Error())
				return
			}
			w.app.Logger.Info("wallpaper applied", "id", asset.ID, "mode", w.app.Selector.Mode())
			w.refreshStatus()
		})
	}()
}

func (w *selectorWindow) stopWallpaper() {
	w.app.Logger.Info("stopping wallpaper")
	w.setStatus("Stopping wallpaper...")

	go func() {
		out, err := w.app.Selector.Stop(w.ctx)
		if err != nil {
			w.app.Logger.Error("error sending stop command", "error", err)
			w.setStatusAsync("Error: " + err.Error())
			return
		}
		if out != "" {
			w.app.Logger.Info("stop command output", "output", out)
		}
		glib.IdleAdd(func() {
			w.refreshStatus()
		})
	}()
}

// Attaches the right click menu to a card.
//
// Apply = same as a left click.
// Open Wallpaper Directory = xdg-open on the wallpaper's folder.
// Copy Command to Clipboard = the apply script call the click would run.
func (w *selectorWindow) attachContextMenu(widget *gtk.Button, prefix string, asset catalog.Asset) {
	actionGroup := gio.NewSimpleActionGroup()

	applyAction := gio.NewSimpleAction("apply", nil)
	applyAction.Connect("activate", func(_ *gio.SimpleAction, _ any) {
		w.applyWallpaper(asset)
	})
	actionGroup.AddAction(&applyAction.Action)

	openDirectoryAction := gio.NewSimpleAction("open_directory", nil)
	openDirectoryAction.Connect("activate", func(_ *gio.SimpleAction, _ any) {
		if _, err := os.Stat(asset.Dir); err != nil {
			w.app.Logger.Warn("wallpaper directory does not exist", "path", asset.Dir)
			return
		}
		if _, err := procs.RunDetached(w.app.Logger, "xdg-open", asset.Dir); err != nil {
			w.app.Logger.Error("error opening directory", "path", asset.Dir, "error", err)
			return
		}
		w.app.Logger.Debug("opened wallpaper directory", "id", asset.ID, "path", asset.Dir)
	})
	actionGroup.AddAction(&openDirectoryAction.Action)

	copyCommandAction := gio.NewSimpleAction("copy_command", nil)
	copyCommandAction.Connect("activate", func(_ *gio.SimpleAction, _ any) {
		argv, err := w.app.Selector.Command(asset.ID, w.selectedMonitor())
		if err != nil {
			w.app.Logger.Error("cannot build command", "id", asset.ID, "error", err)
			w.setStatus("Error: " + err.Error())
			return
		}
		cmd := shellJoin(argv)
		gdk.DisplayGetDefault().Clipboard().SetText(cmd)
		w.app.Logger.Info("command copied to clipboard", "command", cmd)
	})
	actionGroup.AddAction(&copyCommandAction.Action)

	widget.InsertActionGroup(prefix, actionGroup)

	rightClickGesture := gtk.NewGestureClick()
	rightClickGesture.SetButton(3)
	widget.AddController(rightClickGesture)
	rightClickGesture.ConnectReleased(func(nPress int, x, y float64) {
		if nPress != 1 {
			return
		}
		contextMenuModel := gio.NewMenu()
		contextMenuModel.Append("Apply Wallpaper", prefix+".apply")
		contextMenuModel.Append("Open Wallpaper Directory", prefix+".open_directory")
		contextMenuModel.Append("Copy Command to Clipboard", prefix+".copy_command")

		contextMenu := gtk.NewPopoverMenuFromModel(contextMenuModel)
		contextMenu.SetParent(widget)

		// makes the popover appear at the clicked position
		rect := gdk.NewRectangle(int(x), int(y), 1, 1)
		contextMenu.SetPointingTo(&rect)
		contextMenu.SetPosition(gtk.PosBottom)
		contextMenu.SetHasArrow(true)

		contextMenu.Popup()
	})
}
