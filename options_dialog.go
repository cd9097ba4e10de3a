package main

import (
	"context"
	"path/filepath"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/6gh/hyprpaper-we/internal/paths"
)

var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// optionsDialog edits the config file. Changes are saved when it closes.
type optionsDialog struct {
	parent *selectorWindow
	window *gtk.Window

	reloadRequired bool
}

func (w *selectorWindow) showOptionsDialog() {
	d := &optionsDialog{parent: w}

	d.window = gtk.NewWindow()
	d.window.SetTitle("Options")
	d.window.SetDefaultSize(600, 400)
	d.window.SetHExpand(true)
	d.window.SetVExpand(true)

	d.window.Connect("close-request", func() bool {
		a := w.app
		a.Config.Validate()
		a.saveConfig()
		if d.reloadRequired {
			if dir, err := paths.Resolve(a.Config.Paths.WallpaperDir); err == nil {
				a.Paths.WallpaperDir = dir
			}
			w.reloadCatalog()
		}
		return false
	})

	notebook := gtk.NewNotebook()
	notebook.AppendPage(d.createPathsPage(), gtk.NewLabel("Paths"))
	notebook.AppendPage(d.createBehaviourPage(), gtk.NewLabel("Behaviour"))

	d.window.SetChild(notebook)
	d.window.SetTransientFor(&w.window.Window)
	d.window.SetModal(true)
	d.window.SetDestroyWithParent(true)
	d.window.SetVisible(true)
}

func newOptionsPage() *gtk.Box {
	page := gtk.NewBox(gtk.OrientationVertical, 0)
	page.SetMarginTop(10)
	page.SetMarginBottom(10)
	page.SetMarginStart(10)
	page.SetMarginEnd(10)
	page.SetSpacing(10)
	page.SetHExpand(true)
	page.SetVExpand(true)
	page.SetHAlign(gtk.AlignFill)
	return page
}

func newSectionLabel(text string) *gtk.Label {
	label := gtk.NewLabel("")
	label.SetMarkup("<b>" + escapeMarkup(text) + "</b>")
	label.SetHExpand(true)
	label.SetHAlign(gtk.AlignStart)
	label.SetMarginTop(10)
	label.SetMarginBottom(10)
	return label
}

// newPathRow is a read-only entry with a button opening a chooser. folder
// picks a directory instead of a file. onPicked gets the chosen path.
func (d *optionsDialog) newPathRow(title, current string, folder bool, onPicked func(string)) *gtk.Box {
	row := gtk.NewBox(gtk.OrientationHorizontal, 4)
	row.SetHExpand(true)
	row.SetVExpand(false)

	entry := gtk.NewEntry()
	entry.SetText(current)
	entry.SetEditable(false)
	entry.SetHExpand(true)
	entry.SetHAlign(gtk.AlignFill)

	icon := "document-open"
	if folder {
		icon = "folder-open"
	}
	button := gtk.NewButtonFromIconName(icon)
	button.SetHExpand(false)
	button.SetVExpand(false)
	button.SetHAlign(gtk.AlignStart)
	button.SetSizeRequest(24, 24)
	button.Connect("clicked", func() {
		logger := d.parent.app.Logger

		fileDialog := gtk.NewFileDialog()
		fileDialog.SetTitle(title)
		fileDialog.SetAcceptLabel("Select")
		fileDialog.SetModal(true)

		picked := func(file *gio.File, err error) {
			if err != nil {
				logger.Debug("file dialog closed without a selection", "error", err)
				return
			}
			if file.Path() == "" {
				return
			}
			entry.SetText(file.Path())
			onPicked(file.Path())
		}

		if folder {
			fileDialog.SetInitialFolder(gio.NewFileForPath(entry.Text()))
			fileDialog.SelectFolder(context.TODO(), d.window, func(result gio.AsyncResulter) {
				picked(fileDialog.SelectFolderFinish(result))
			})
			return
		}
		fileDialog.SetInitialFolder(gio.NewFileForPath(filepath.Dir(entry.Text())))
		fileDialog.Open(context.TODO(), d.window, func(result gio.AsyncResulter) {
			picked(fileDialog.OpenFinish(result))
		})
	})

	row.Append(button)
	row.Append(entry)
	return row
}

func (d *optionsDialog) createPathsPage() *gtk.Box {
	cfg := d.parent.app.Config
	pathsPage := newOptionsPage()

	pathsPage.Append(newSectionLabel("Wallpaper Engine Content"))
	pathsPage.Append(d.newPathRow("Select where to load Wallpaper Engine wallpapers from", cfg.Paths.WallpaperDir, true, func(p string) {
		cfg.Paths.WallpaperDir = p
		d.reloadRequired = true
	}))

	pathsPage.Append(newSectionLabel("Apply Script"))
	pathsPage.Append(d.newPathRow("Select the wallpaper apply script", cfg.Paths.ApplyScript, false, func(p string) {
		cfg.Paths.ApplyScript = p
	}))

	pathsPage.Append(newSectionLabel("Autostart Launcher"))
	pathsPage.Append(d.newPathRow("Select the script started with the session", cfg.Paths.AutostartScript, false, func(p string) {
		cfg.Paths.AutostartScript = p
	}))

	note := gtk.NewLabel("Changes to the apply script and autostart launcher take effect after a restart.")
	note.SetHAlign(gtk.AlignStart)
	note.SetWrap(true)
	note.AddCSSClass("dim-label")
	pathsPage.Append(note)

	return pathsPage
}

func (d *optionsDialog) createBehaviourPage() *gtk.Box {
	w := d.parent
	a := w.app
	behaviourPage := newOptionsPage()

	behaviourPage.Append(newSectionLabel("Toggleables"))

	pruneToggle := gtk.NewCheckButtonWithLabel("Forget selections for disconnected monitors")
	pruneToggle.SetHAlign(gtk.AlignStart)
	pruneToggle.SetActive(a.Config.Behaviour.PruneStaleMonitors)
	pruneToggle.Connect("toggled", func() {
		a.Config.Behaviour.PruneStaleMonitors = pruneToggle.Active()
	})
	behaviourPage.Append(pruneToggle)

	watchToggle := gtk.NewCheckButtonWithLabel("Rescan when the wallpaper directory changes (after restart)")
	watchToggle.SetHAlign(gtk.AlignStart)
	watchToggle.SetActive(a.Config.Behaviour.WatchDirectory)
	watchToggle.Connect("toggled", func() {
		a.Config.Behaviour.WatchDirectory = watchToggle.Active()
	})
	behaviourPage.Append(watchToggle)

	behaviourPage.Append(newSectionLabel("Log Level"))

	levelIndex := 2
	for i, l := range logLevels {
		if l == a.Config.Behaviour.LogLevel {
			levelIndex = i
		}
	}
	logLevelDropdown := gtk.NewDropDown(gtk.NewStringList(logLevels), nil)
	logLevelDropdown.SetHAlign(gtk.AlignStart)
	logLevelDropdown.SetSelected(uint(levelIndex))
	logLevelDropdown.Connect("notify::selected", func() {
		index := int(logLevelDropdown.Selected())
		if index < 0 || index >= len(logLevels) {
			return
		}
		a.Config.Behaviour.LogLevel = logLevels[index]
		a.Logger.SetLevel(logLevel(logLevels[index]))
	})
	behaviourPage.Append(logLevelDropdown)

	behaviourPage.Append(newSectionLabel("Quick Actions"))

	restoreButton := gtk.NewButtonWithLabel("Restore Last Set")
	restoreButton.SetHExpand(false)
	restoreButton.SetVExpand(false)
	restoreButton.SetHAlign(gtk.AlignStart)
	restoreButton.Connect("clicked", func() {
		a.Logger.Info("restoring last set wallpaper")
		go func() {
			if err := a.Selector.Restore(w.ctx); err != nil {
				a.Logger.Error("failed to restore wallpaper", "error", err)
				w.setStatusAsync("Error: " + err.Error())
				return
			}
			glib.IdleAdd(func() {
				w.refreshStatus()
			})
		}()
	})
	behaviourPage.Append(restoreButton)

	clearThumbnailsButton := gtk.NewButtonWithLabel("Clear Thumbnail Cache")
	clearThumbnailsButton.SetHExpand(false)
	clearThumbnailsButton.SetVExpand(false)
	clearThumbnailsButton.SetHAlign(gtk.AlignStart)
	clearThumbnailsButton.Connect("clicked", func() {
		if err := a.Thumbnails.Clear(); err != nil {
			a.Logger.Error("failed to clear thumbnail cache", "error", err)
			return
		}
		a.Logger.Info("thumbnail cache cleared")
		d.reloadRequired = true
	})
	behaviourPage.Append(clearThumbnailsButton)

	return behaviourPage
}
