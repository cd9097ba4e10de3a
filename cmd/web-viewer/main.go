// Command web-viewer shows an HTML wallpaper on the background layer.
//
//	web-viewer <html_path> [monitor_name]
//
// It is started by hyprpaper-we.sh, once per monitor in per-monitor mode.
package main

import (
	"fmt"
	"os"

	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/spf13/cobra"

	"github.com/6gh/hyprpaper-we/internal/hyprctl"
	"github.com/6gh/hyprpaper-we/internal/logging"
	"github.com/6gh/hyprpaper-we/internal/version"
	"github.com/6gh/hyprpaper-we/internal/viewer"
)

const appID = "dev._6gh.hyprpaper-we.web-viewer"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		hyprctlBin string
	)

	cmd := &cobra.Command{
		Use:          "web-viewer <html_path> [monitor_name]",
		Short:        "Show an HTML wallpaper on the background layer",
		Version:      version.Version,
		SilenceUsage: false,
		Args: func(cmd *cobra.Command, args []string) error {
			_, err := viewer.ParseArgs(args)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			logger := logging.New("web-viewer", "info", verbose)

			target, err := viewer.ParseArgs(args)
			if err != nil {
				return err
			}
			uri, monitorName := target.URI, target.Monitor

			client := hyprctl.New(hyprctlBin)
			placement := viewer.Place(cmd.Context(), client.Find, monitorName, logger)
			logger.Debug("starting viewer", "uri", uri, "monitor", monitorName, "placement", fmt.Sprintf("%+v", placement))

			// non-unique so one viewer per monitor can run at the same time
			app := gtk.NewApplication(appID, gio.ApplicationNonUnique)
			var win *wallpaperWindow
			app.ConnectActivate(func() {
				if win == nil {
					win = newWallpaperWindow(app, uri, placement, logger)
				}
				win.present()
			})

			// GApplication must not see our arguments
			if code := app.Run([]string{os.Args[0]}); code != 0 {
				return fmt.Errorf("viewer exited with status %d", code)
			}
			return nil
		},
	}

	cmd.SetVersionTemplate(version.String("web-viewer") + "\n")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().StringVar(&hyprctlBin, "hyprctl", "hyprctl", "hyprctl binary used to look up monitor geometry")
	return cmd
}
