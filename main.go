// hyprpaper-we picks Wallpaper Engine wallpapers for Hyprland.
//
// Without arguments it opens the GTK selector; the subcommands cover the
// same operations from a terminal or a startup script.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
