package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/6gh/hyprpaper-we/internal/applyscript"
	"github.com/6gh/hyprpaper-we/internal/catalog"
	"github.com/6gh/hyprpaper-we/internal/procs"
	"github.com/6gh/hyprpaper-we/internal/state"
	"github.com/6gh/hyprpaper-we/internal/version"
)

type globalFlags struct {
	configFile string
	verbose    bool
	restore    bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "hyprpaper-we",
		Short: "Wallpaper Engine wallpaper selector for Hyprland",
		Long: `hyprpaper-we lists the Wallpaper Engine wallpapers installed through Steam
and applies them with hyprpaper-we.sh, either cloned to every monitor,
one per monitor, or stretched across all of them.

Run without a command to open the selector window.`,
		Version:      version.Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags.configFile, flags.verbose)
			if err != nil {
				return err
			}
			if flags.restore {
				return runRestore(cmd.Context(), a)
			}
			if code := runGUI(cmd.Context(), a); code != 0 {
				return fmt.Errorf("selector exited with status %d", code)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/hyprpaper-we/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	// older exec-once lines call `hyprpaper-we --restore`
	rootCmd.Flags().BoolVar(&flags.restore, "restore", false, "same as the restore command")
	_ = rootCmd.Flags().MarkHidden("restore")
	rootCmd.SetVersionTemplate(version.String("hyprpaper-we") + "\n")

	rootCmd.AddCommand(
		newRestoreCmd(flags),
		newStopCmd(flags),
		newListCmd(flags),
		newMonitorsCmd(flags),
		newStatusCmd(flags),
		newAutostartCmd(flags),
		newVersionCmd(),
	)
	return rootCmd
}

func newRestoreCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Re-apply the last wallpaper selection",
		Long: `Re-apply the wallpaper(s) recorded in state.json using the saved mode.
Meant to be run from the compositor's exec-once or the autostart script.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags.configFile, flags.verbose)
			if err != nil {
				return err
			}
			return runRestore(cmd.Context(), a)
		},
	}
}

func runRestore(ctx context.Context, a *App) error {
	if err := a.initSelector(ctx); err != nil {
		return err
	}
	if err := a.Selector.Restore(ctx); err != nil {
		return err
	}
	a.Logger.Info("wallpaper restored successfully")
	return nil
}

func newStopCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running wallpaper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags.configFile, flags.verbose)
			if err != nil {
				return err
			}
			if err := a.initSelector(cmd.Context()); err != nil {
				return err
			}
			out, err := a.Selector.Stop(cmd.Context())
			if out != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return err
		},
	}
}

func newListCmd(flags *globalFlags) *cobra.Command {
	var (
		sortBy string
		query  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed wallpapers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags.configFile, flags.verbose)
			if err != nil {
				return err
			}

			assets := a.loadCatalog()
			if sortBy != "" {
				if !slices.Contains(catalog.SortOptions, sortBy) {
					return fmt.Errorf("unknown sort order %q, expected one of %s", sortBy, strings.Join(catalog.SortOptions, ", "))
				}
				catalog.Sort(assets, sortBy)
			}

			printAssets(cmd.OutOrStdout(), assets, query, terminalWidth(cmd.OutOrStdout()))
			return nil
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", "", "sort order ("+strings.Join(catalog.SortOptions, ", ")+"), defaults to the saved UI order")
	cmd.Flags().StringVarP(&query, "search", "s", "", "only list wallpapers matching this text")
	return cmd
}

func printAssets(w io.Writer, assets []catalog.Asset, query string, width int) {
	t := newTable("ID", "TYPE", "TITLE")
	t.maxWidth = width
	shown := 0
	for _, asset := range assets {
		if !catalog.Match(asset, query) {
			continue
		}
		t.addRow(asset.ID, asset.Type, asset.Title)
		shown++
	}
	fmt.Fprint(w, t.render())
	fmt.Fprintf(w, "\n%d wallpaper(s)\n", shown)
}

// terminalWidth returns the width of w if it is a terminal, otherwise 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func newMonitorsCmd(flags *globalFlags) *cobra.Command {
	var geometry bool

	cmd := &cobra.Command{
		Use:   "monitors",
		Short: "List the monitors hyprpaper-we.sh can target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags.configFile, flags.verbose)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if geometry {
				monitors, err := a.Hyprctl.Monitors(cmd.Context())
				if err != nil {
					return err
				}
				t := newTable("NAME", "POSITION", "SIZE", "DESCRIPTION")
				for _, m := range monitors {
					t.addRow(m.Name,
						strconv.Itoa(m.X)+","+strconv.Itoa(m.Y),
						strconv.Itoa(m.Width)+"x"+strconv.Itoa(m.Height),
						m.Description)
				}
				fmt.Fprint(out, t.render())
				return nil
			}

			monitors, err := a.Script.ListMonitors(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range monitors {
				fmt.Fprintln(out, m)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&geometry, "geometry", "g", false, "query hyprctl for position and size")
	return cmd
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the saved selection, autostart and running renderers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags.configFile, flags.verbose)
			if err != nil {
				return err
			}
			if err := a.initSelector(cmd.Context()); err != nil {
				return err
			}

			running, err := procs.Running(a.Config.Behaviour.RendererProcesses)
			if err != nil {
				a.Logger.Warn("could not list processes", "error", err)
			}
			printStatus(cmd.OutOrStdout(), a.Selector.State(), a.Selector.MonitorsInfo(), a.Selector.Status(a.Config.SavedUIState.SelectedMonitor), a.Selector.AutostartEnabled(), running)
			return nil
		},
	}
}

func printStatus(w io.Writer, st state.State, monitorsInfo, summary string, autostartEnabled bool, running map[string][]int) {
	last := st.LastWallpaper()
	if last == "" {
		last = "none"
	}

	fmt.Fprintf(w, "Mode:            %s\n", st.Mode)
	fmt.Fprintf(w, "Last wallpaper:  %s\n", last)
	if len(st.MonitorSelections) > 0 {
		fmt.Fprintf(w, "Selections:      %s\n", strings.Join(applyscript.PerMonitorArgs(st.MonitorSelections), ", "))
	}
	fmt.Fprintf(w, "Monitors:        %s\n", monitorsInfo)
	fmt.Fprintf(w, "Autostart:       %s\n", onOff(autostartEnabled))

	if len(running) == 0 {
		fmt.Fprintf(w, "Renderers:       none running\n")
	} else {
		names := make([]string, 0, len(running))
		for name := range running {
			names = append(names, name)
		}
		slices.Sort(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			pids := make([]string, len(running[name]))
			for i, pid := range running[name] {
				pids[i] = strconv.Itoa(pid)
			}
			parts = append(parts, fmt.Sprintf("%s (pid %s)", name, strings.Join(pids, ", ")))
		}
		fmt.Fprintf(w, "Renderers:       %s\n", strings.Join(parts, "; "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, summary)
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func newAutostartCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "autostart [on|off|toggle]",
		Short:     "Show or change whether hyprpaper-we starts with the session",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags.configFile, flags.verbose)
			if err != nil {
				return err
			}

			entry := a.Autostart
			if len(args) == 1 {
				switch args[0] {
				case "on":
					err = entry.Enable()
				case "off":
					err = entry.Disable()
				case "toggle":
					_, err = entry.Toggle()
				}
				if err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Autostart %s (%s)\n", onOff(entry.Enabled()), entry.Path)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String("hyprpaper-we"))
		},
	}
}
