package selector

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-hclog"

	"github.com/6gh/hyprpaper-we/internal/autostart"
	"github.com/6gh/hyprpaper-we/internal/state"
)

// fakeScript records every call and answers list-monitors from monitors.
type fakeScript struct {
	monitors []string
	listErr  error
	failOn   string // subcommand that should fail
	calls    [][]string
}

func (f *fakeScript) Run(_ context.Context, args ...string) (string, error) {
	f.calls = append(f.calls, slices.Clone(args))
	if len(args) > 0 && args[0] == "list-monitors" {
		if f.listErr != nil {
			return "", f.listErr
		}
		return "Available monitors:\n" + strings.Join(f.monitors, "\n") + "\n", nil
	}
	if len(args) > 0 && args[0] == f.failOn {
		return "", errors.New("exit status 1")
	}
	return "ok\n", nil
}

// lastCall returns the most recent non list-monitors call.
func (f *fakeScript) lastCall() []string {
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i][0] != "list-monitors" {
			return f.calls[i]
		}
	}
	return nil
}

type fixture struct {
	ctrl   *Controller
	script *fakeScript
	store  *state.Store
}

func newFixture(t *testing.T, initial *state.State, monitors ...string) fixture {
	t.Helper()
	dir := t.TempDir()
	store := state.NewStore(filepath.Join(dir, "state.json"), hclog.NewNullLogger())
	if initial != nil {
		if err := store.Save(*initial); err != nil {
			t.Fatal(err)
		}
	}

	script := &fakeScript{monitors: monitors}
	ctrl := New(Options{
		Store:              store,
		Script:             script,
		Autostart:          autostart.Entry{Path: filepath.Join(dir, "autostart", "hyprpaper-we.desktop"), Exec: "/bin/true"},
		ScriptPath:         "/opt/hyprpaper-we.sh",
		PruneStaleMonitors: true,
	})
	if err := ctrl.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	return fixture{ctrl: ctrl, script: script, store: store}
}

func (f fixture) persisted(t *testing.T) state.State {
	t.Helper()
	st, err := f.store.Load()
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestInitDefaults(t *testing.T) {
	f := newFixture(t, nil, "DP-1", "HDMI-A-1")

	if f.ctrl.Mode() != state.ModeClone {
		t.Errorf("Mode = %q, want clone", f.ctrl.Mode())
	}
	if !slices.Equal(f.ctrl.Monitors(), []string{"DP-1", "HDMI-A-1"}) {
		t.Errorf("Monitors = %v", f.ctrl.Monitors())
	}
	if got := f.ctrl.MonitorsInfo(); got != "Detected monitors: DP-1, HDMI-A-1" {
		t.Errorf("MonitorsInfo = %q", got)
	}
}

func TestInitListMonitorsFailure(t *testing.T) {
	dir := t.TempDir()
	script := &fakeScript{listErr: errors.New("script not found")}
	ctrl := New(Options{
		Store:  state.NewStore(filepath.Join(dir, "state.json"), nil),
		Script: script,
	})

	if err := ctrl.Init(context.Background()); err != nil {
		t.Fatalf("Init should tolerate list-monitors failing, got %v", err)
	}
	if len(ctrl.Monitors()) != 0 {
		t.Errorf("Monitors = %v, want empty", ctrl.Monitors())
	}
	if got := ctrl.MonitorsInfo(); got != "No monitors detected" {
		t.Errorf("MonitorsInfo = %q", got)
	}
}

func TestInitPrunesStaleMonitors(t *testing.T) {
	initial := state.State{Mode: state.ModePerMonitor, MonitorSelections: map[string]string{
		"DP-1": "1",
		"DP-2": "2",
	}}
	f := newFixture(t, &initial, "DP-1")

	want := map[string]string{"DP-1": "1"}
	if diff := cmp.Diff(want, f.ctrl.State().MonitorSelections); diff != "" {
		t.Errorf("in-memory selections (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, f.persisted(t).MonitorSelections); diff != "" {
		t.Errorf("persisted selections (-want +got):\n%s", diff)
	}
}

func TestInitKeepsSelectionsWithoutMonitors(t *testing.T) {
	initial := state.State{Mode: state.ModePerMonitor, MonitorSelections: map[string]string{"DP-2": "2"}}
	f := newFixture(t, &initial)

	if got := f.ctrl.State().MonitorSelections; len(got) != 1 {
		t.Errorf("selections should survive an empty monitor list, got %v", got)
	}
}

func TestSelectClone(t *testing.T) {
	f := newFixture(t, nil, "DP-1")

	if err := f.ctrl.SelectWallpaper(context.Background(), "12345", ""); err != nil {
		t.Fatalf("SelectWallpaper returned error: %v", err)
	}

	if diff := cmp.Diff([]string{"clone", "12345"}, f.script.lastCall()); diff != "" {
		t.Errorf("script call (-want +got):\n%s", diff)
	}
	st := f.ctrl.State()
	if st.LastWallpaper() != "12345" || st.Mode != state.ModeClone {
		t.Errorf("state after clone select = %+v", st)
	}
	if f.persisted(t).LastWallpaper() != "12345" {
		t.Errorf("last_wallpaper_id was not persisted")
	}
	if got := f.ctrl.Status(""); got != "Clone mode: Wallpaper 12345 on all monitors" {
		t.Errorf("Status = %q", got)
	}
}

func TestSelectStretch(t *testing.T) {
	f := newFixture(t, &state.State{Mode: state.ModeStretch}, "DP-1", "DP-2")

	if err := f.ctrl.SelectWallpaper(context.Background(), "777", ""); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"stretch", "777"}, f.script.lastCall()); diff != "" {
		t.Errorf("script call (-want +got):\n%s", diff)
	}
	if f.ctrl.Mode() != state.ModeStretch {
		t.Errorf("mode changed as a side effect: %q", f.ctrl.Mode())
	}
	if got := f.ctrl.Status(""); got != "Stretch mode: Wallpaper 777 stretched across monitors" {
		t.Errorf("Status = %q", got)
	}
}

func TestSelectPerMonitorSendsFullMapping(t *testing.T) {
	initial := state.State{Mode: state.ModePerMonitor, MonitorSelections: map[string]string{
		"DP-1":     "111",
		"HDMI-A-1": "222",
	}}
	f := newFixture(t, &initial, "DP-1", "HDMI-A-1", "eDP-1")

	if err := f.ctrl.SelectWallpaper(context.Background(), "333", "HDMI-A-1"); err != nil {
		t.Fatal(err)
	}

	wantCall := []string{"per-monitor", "DP-1:111", "HDMI-A-1:333"}
	if diff := cmp.Diff(wantCall, f.script.lastCall()); diff != "" {
		t.Errorf("script call (-want +got):\n%s", diff)
	}

	want := map[string]string{"DP-1": "111", "HDMI-A-1": "333"}
	if diff := cmp.Diff(want, f.ctrl.State().MonitorSelections); diff != "" {
		t.Errorf("in-memory selections (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, f.persisted(t).MonitorSelections); diff != "" {
		t.Errorf("persisted selections (-want +got):\n%s", diff)
	}
	if f.ctrl.State().LastWallpaperID != nil {
		t.Errorf("per-monitor select should not touch last_wallpaper_id")
	}
	if got := f.ctrl.Status("eDP-1"); got != "Per-monitor: DP-1:111, HDMI-A-1:333" {
		t.Errorf("Status = %q", got)
	}
}

func TestSelectPerMonitorDefaultsToFirstMonitor(t *testing.T) {
	f := newFixture(t, &state.State{Mode: state.ModePerMonitor}, "DP-1", "DP-2")

	if got := f.ctrl.Status(""); got != "Per-monitor mode: Select wallpaper for DP-1" {
		t.Errorf("Status = %q", got)
	}
	if err := f.ctrl.SelectWallpaper(context.Background(), "5", ""); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"per-monitor", "DP-1:5"}, f.script.lastCall()); diff != "" {
		t.Errorf("script call (-want +got):\n%s", diff)
	}
}

func TestSelectPerMonitorWithoutMonitors(t *testing.T) {
	f := newFixture(t, &state.State{Mode: state.ModePerMonitor})

	err := f.ctrl.SelectWallpaper(context.Background(), "1", "DP-1")
	if !errors.Is(err, ErrNoMonitors) {
		t.Fatalf("expected ErrNoMonitors, got %v", err)
	}
	if call := f.script.lastCall(); call != nil {
		t.Errorf("script should not be called, got %v", call)
	}
	if got := f.ctrl.Status(""); got != "Per-monitor mode: Select wallpaper for none" {
		t.Errorf("Status = %q", got)
	}
}

func TestSelectPerMonitorUnknownMonitor(t *testing.T) {
	f := newFixture(t, &state.State{Mode: state.ModePerMonitor}, "DP-1")

	if err := f.ctrl.SelectWallpaper(context.Background(), "1", "DP-9"); !errors.Is(err, ErrUnknownMonitor) {
		t.Errorf("expected ErrUnknownMonitor, got %v", err)
	}
}

func TestSelectFailureLeavesStateUntouched(t *testing.T) {
	tests := []struct {
		name    string
		initial state.State
		monitor string
		failOn  string
	}{
		{"clone", state.State{Mode: state.ModeClone}, "", "clone"},
		{"stretch", state.State{Mode: state.ModeStretch}, "", "stretch"},
		{"per-monitor", state.State{Mode: state.ModePerMonitor, MonitorSelections: map[string]string{"DP-1": "1"}}, "DP-2", "per-monitor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.initial.SetLastWallpaper("old")
			f := newFixture(t, &tt.initial, "DP-1", "DP-2")
			before := f.ctrl.State()
			f.script.failOn = tt.failOn

			if err := f.ctrl.SelectWallpaper(context.Background(), "new", tt.monitor); err == nil {
				t.Fatal("expected an error")
			}
			if diff := cmp.Diff(before, f.ctrl.State()); diff != "" {
				t.Errorf("in-memory state changed (-before +after):\n%s", diff)
			}
			if diff := cmp.Diff(before, f.persisted(t)); diff != "" {
				t.Errorf("persisted state changed (-before +after):\n%s", diff)
			}
		})
	}
}

// blockingScript holds every apply call until release is closed.
type blockingScript struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingScript) Run(_ context.Context, args ...string) (string, error) {
	if args[0] == "list-monitors" {
		return "DP-1\nDP-2\n", nil
	}
	b.started <- struct{}{}
	<-b.release
	return "", nil
}

func TestSetModeDuringApplyIsKept(t *testing.T) {
	tests := []struct {
		name     string
		initial  state.Mode
		switchTo state.Mode
		check    func(t *testing.T, st state.State)
	}{
		{"clone to stretch", state.ModeClone, state.ModeStretch, func(t *testing.T, st state.State) {
			if st.LastWallpaper() != "111" {
				t.Errorf("last wallpaper = %q, want 111", st.LastWallpaper())
			}
		}},
		{"per-monitor to clone", state.ModePerMonitor, state.ModeClone, func(t *testing.T, st state.State) {
			if diff := cmp.Diff(map[string]string{"DP-2": "111"}, st.MonitorSelections); diff != "" {
				t.Errorf("selections (-want +got):\n%s", diff)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := state.NewStore(filepath.Join(t.TempDir(), "state.json"), hclog.NewNullLogger())
			initial := state.Default()
			initial.Mode = tt.initial
			if err := store.Save(initial); err != nil {
				t.Fatal(err)
			}

			script := &blockingScript{started: make(chan struct{}, 1), release: make(chan struct{})}
			ctrl := New(Options{Store: store, Script: script})
			if err := ctrl.Init(context.Background()); err != nil {
				t.Fatal(err)
			}

			done := make(chan error, 1)
			go func() {
				done <- ctrl.SelectWallpaper(context.Background(), "111", "DP-2")
			}()

			<-script.started
			if err := ctrl.SetMode(tt.switchTo); err != nil {
				t.Fatal(err)
			}
			close(script.release)
			if err := <-done; err != nil {
				t.Fatalf("SelectWallpaper returned error: %v", err)
			}

			persisted, err := store.Load()
			if err != nil {
				t.Fatal(err)
			}
			if ctrl.Mode() != tt.switchTo || persisted.Mode != tt.switchTo {
				t.Errorf("mode = %q in memory, %q on disk, want %q", ctrl.Mode(), persisted.Mode, tt.switchTo)
			}
			tt.check(t, ctrl.State())
			tt.check(t, persisted)
		})
	}
}

func TestSetMode(t *testing.T) {
	f := newFixture(t, nil, "DP-1")

	if err := f.ctrl.SetMode(state.ModePerMonitor); err != nil {
		t.Fatal(err)
	}
	if f.persisted(t).Mode != state.ModePerMonitor {
		t.Errorf("mode was not persisted")
	}

	if err := f.ctrl.SetMode("mirror"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
	if f.ctrl.Mode() != state.ModePerMonitor {
		t.Errorf("invalid SetMode changed the mode to %q", f.ctrl.Mode())
	}
}

func TestStop(t *testing.T) {
	initial := state.Default()
	initial.SetLastWallpaper("12345")
	f := newFixture(t, &initial, "DP-1")

	out, err := f.ctrl.Stop(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if out != "ok" {
		t.Errorf("Stop output = %q", out)
	}
	if diff := cmp.Diff([]string{"stop"}, f.script.lastCall()); diff != "" {
		t.Errorf("script call (-want +got):\n%s", diff)
	}
	if f.persisted(t).LastWallpaperID != nil {
		t.Errorf("last_wallpaper_id should be cleared")
	}
	if got := f.ctrl.Status(""); got != "Clone mode: Select a wallpaper to apply to all monitors" {
		t.Errorf("Status = %q", got)
	}
}

func TestStopFailureKeepsLastWallpaper(t *testing.T) {
	initial := state.Default()
	initial.SetLastWallpaper("12345")
	f := newFixture(t, &initial, "DP-1")
	f.script.failOn = "stop"

	if _, err := f.ctrl.Stop(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
	if f.persisted(t).LastWallpaper() != "12345" {
		t.Errorf("failed stop should not clear the persisted wallpaper")
	}
}

func TestRestore(t *testing.T) {
	stretch := state.State{Mode: state.ModeStretch}
	stretch.SetLastWallpaper("9")

	tests := []struct {
		name     string
		initial  *state.State
		wantCall []string
		wantErr  error
	}{
		{"nothing in clone mode", nil, nil, ErrNothingToRestore},
		{"stretch", &stretch, []string{"stretch", "9"}, nil},
		{"per-monitor", &state.State{Mode: state.ModePerMonitor, MonitorSelections: map[string]string{"DP-2": "b", "DP-1": "a"}},
			[]string{"per-monitor", "DP-1:a", "DP-2:b"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.initial, "DP-1", "DP-2")

			err := f.ctrl.Restore(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Restore error = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.wantCall, f.script.lastCall()); diff != "" {
				t.Errorf("script call (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCommand(t *testing.T) {
	f := newFixture(t, &state.State{Mode: state.ModePerMonitor, MonitorSelections: map[string]string{"DP-2": "b"}}, "DP-1", "DP-2")

	got, err := f.ctrl.Command("a", "DP-1")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"/opt/hyprpaper-we.sh", "per-monitor", "DP-1:a", "DP-2:b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Command (-want +got):\n%s", diff)
	}
	// Command must not record anything
	if _, ok := f.ctrl.State().MonitorSelections["DP-1"]; ok {
		t.Errorf("Command mutated the selections")
	}
}

func TestToggleAutostartTwice(t *testing.T) {
	f := newFixture(t, nil)

	if f.ctrl.AutostartEnabled() {
		t.Fatal("autostart should start disabled")
	}
	if enabled, err := f.ctrl.ToggleAutostart(); err != nil || !enabled {
		t.Fatalf("first toggle = %v, %v", enabled, err)
	}
	if enabled, err := f.ctrl.ToggleAutostart(); err != nil || enabled {
		t.Fatalf("second toggle = %v, %v", enabled, err)
	}
	if f.ctrl.AutostartEnabled() {
		t.Error("autostart should be disabled after toggling twice")
	}
}
