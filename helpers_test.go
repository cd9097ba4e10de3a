package main

import "testing"

func TestEscapeMarkup(t *testing.T) {
	got := escapeMarkup(`Rock & Roll <3 "live" 'mix'`)
	want := "Rock &amp; Roll &lt;3 &quot;live&quot; &apos;mix&apos;"
	if got != want {
		t.Errorf("escapeMarkup() = %q, want %q", got, want)
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"video":   "Video",
		"WEB":     "Web",
		"unknown": "Unknown",
		"élan":    "Élan",
	}
	for in, want := range tests {
		if got := capitalize(in); got != want {
			t.Errorf("capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestShellJoin(t *testing.T) {
	tests := []struct {
		argv []string
		want string
	}{
		{[]string{"/opt/hyprpaper-we.sh", "clone", "123"}, "/opt/hyprpaper-we.sh clone 123"},
		{[]string{"/opt/my scripts/run.sh", "per-monitor", "DP-1:1", "HDMI-A-1:2"}, "'/opt/my scripts/run.sh' per-monitor DP-1:1 HDMI-A-1:2"},
		{[]string{"echo", "it's", ""}, `echo 'it'\''s' ''`},
	}
	for _, tt := range tests {
		if got := shellJoin(tt.argv); got != tt.want {
			t.Errorf("shellJoin(%q) = %q, want %q", tt.argv, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Ocean Waves", 0, "Ocean Waves"},
		{"Ocean Waves", 20, "Ocean Waves"},
		{"Ocean Waves", 11, "Ocean Waves"},
		{"Ocean Waves", 8, "Ocean..."},
		{"Ocean Waves", 3, "Oce"},
		{"日本語のタイトル", 5, "日本..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
