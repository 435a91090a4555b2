package components

import (
	"strings"
	"testing"
)

func TestHelpPanel_Progress(t *testing.T) {
	h := NewHelpPanel()
	if got := h.Progress(); got != "" {
		t.Errorf("Expected no progress without steps, got %q", got)
	}

	h.SetProgress([]string{"side", "lobe", "mm"}, "lobe")
	got := h.Progress()
	for _, want := range []string{"✓ side", "▸ lobe", "mm"} {
		if !strings.Contains(got, want) {
			t.Errorf("Progress() = %q, want it to contain %q", got, want)
		}
	}
	if strings.Contains(got, "✓ mm") || strings.Contains(got, "✓ lobe") {
		t.Errorf("Only earlier steps are done, got %q", got)
	}

	h.SetProgress([]string{"side"}, "mm")
	if strings.Contains(h.Progress(), "✓") || strings.Contains(h.Progress(), "▸") {
		t.Errorf("Expected every step to be pending, got %q", h.Progress())
	}
}

func TestHelpPanel_View(t *testing.T) {
	h := NewHelpPanel()
	h.SetField("unknown")
	if got := h.View(); got != "" {
		t.Errorf("Expected an empty panel for an unknown field, got %q", got)
	}

	h.SetField("side")
	if !strings.Contains(h.View(), "SIDE") {
		t.Errorf("Expected the side help, got %q", h.View())
	}

	h.SetField("")
	h.SetProgress([]string{"side", "mm"}, "mm")
	if !strings.Contains(h.View(), "▸ mm") {
		t.Errorf("Expected progress alone to render, got %q", h.View())
	}
}

func TestClipLines(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"a\nb\nc", 0, "a\nb\nc"},
		{"a\nb\nc", 3, "a\nb\nc"},
		{"a\nb\nc\nd", 3, "a\nb\n…"},
		{"a\nb", 1, "…"},
	}
	for _, tt := range tests {
		if got := clipLines(tt.in, tt.n); got != tt.want {
			t.Errorf("clipLines(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
