package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"assetbridge/internal/api"
	"assetbridge/internal/daemonctl"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Bridge", statusError, "Not running", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Bridge:", "[ERROR] Not running")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Bridge", statusOK, "Running", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestDependencyLines(t *testing.T) {
	deps := []api.DependencyStatus{
		{Name: "xclip", Available: false},
		{Name: "wl-clipboard", Available: true, Command: "wl-copy"},
		{Name: "PowerShell", Available: false, Optional: true, Detail: "binary \"powershell\" not found"},
	}
	lines := dependencyLines(deps, daemonctl.BuildDependencySummary(deps), false)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[ERROR]") || !strings.Contains(lines[0], "Summary") {
		t.Fatalf("expected summary line first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR] not available") {
		t.Fatalf("expected error detail in second line, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "[OK] Ready (command: wl-copy)") {
		t.Fatalf("expected ready detail in third line, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "[WARN] binary") {
		t.Fatalf("expected warn detail in fourth line, got %q", lines[3])
	}
	if !strings.Contains(lines[4], "Missing dependencies:") {
		t.Fatalf("expected missing dependencies summary, got %q", lines[4])
	}
}

func TestStatusKindFromSeverity(t *testing.T) {
	tests := map[string]statusKind{
		"ok":    statusOK,
		"WARN":  statusWarn,
		"error": statusError,
		"info":  statusInfo,
		"":      statusInfo,
	}
	for input, want := range tests {
		if got := statusKindFromSeverity(input); got != want {
			t.Errorf("statusKindFromSeverity(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]column{{Header: "#", AlignRight: true}, {Header: "Status"}}, [][]string{{"1", "copied"}, {"2"}, {"3", "skipped", "extra"}})
	requireContains(t, out, "STATUS")
	requireContains(t, out, "copied")
	requireContains(t, out, "skipped")
	if strings.Contains(out, "extra") {
		t.Fatalf("expected cells past the last column to be dropped:\n%s", out)
	}
	if renderTable(nil, nil) != "" {
		t.Fatal("expected empty table for no headers")
	}
}
