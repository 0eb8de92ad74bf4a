package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

type kindStyle struct {
	label    string
	severity string
	color    string
}

var kindStyles = map[statusKind]kindStyle{
	statusInfo:  {label: "INFO", severity: "info", color: ansiBlue},
	statusOK:    {label: "OK", severity: "ok", color: ansiGreen},
	statusWarn:  {label: "WARN", severity: "warn", color: ansiYellow},
	statusError: {label: "ERROR", severity: "error", color: ansiRed},
}

func styleFor(kind statusKind) kindStyle {
	if style, ok := kindStyles[kind]; ok {
		return style
	}
	return kindStyles[statusInfo]
}

// renderStatusLine formats "  Label:   [KIND] message" with the label padded
// to a fixed width so sections line up.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := styleFor(kind)
	badge := "[" + style.label + "]"
	if message != "" {
		badge += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", badge)
	if !colorize {
		return line
	}
	return style.color + line + ansiReset
}

// statusKindFromSeverity maps the severity strings daemonctl produces.
func statusKindFromSeverity(severity string) statusKind {
	want := strings.ToLower(strings.TrimSpace(severity))
	for kind, style := range kindStyles {
		if style.severity == want {
			return kind
		}
	}
	return statusInfo
}

func renderSectionHeader(title string, colorize bool) []string {
	heading := "== " + strings.TrimSpace(title) + " =="
	rule := strings.Repeat("-", len(heading))
	if colorize {
		return []string{ansiBlue + heading + ansiReset, ansiBlue + rule + ansiReset}
	}
	return []string{heading, rule}
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
