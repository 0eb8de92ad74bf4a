package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Runner executes an external command, feeding stdin when non-nil, and
// returns its diagnostic output.
type Runner func(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error)

// ExecRunner runs commands with os/exec. Stdout is discarded because X11 and
// Wayland helpers fork a child that keeps serving the selection; WaitDelay
// stops Wait from blocking on pipes that child inherits.
func ExecRunner(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = 2 * time.Second
	err := cmd.Run()
	return stderr.Bytes(), err
}

// commandWriter drives one clipboard helper binary.
type commandWriter struct {
	name    string
	command string
	timeout time.Duration
	run     Runner
	args    func(paths []string) []string
	stdin   func(paths []string) string
}

func (w *commandWriter) Name() string { return w.name }

func (w *commandWriter) WriteFiles(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return errors.New("no files to place on clipboard")
	}
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	var stdin io.Reader
	if w.stdin != nil {
		stdin = strings.NewReader(w.stdin(paths))
	}
	output, err := w.run(ctx, w.command, w.args(paths), stdin)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s timed out after %s", w.command, w.timeout)
		}
		if detail := strings.TrimSpace(string(output)); detail != "" {
			return fmt.Errorf("%s: %w: %s", w.command, err, detail)
		}
		return fmt.Errorf("%s: %w", w.command, err)
	}
	return nil
}

// pasteboardScript writes NSURL file references so Finder and other Cocoa
// apps paste real files. Paths arrive as script arguments.
var pasteboardScript = []string{
	`use framework "AppKit"`,
	`on run argv`,
	`set pb to current application's NSPasteboard's generalPasteboard()`,
	`pb's clearContents()`,
	`set urls to current application's NSMutableArray's array()`,
	`repeat with p in argv`,
	`urls's addObject:(current application's NSURL's fileURLWithPath:(p as text))`,
	`end repeat`,
	`if not ((pb's writeObjects:urls) as boolean) then error "pasteboard rejected file list"`,
	`end run`,
}

func newOsascript(opts Options) Writer {
	return &commandWriter{
		name:    BackendOsascript,
		command: "osascript",
		timeout: opts.Timeout,
		run:     opts.Runner,
		args: func(paths []string) []string {
			args := make([]string, 0, len(pasteboardScript)*2+len(paths))
			for _, line := range pasteboardScript {
				args = append(args, "-e", line)
			}
			return append(args, paths...)
		},
	}
}

func newXclip(opts Options) Writer {
	return &commandWriter{
		name:    BackendXclip,
		command: "xclip",
		timeout: opts.Timeout,
		run:     opts.Runner,
		args: func([]string) []string {
			return []string{"-selection", "clipboard", "-t", "text/uri-list", "-i"}
		},
		stdin: URIList,
	}
}

func newWlCopy(opts Options) Writer {
	return &commandWriter{
		name:    BackendWlCopy,
		command: "wl-copy",
		timeout: opts.Timeout,
		run:     opts.Runner,
		args: func([]string) []string {
			return []string{"--type", "text/uri-list"}
		},
		stdin: URIList,
	}
}

const powerShellScript = `$reader = New-Object System.IO.StreamReader([Console]::OpenStandardInput(), [Text.Encoding]::UTF8)
$paths = @($reader.ReadToEnd() -split "` + "`" + `r?` + "`" + `n" | Where-Object { $_ -ne '' })
Set-Clipboard -LiteralPath $paths`

func newPowerShell(opts Options) Writer {
	return &commandWriter{
		name:    BackendPowerShell,
		command: "powershell",
		timeout: opts.Timeout,
		run:     opts.Runner,
		args: func([]string) []string {
			return []string{"-NoProfile", "-NonInteractive", "-Command", powerShellScript}
		},
		stdin: func(paths []string) string {
			native := make([]string, len(paths))
			for i, p := range paths {
				native[i] = filepath.FromSlash(p)
			}
			return strings.Join(native, "\r\n") + "\r\n"
		},
	}
}

// URIList renders paths as an RFC 2483 text/uri-list body.
func URIList(paths []string) string {
	var b strings.Builder
	for _, p := range paths {
		u := url.URL{Scheme: "file", Path: p}
		b.WriteString(u.String())
		b.WriteString("\r\n")
	}
	return b.String()
}
