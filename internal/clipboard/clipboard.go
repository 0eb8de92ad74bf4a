package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"assetbridge/internal/deps"
)

// Backend names accepted by New.
const (
	BackendAuto       = "auto"
	BackendOsascript  = "osascript"
	BackendXclip      = "xclip"
	BackendWlCopy     = "wl-copy"
	BackendPowerShell = "powershell"
	BackendMemory     = "memory"
	BackendNone       = "none"
)

var (
	// ErrDisabled is returned by the "none" backend.
	ErrDisabled = errors.New("clipboard backend disabled")
	// ErrUnavailable is returned when no clipboard helper could be found.
	ErrUnavailable = errors.New("no clipboard tool available")
)

// Writer places a list of files on the clipboard, replacing its contents.
type Writer interface {
	WriteFiles(ctx context.Context, paths []string) error
	Name() string
}

// Options configures backend construction.
type Options struct {
	Timeout time.Duration
	Runner  Runner
	// GOOS and Wayland override platform detection; zero values use the
	// running system.
	GOOS    string
	Wayland *bool
}

func (o Options) goos() string {
	if o.GOOS != "" {
		return o.GOOS
	}
	return runtime.GOOS
}

func (o Options) wayland() bool {
	if o.Wayland != nil {
		return *o.Wayland
	}
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

// New constructs the named backend. The auto backend picks the first helper
// found on PATH for the current platform and degrades to a writer that
// reports ErrUnavailable when none is installed.
func New(backend string, opts Options) (Writer, error) {
	if opts.Runner == nil {
		opts.Runner = ExecRunner
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendAuto:
		return detect(opts), nil
	case BackendOsascript:
		return newOsascript(opts), nil
	case BackendXclip:
		return newXclip(opts), nil
	case BackendWlCopy:
		return newWlCopy(opts), nil
	case BackendPowerShell:
		return newPowerShell(opts), nil
	case BackendMemory:
		return NewMemory(), nil
	case BackendNone:
		return disabled{}, nil
	default:
		return nil, fmt.Errorf("clipboard backend: unsupported value %q", backend)
	}
}

func detect(opts Options) Writer {
	statuses := deps.CheckBinaries(deps.ClipboardTools(opts.goos(), opts.wayland()))
	found, ok := deps.FirstAvailable(statuses)
	if !ok {
		missing := make([]string, 0, len(statuses))
		for _, status := range statuses {
			missing = append(missing, status.Command)
		}
		return unavailable{detail: strings.Join(missing, ", ")}
	}
	switch found.Command {
	case deps.CommandOsascript:
		return newOsascript(opts)
	case deps.CommandPowerShell:
		return newPowerShell(opts)
	case deps.CommandWlCopy:
		return newWlCopy(opts)
	default:
		return newXclip(opts)
	}
}

type disabled struct{}

func (disabled) Name() string { return BackendNone }

func (disabled) WriteFiles(context.Context, []string) error { return ErrDisabled }

type unavailable struct {
	detail string
}

func (unavailable) Name() string { return "unavailable" }

func (u unavailable) WriteFiles(context.Context, []string) error {
	if u.detail == "" {
		return ErrUnavailable
	}
	return fmt.Errorf("%w (looked for %s)", ErrUnavailable, u.detail)
}
