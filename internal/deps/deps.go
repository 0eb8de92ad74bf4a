package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external helper binary the bridge can shell out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// Clipboard backend commands.
const (
	CommandOsascript  = "osascript"
	CommandXclip      = "xclip"
	CommandWlCopy     = "wl-copy"
	CommandPowerShell = "powershell"
)

var lookPath = exec.LookPath

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := lookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = resolved
		results = append(results, status)
	}
	return results
}

// ClipboardTools lists the clipboard helpers usable on goos, most preferred
// first. On Linux the Wayland tool leads when a Wayland session is active.
func ClipboardTools(goos string, wayland bool) []Requirement {
	switch goos {
	case "darwin":
		return []Requirement{{
			Name:        "AppleScript",
			Command:     CommandOsascript,
			Description: "Places file references on the macOS pasteboard",
		}}
	case "windows":
		return []Requirement{{
			Name:        "PowerShell",
			Command:     CommandPowerShell,
			Description: "Places a file drop list on the Windows clipboard",
		}}
	default:
		x11 := Requirement{
			Name:        "xclip",
			Command:     CommandXclip,
			Description: "Places a text/uri-list on the X11 clipboard",
			Optional:    wayland,
		}
		wl := Requirement{
			Name:        "wl-clipboard",
			Command:     CommandWlCopy,
			Description: "Places a text/uri-list on the Wayland clipboard",
			Optional:    !wayland,
		}
		if wayland {
			return []Requirement{wl, x11}
		}
		return []Requirement{x11, wl}
	}
}

// FirstAvailable returns the first available status, if any.
func FirstAvailable(statuses []Status) (Status, bool) {
	for _, status := range statuses {
		if status.Available {
			return status, true
		}
	}
	return Status{}, false
}
