package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"assetbridge/internal/config"
	"assetbridge/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := accessReadWrite(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDestination verifies that a copy destination is writable, or could
// be created because its nearest existing ancestor is writable.
func CheckDestination(name, path string) Result {
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	} else if !os.IsNotExist(err) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}

	ancestor := filepath.Dir(path)
	for {
		info, err := os.Stat(ancestor)
		if err == nil {
			if !info.IsDir() {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s is not a directory)", path, ancestor)}
			}
			if err := accessReadWrite(ancestor); err != nil {
				return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, ancestor, err)}
			}
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
		}
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing parent directory)", path)}
		}
		ancestor = parent
	}
}

// CheckReadable verifies that a directory exists and can be listed.
func CheckReadable(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := accessRead(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckClipboard reports whether the configured clipboard backend can run.
func CheckClipboard(cfg *config.Config) Result {
	const name = "Clipboard"
	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	backend := strings.ToLower(strings.TrimSpace(cfg.Clipboard.Backend))
	switch backend {
	case "none":
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	case "memory":
		return Result{Name: name, Passed: true, Detail: "In-memory (no system clipboard)"}
	}

	statuses := CheckClipboardDeps(cfg)
	if found, ok := deps.FirstAvailable(statuses); ok {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", found.Command, found.Path)}
	}
	missing := make([]string, 0, len(statuses))
	for _, status := range statuses {
		missing = append(missing, status.Command)
	}
	return Result{Name: name, Detail: fmt.Sprintf("no clipboard tool found (looked for %s)", strings.Join(missing, ", "))}
}

// CheckClipboardDeps evaluates the clipboard helpers relevant to cfg. An
// explicit backend checks only that tool; auto checks every candidate for
// the platform.
func CheckClipboardDeps(cfg *config.Config) []deps.Status {
	backend := ""
	if cfg != nil {
		backend = strings.ToLower(strings.TrimSpace(cfg.Clipboard.Backend))
	}
	candidates := deps.ClipboardTools(runtime.GOOS, os.Getenv("WAYLAND_DISPLAY") != "")
	switch backend {
	case "", "auto":
		return deps.CheckBinaries(candidates)
	case "none", "memory":
		return nil
	}
	for _, req := range candidates {
		if req.Command == backend {
			req.Optional = false
			return deps.CheckBinaries([]deps.Requirement{req})
		}
	}
	return deps.CheckBinaries([]deps.Requirement{{
		Name:        backend,
		Command:     backend,
		Description: "Configured clipboard helper",
	}})
}
