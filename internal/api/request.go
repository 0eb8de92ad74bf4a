package api

import (
	"fmt"
	"strings"
)

// StructuralError rejects a request envelope before any path is resolved.
type StructuralError struct {
	Message string
}

func (e *StructuralError) Error() string { return e.Message }

// Structuralf builds a StructuralError from a format string.
func Structuralf(format string, args ...any) *StructuralError {
	return &StructuralError{Message: fmt.Sprintf(format, args...)}
}

// PathEntry is one caller path plus the directory it is relative to.
type PathEntry struct {
	Raw  string
	Base string
}

// Entries validates the request and flattens it into the paths to resolve.
// filePaths takes precedence over the layers shape; legacyIgnored reports
// that layers were present but unused.
func (r TransferRequest) Entries(maxPaths int) (entries []PathEntry, legacyIgnored bool, err error) {
	switch kind := strings.TrimSpace(r.Type); kind {
	case TypeCopyFiles:
	case "":
		return nil, false, Structuralf("type is required (expected %q)", TypeCopyFiles)
	default:
		return nil, false, Structuralf("unsupported request type %q", r.Type)
	}

	switch {
	case len(r.FilePaths) > 0:
		entries = make([]PathEntry, len(r.FilePaths))
		for i, raw := range r.FilePaths {
			entries[i] = PathEntry{Raw: raw}
		}
		legacyIgnored = len(r.Layers) > 0 || strings.TrimSpace(r.ExportPath) != ""
	case len(r.Layers) > 0:
		exportPath := strings.TrimSpace(r.ExportPath)
		if exportPath == "" {
			return nil, false, Structuralf("exportPath is required with layers")
		}
		entries = make([]PathEntry, len(r.Layers))
		for i, layer := range r.Layers {
			entries[i] = PathEntry{Raw: layer.FileName, Base: exportPath}
		}
	default:
		return nil, false, Structuralf("filePaths must contain at least one path")
	}

	if maxPaths > 0 && len(entries) > maxPaths {
		return nil, false, Structuralf("too many paths: %d (limit %d)", len(entries), maxPaths)
	}
	return entries, legacyIgnored, nil
}
