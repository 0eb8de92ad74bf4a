package transfer

import (
	"errors"
	"io/fs"

	"assetbridge/internal/fileutil"
)

// Reasons attached to failed outcomes.
const (
	ReasonSourceMissing    = "source not found"
	ReasonSourceDirectory  = "source is a directory"
	ReasonPermission       = "permission denied"
	ReasonDiskFull         = "disk full"
	ReasonPathTooLong      = "path too long"
	ReasonReadOnly         = "destination is read-only"
	ReasonClipboardFailure = "clipboard write failed"
)

// classify maps an I/O error to a short reason. Unknown errors are reported
// verbatim.
func classify(err error) string {
	if err == nil {
		return ""
	}
	for _, entry := range errnoReasons {
		if errors.Is(err, entry.errno) {
			return entry.reason
		}
	}
	switch {
	case errors.Is(err, fileutil.ErrIsDirectory):
		return ReasonSourceDirectory
	case errors.Is(err, fs.ErrPermission):
		return ReasonPermission
	case errors.Is(err, fs.ErrNotExist):
		return ReasonSourceMissing
	}
	return err.Error()
}

type errnoReason struct {
	errno  error
	reason string
}
