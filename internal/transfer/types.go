package transfer

import (
	"errors"
	"path/filepath"

	"assetbridge/internal/pathresolve"
)

// Status is the per-file result of a transfer.
type Status string

const (
	StatusCopied  Status = "Copied"
	StatusSkipped Status = "Skipped"
	StatusFailed  Status = "Failed"
)

// ErrNothingTransferred is returned when a batch produced no Copied outcome.
var ErrNothingTransferred = errors.New("no files were transferred")

// Outcome records what happened to one input path.
type Outcome struct {
	Path        pathresolve.ResolvedPath
	Status      Status
	Reason      string
	Destination string
}

// Report aggregates the outcomes of one batch in input order. Skipped
// outcomes count toward neither total.
type Report struct {
	Outcomes       []Outcome
	SucceededCount int
	FailedCount    int
}

func (r *Report) tally() {
	r.SucceededCount, r.FailedCount = 0, 0
	for _, outcome := range r.Outcomes {
		switch outcome.Status {
		case StatusCopied:
			r.SucceededCount++
		case StatusFailed:
			r.FailedCount++
		}
	}
}

type destinationKind int

const (
	kindClipboard destinationKind = iota + 1
	kindDirectory
)

// Destination selects where a batch is delivered.
type Destination struct {
	kind destinationKind
	dir  string
}

// Clipboard targets the system clipboard.
func Clipboard() Destination {
	return Destination{kind: kindClipboard}
}

// Directory targets a folder, created on demand.
func Directory(dir string) Destination {
	return Destination{kind: kindDirectory, dir: filepath.Clean(dir)}
}

// IsClipboard reports whether d targets the clipboard.
func (d Destination) IsClipboard() bool { return d.kind == kindClipboard }

// Dir returns the target directory, or "" for the clipboard.
func (d Destination) Dir() string { return d.dir }

// Key identifies the destination for DestinationLocks.
func (d Destination) Key() string {
	if d.kind == kindClipboard {
		return "clipboard"
	}
	return "dir:" + d.dir
}

func (d Destination) String() string {
	switch d.kind {
	case kindClipboard:
		return "clipboard"
	case kindDirectory:
		return d.dir
	default:
		return "unset"
	}
}
