package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"assetbridge/internal/clipboard"
	"assetbridge/internal/fileutil"
	"assetbridge/internal/logging"
	"assetbridge/internal/pathresolve"
)

// Options configures an Executor.
type Options struct {
	Clipboard    clipboard.Writer
	Locks        *DestinationLocks
	Logger       *slog.Logger
	VerifyCopies bool
}

// Executor performs the data movement for resolved paths.
type Executor struct {
	clipboard clipboard.Writer
	locks     *DestinationLocks
	logger    *slog.Logger
	verify    bool
}

// NewExecutor constructs an Executor. A nil clipboard writer disables the
// clipboard destination; nil locks get a private lock table.
func NewExecutor(opts Options) *Executor {
	locks := opts.Locks
	if locks == nil {
		locks = NewDestinationLocks()
	}
	cb := opts.Clipboard
	if cb == nil {
		cb, _ = clipboard.New(clipboard.BackendNone, clipboard.Options{})
	}
	return &Executor{
		clipboard: cb,
		locks:     locks,
		logger:    logging.NewComponentLogger(opts.Logger, "transfer"),
		verify:    opts.VerifyCopies,
	}
}

// ClipboardBackend names the clipboard writer in use.
func (e *Executor) ClipboardBackend() string {
	return e.clipboard.Name()
}

// Execute transfers resolved to dest. The returned report always holds one
// outcome per input, in input order. The error is non-nil only when the batch
// as a whole failed: nothing was copied, or the clipboard write was rejected.
// ctx supplies log fields; a started batch is not interrupted by it.
func (e *Executor) Execute(ctx context.Context, resolved []pathresolve.ResolvedPath, dest Destination) (Report, error) {
	logger := logging.WithContext(ctx, e.logger).With(logging.String(logging.FieldDestination, dest.String()))
	started := time.Now()

	unlock := e.locks.Lock(dest.Key())
	defer unlock()

	report := Report{Outcomes: make([]Outcome, len(resolved))}
	pending := e.screen(resolved, report.Outcomes)

	var err error
	if dest.IsClipboard() {
		err = e.toClipboard(ctx, report.Outcomes, pending)
	} else {
		e.toDirectory(logger, dest.Dir(), report.Outcomes, pending)
	}
	report.tally()

	if err == nil && report.SucceededCount == 0 {
		err = ErrNothingTransferred
	}

	for _, outcome := range report.Outcomes {
		if outcome.Status != StatusFailed {
			continue
		}
		logger.Debug("file not transferred",
			logging.String("path", outcome.Path.Raw),
			logging.String("reason", outcome.Reason),
		)
	}
	attrs := []logging.Attr{
		logging.Int("requested", len(resolved)),
		logging.Int("succeeded", report.SucceededCount),
		logging.Int("failed", report.FailedCount),
		logging.Duration("elapsed", time.Since(started)),
	}
	switch {
	case err != nil:
		logging.WarnWithContext(logger, "transfer failed", "transfer_failed", append(attrs,
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect per-file reasons in the response report"),
			logging.String(logging.FieldImpact, "caller received success=false"),
		)...)
	case report.FailedCount > 0:
		logging.WarnWithContext(logger, "transfer partially completed", "transfer_partial", append(attrs,
			logging.String(logging.FieldErrorHint, "inspect per-file reasons in the response report"),
			logging.String(logging.FieldImpact, "some files were not transferred"),
		)...)
	default:
		logger.Info("transfer completed", logging.Args(attrs...)...)
	}
	return report, err
}

// screen fills outcomes for inputs that cannot be transferred and returns
// the indexes still to process.
func (e *Executor) screen(resolved []pathresolve.ResolvedPath, outcomes []Outcome) []int {
	pending := make([]int, 0, len(resolved))
	firstSeen := make(map[string]int, len(resolved))
	for i, rp := range resolved {
		outcomes[i] = Outcome{Path: rp}
		switch {
		case !rp.Exists:
			outcomes[i].Status = StatusFailed
			outcomes[i].Reason = missingReason(rp)
		case rp.IsDir:
			outcomes[i].Status = StatusFailed
			outcomes[i].Reason = ReasonSourceDirectory
		default:
			if first, dup := firstSeen[rp.Canonical]; dup {
				outcomes[i].Status = StatusSkipped
				outcomes[i].Reason = fmt.Sprintf("duplicate of entry %d", first+1)
				continue
			}
			firstSeen[rp.Canonical] = i
			pending = append(pending, i)
		}
	}
	return pending
}

func missingReason(rp pathresolve.ResolvedPath) string {
	if reason := strings.TrimSpace(rp.Reason); reason != "" {
		return reason
	}
	return ReasonSourceMissing
}

func (e *Executor) toClipboard(ctx context.Context, outcomes []Outcome, pending []int) error {
	if len(pending) == 0 {
		return ErrNothingTransferred
	}
	paths := make([]string, len(pending))
	for i, idx := range pending {
		paths[i] = outcomes[idx].Path.Canonical
	}
	if err := e.clipboard.WriteFiles(ctx, paths); err != nil {
		for _, idx := range pending {
			outcomes[idx].Status = StatusFailed
			outcomes[idx].Reason = fmt.Sprintf("%s: %v", ReasonClipboardFailure, err)
		}
		return fmt.Errorf("%s via %s: %w", ReasonClipboardFailure, e.clipboard.Name(), err)
	}
	for _, idx := range pending {
		outcomes[idx].Status = StatusCopied
	}
	return nil
}

func (e *Executor) toDirectory(logger *slog.Logger, dir string, outcomes []Outcome, pending []int) {
	if len(pending) == 0 {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		reason := classify(err)
		logging.WarnWithContext(logger, "destination directory unavailable", "destination_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the destination path and its permissions"),
			logging.String(logging.FieldImpact, "no files were copied"),
		)
		for _, idx := range pending {
			outcomes[idx].Status = StatusFailed
			outcomes[idx].Reason = reason
		}
		return
	}
	for _, idx := range pending {
		written, err := fileutil.CopyInto(outcomes[idx].Path.Canonical, dir, fileutil.CopyOptions{Verify: e.verify})
		if err != nil {
			outcomes[idx].Status = StatusFailed
			outcomes[idx].Reason = classify(err)
			continue
		}
		outcomes[idx].Status = StatusCopied
		outcomes[idx].Destination = written
		logger.Debug("file copied",
			logging.String("source", outcomes[idx].Path.Canonical),
			logging.String("written", written),
		)
	}
}
