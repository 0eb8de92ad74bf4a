package daemonctl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"assetbridge/internal/api"
	"assetbridge/internal/client"
	"assetbridge/internal/config"
	"assetbridge/internal/preflight"
)

// StatusLine is one labelled row of CLI status output.
type StatusLine struct {
	Label    string
	Severity string
	Detail   string
}

// DependencySummary aggregates helper binary availability.
type DependencySummary struct {
	Total           int
	Available       int
	MissingRequired int
	MissingOptional int
	Severity        string
	Detail          string
}

// StatusSnapshot combines live daemon status with offline checks.
type StatusSnapshot struct {
	Status            api.StatusResponse
	SystemChecks      []StatusLine
	PathChecks        []StatusLine
	DependencySummary DependencySummary
}

// BuildStatusSnapshot collects daemon status and falls back to local checks
// when the daemon is not reachable.
func BuildStatusSnapshot(ctx context.Context, c *client.Client, cfg *config.Config) (*StatusSnapshot, error) {
	if cfg == nil {
		return nil, errors.New("configuration not available")
	}

	snapshot := &StatusSnapshot{}
	if c != nil {
		status, err := c.Status(ctx)
		switch {
		case err == nil:
			snapshot.Status = *status
		case isDaemonUnavailable(err):
		default:
			return nil, err
		}
	}

	if !snapshot.Status.Running {
		snapshot.Status.LockPath = cfg.LockPath()
		snapshot.Status.DefaultDestination = cfg.Transfer.DefaultDestination
	}
	if len(snapshot.Status.Dependencies) == 0 {
		snapshot.Status.Dependencies = ResolveDependencies(cfg)
	}

	snapshot.SystemChecks = BuildSystemChecks(cfg, snapshot.Status)
	snapshot.PathChecks = BuildPathChecks(cfg)
	snapshot.DependencySummary = BuildDependencySummary(snapshot.Status.Dependencies)
	return snapshot, nil
}

// BuildSystemChecks resolves status lines that combine runtime state and config checks.
func BuildSystemChecks(cfg *config.Config, status api.StatusResponse) []StatusLine {
	lines := make([]StatusLine, 0, 4)
	if status.Running {
		lines = append(lines, StatusLine{Label: "Bridge", Severity: "ok", Detail: fmt.Sprintf("Running on %s (pid %d)", status.Address, status.PID)})
		if status.ActiveTransfers > 0 {
			lines = append(lines, StatusLine{Label: "Transfers", Severity: "info", Detail: fmt.Sprintf("%d in flight", status.ActiveTransfers)})
		} else {
			lines = append(lines, StatusLine{Label: "Transfers", Severity: "ok", Detail: "Idle"})
		}
	} else {
		lines = append(lines, StatusLine{Label: "Bridge", Severity: "warn", Detail: "Not running (run `assetbridge start`)"})
	}

	clip := preflight.CheckClipboard(cfg)
	switch {
	case clip.Passed && strings.EqualFold(clip.Detail, "Disabled"):
		lines = append(lines, StatusLine{Label: clip.Name, Severity: "info", Detail: clip.Detail})
	case clip.Passed:
		detail := clip.Detail
		if status.ClipboardBackend != "" {
			detail = fmt.Sprintf("%s via %s", status.ClipboardBackend, clip.Detail)
		}
		lines = append(lines, StatusLine{Label: clip.Name, Severity: "ok", Detail: detail})
	default:
		lines = append(lines, StatusLine{Label: clip.Name, Severity: "warn", Detail: clip.Detail})
	}

	return lines
}

// BuildPathChecks resolves configured directory readiness.
func BuildPathChecks(cfg *config.Config) []StatusLine {
	results := preflight.RunAll(cfg)
	lines := make([]StatusLine, 0, len(results))
	for _, result := range results {
		if result.Name == "Clipboard" {
			continue
		}
		severity := "error"
		if result.Passed {
			severity = "ok"
		}
		lines = append(lines, StatusLine{
			Label:    result.Name,
			Severity: severity,
			Detail:   result.Detail,
		})
	}
	return lines
}

// BuildDependencySummary computes aggregate dependency readiness.
func BuildDependencySummary(deps []api.DependencyStatus) DependencySummary {
	if len(deps) == 0 {
		return DependencySummary{
			Severity: "info",
			Detail:   "No dependency checks configured",
		}
	}

	missingRequired := 0
	missingOptional := 0
	for _, dep := range deps {
		if dep.Available {
			continue
		}
		if dep.Optional {
			missingOptional++
		} else {
			missingRequired++
		}
	}

	missingCount := missingRequired + missingOptional
	available := len(deps) - missingCount
	severity := "ok"
	if missingRequired > 0 {
		severity = "error"
	} else if missingOptional > 0 {
		severity = "warn"
	}
	detail := fmt.Sprintf("%d/%d available (missing: %d required, %d optional)", available, len(deps), missingRequired, missingOptional)
	if missingCount == 0 {
		detail = fmt.Sprintf("%d/%d available", available, len(deps))
	}

	return DependencySummary{
		Total:           len(deps),
		Available:       available,
		MissingRequired: missingRequired,
		MissingOptional: missingOptional,
		Severity:        severity,
		Detail:          detail,
	}
}
