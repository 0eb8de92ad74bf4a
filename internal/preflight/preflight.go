package preflight

import (
	"strings"

	"assetbridge/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}

	if dest := strings.TrimSpace(cfg.Transfer.DefaultDestination); dest != "" {
		results = append(results, CheckDestination("Default destination", dest))
	}

	if root := strings.TrimSpace(cfg.Transfer.SourceRoot); root != "" {
		results = append(results, CheckReadable("Source root", root))
	}

	results = append(results, CheckClipboard(cfg))
	return results
}

// Failed returns the subset of results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}
