package api

import (
	"time"

	"assetbridge/internal/deps"
	"assetbridge/internal/transfer"
)

// FromReport converts an executor report to its wire form.
func FromReport(report transfer.Report) ReportPayload {
	payload := ReportPayload{
		SucceededCount: report.SucceededCount,
		FailedCount:    report.FailedCount,
		Outcomes:       make([]OutcomePayload, 0, len(report.Outcomes)),
	}
	for _, outcome := range report.Outcomes {
		payload.Outcomes = append(payload.Outcomes, FromOutcome(outcome))
	}
	return payload
}

// FromOutcome converts one outcome. The resolved path is reported only when
// the file was found.
func FromOutcome(outcome transfer.Outcome) OutcomePayload {
	dto := OutcomePayload{
		Path:            outcome.Path.Raw,
		Status:          string(outcome.Status),
		Reason:          outcome.Reason,
		DestinationPath: outcome.Destination,
	}
	if outcome.Path.Exists {
		dto.ResolvedPath = outcome.Path.Canonical
	}
	return dto
}

// FromDependencies converts helper availability checks.
func FromDependencies(statuses []deps.Status) []DependencyStatus {
	if len(statuses) == 0 {
		return nil
	}
	out := make([]DependencyStatus, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, DependencyStatus{
			Name:        status.Name,
			Command:     status.Command,
			Description: status.Description,
			Optional:    status.Optional,
			Available:   status.Available,
			Detail:      status.Detail,
		})
	}
	return out
}

// FormatTime renders t for API payloads; the zero time renders as "".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
