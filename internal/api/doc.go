// Package api defines the wire-format types exchanged with the bridge over
// loopback HTTP, plus converters from internal transfer results.
//
// # Key Types
//
// TransferRequest: body of POST /copy-to-clipboard and /copy-to-directory.
// Either filePaths or the older exportPath + layers shape names the files.
//
// BridgeResponse: envelope for every transfer answer. Structural failures
// carry error and no report; executed batches always carry the full report.
//
// PingResponse and StatusResponse: liveness and daemon status payloads.
//
// # Design Notes
//
// DTOs use camelCase JSON tags for the JavaScript panels that call the
// bridge. Outcome statuses are exposed as "Copied", "Skipped", "Failed".
// Timestamps use RFC3339 with milliseconds.
package api
