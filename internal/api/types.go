package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// TypeCopyFiles is the only request kind the bridge accepts.
const TypeCopyFiles = "copy_files"

// ServiceName identifies the bridge in ping responses.
const ServiceName = "assetbridge"

// TransferRequest asks the bridge to move a batch of files.
type TransferRequest struct {
	Type        string      `json:"type"`
	FilePaths   []string    `json:"filePaths,omitempty"`
	Timestamp   int64       `json:"timestamp,omitempty"`
	Destination string      `json:"destination,omitempty"`
	ExportPath  string      `json:"exportPath,omitempty"`
	Layers      []LayerFile `json:"layers,omitempty"`
}

// LayerFile names one exported layer in the exportPath + layers shape.
// FileName is usually percent-encoded and relative to ExportPath.
type LayerFile struct {
	Name     string `json:"name,omitempty"`
	FileName string `json:"fileName"`
}

// BridgeResponse is the envelope returned for every transfer request.
type BridgeResponse struct {
	Success   bool           `json:"success"`
	RequestID string         `json:"requestId,omitempty"`
	Report    *ReportPayload `json:"report,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// ReportPayload summarizes one executed batch.
type ReportPayload struct {
	SucceededCount int              `json:"succeededCount"`
	FailedCount    int              `json:"failedCount"`
	Outcomes       []OutcomePayload `json:"outcomes"`
}

// OutcomePayload reports the result for one requested path.
type OutcomePayload struct {
	Path            string `json:"path"`
	Status          string `json:"status"`
	Reason          string `json:"reason,omitempty"`
	ResolvedPath    string `json:"resolvedPath,omitempty"`
	DestinationPath string `json:"destinationPath,omitempty"`
}

// PingResponse is the liveness payload.
type PingResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// DependencyStatus captures availability of an external helper binary.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// StatusResponse aggregates daemon runtime information.
type StatusResponse struct {
	Running            bool               `json:"running"`
	PID                int                `json:"pid"`
	Address            string             `json:"address"`
	LockPath           string             `json:"lockPath"`
	ClipboardBackend   string             `json:"clipboardBackend"`
	DefaultDestination string             `json:"defaultDestination,omitempty"`
	Version            string             `json:"version"`
	StartedAt          string             `json:"startedAt,omitempty"`
	ActiveTransfers    int                `json:"activeTransfers"`
	Dependencies       []DependencyStatus `json:"dependencies,omitempty"`
}
