package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"assetbridge/internal/api"
	"assetbridge/internal/logging"
	"assetbridge/internal/pathresolve"
	"assetbridge/internal/transfer"
)

// handleTransfer serves both copy endpoints; toDirectory selects the
// destination kind.
func (s *Server) handleTransfer(toDirectory bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if !isJSONContent(r.Header.Get("Content-Type")) {
			s.writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		// Batches have no upper duration; the response must still be delivered.
		if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
			s.log().Debug("clear write deadline failed", logging.Error(err))
		}
		s.active.Add(1)
		defer s.active.Add(-1)

		id := requestID(r)
		w.Header().Set(requestIDHeader, id)
		ctx := logging.WithRequestID(r.Context(), id)
		tracker := newPhaseTracker(ctx, s.logger)

		r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
		resp := s.runTransfer(tracker, r.Body, toDirectory)
		resp.RequestID = id

		tracker.enter(PhaseResponding)
		s.writeJSON(w, http.StatusOK, resp)
		tracker.enter(PhaseClosed)
	}
}

// runTransfer performs parse, resolve, and execute for one request. Panics
// are converted into a failed response so the caller always gets an answer.
func (s *Server) runTransfer(tracker *phaseTracker, body io.Reader, toDirectory bool) (resp api.BridgeResponse) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.ErrorWithContext(logging.WithContext(tracker.ctx, s.logger), "transfer panicked", "transfer_panic",
				logging.Any("panic", rec),
				logging.String("stack", string(debug.Stack())),
				logging.String(logging.FieldErrorHint, "report this crash with the request id"),
			)
			resp = api.BridgeResponse{Error: fmt.Sprintf("internal error: %v", rec)}
		}
	}()

	ctx := tracker.enter(PhaseParsing)
	logger := logging.WithContext(ctx, s.logger)

	req, err := decodeRequest(body)
	if err != nil {
		return s.structuralFailure(logger, err)
	}
	entries, legacyIgnored, err := req.Entries(s.maxPaths)
	if err != nil {
		return s.structuralFailure(logger, err)
	}
	if legacyIgnored {
		logging.WarnWithContext(logger, "request carried both filePaths and layers; using filePaths", "legacy_fields_ignored",
			logging.Int("layers", len(req.Layers)),
			logging.String(logging.FieldErrorHint, "send either filePaths or exportPath with layers"),
			logging.String(logging.FieldImpact, "layer entries were not transferred"),
		)
	}

	dest := transfer.Clipboard()
	if toDirectory {
		dest, err = s.directoryFor(req.Destination)
		if err != nil {
			return s.structuralFailure(logger, err)
		}
	}
	logger.Info("transfer requested",
		logging.Int("paths", len(entries)),
		logging.String(logging.FieldDestination, dest.String()),
	)

	tracker.enter(PhaseResolving)
	resolved := make([]pathresolve.ResolvedPath, len(entries))
	for i, entry := range entries {
		if entry.Base != "" {
			resolved[i] = s.resolver.ResolveIn(entry.Base, entry.Raw)
		} else {
			resolved[i] = s.resolver.Resolve(entry.Raw)
		}
	}

	ctx = tracker.enter(PhaseExecuting)
	report, err := s.executor.Execute(ctx, resolved, dest)
	payload := api.FromReport(report)
	resp = api.BridgeResponse{Success: err == nil, Report: &payload}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

func (s *Server) structuralFailure(logger *slog.Logger, err error) api.BridgeResponse {
	logging.WarnWithContext(logger, "request rejected", "request_rejected",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "fix the request body and retry"),
		logging.String(logging.FieldImpact, "no files were touched"),
	)
	return api.BridgeResponse{Error: err.Error()}
}

// directoryFor picks the request's destination or the configured default.
// The destination string accepts the same encodings as source paths.
func (s *Server) directoryFor(requested string) (transfer.Destination, error) {
	raw := strings.TrimSpace(requested)
	if raw == "" {
		raw = strings.TrimSpace(s.defaultDestination)
	}
	if raw == "" {
		return transfer.Destination{}, api.Structuralf("no destination: request omitted destination and no default_destination is configured")
	}
	resolved := s.resolver.Resolve(raw)
	if resolved.Exists && !resolved.IsDir {
		return transfer.Destination{}, api.Structuralf("destination %q is not a directory", resolved.Canonical)
	}
	return transfer.Directory(resolved.Canonical), nil
}

func decodeRequest(body io.Reader) (api.TransferRequest, error) {
	var req api.TransferRequest
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &tooLarge):
			return req, api.Structuralf("request body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return req, api.Structuralf("request body is empty")
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return req, api.Structuralf("invalid JSON: %v", err)
		case errors.As(err, &typeErr):
			return req, api.Structuralf("invalid JSON: field %q has the wrong type", typeErr.Field)
		default:
			return req, api.Structuralf("invalid request body: %v", err)
		}
	}
	return req, nil
}
