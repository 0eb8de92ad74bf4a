package bridge

import (
	"net/http"

	"assetbridge/internal/api"
)

// handlePing is the liveness endpoint. It holds no locks and touches no
// shared state.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, api.PingResponse{
		Status:  "ok",
		Service: api.ServiceName,
		Version: s.version,
	})
}
