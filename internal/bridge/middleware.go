package bridge

import (
	"mime"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"assetbridge/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// requireLoopback rejects peers that are not on the local machine.
func (s *Server) requireLoopback(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isLoopbackPeer(r.RemoteAddr) {
			logging.WarnWithContext(s.log(), "rejected non-loopback peer", "peer_rejected",
				logging.String("remote_addr", r.RemoteAddr),
				logging.String("path", r.URL.Path),
				logging.String(logging.FieldErrorHint, "connect through 127.0.0.1 or ::1"),
				logging.String(logging.FieldImpact, "request refused with 403"),
			)
			s.writeError(w, http.StatusForbidden, "bridge only accepts loopback connections")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isLoopbackPeer(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(strings.Trim(host, "[]"))
	return ip != nil && ip.IsLoopback()
}

// cors enforces the configured browser origin and answers preflight
// requests. Callers that send no Origin header (CLI, native plugins) pass
// through; /ping stays reachable but is only labelled for allowed origins.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		allowed := origin != "" && s.originAllowed(origin)
		if origin != "" && !allowed && r.URL.Path != "/ping" {
			logging.WarnWithContext(s.log(), "rejected foreign origin", "origin_rejected",
				logging.String("origin", origin),
				logging.String("path", r.URL.Path),
				logging.String(logging.FieldErrorHint, "set server.cors_origin to the extension panel origin"),
				logging.String(logging.FieldImpact, "request refused with 403"),
			)
			s.writeError(w, http.StatusForbidden, "origin not allowed")
			return
		}

		header := w.Header()
		if allowed {
			header.Set("Access-Control-Allow-Origin", s.corsOrigin)
			header.Set("Access-Control-Expose-Headers", requestIDHeader)
			if s.corsOrigin != "*" {
				header.Add("Vary", "Origin")
			}
		}
		if r.Method == http.MethodOptions {
			header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			header.Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
			header.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	switch s.corsOrigin {
	case "":
		return false
	case "*":
		return true
	}
	return strings.EqualFold(strings.TrimRight(origin, "/"), strings.TrimRight(s.corsOrigin, "/"))
}

// isJSONContent reports whether a Content-Type header names application/json.
// Form and text/plain bodies are refused so a page cannot skip the CORS
// preflight with a "simple" request.
func isJSONContent(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

// requestID returns the caller's X-Request-ID when it is usable, otherwise
// a fresh UUID.
func requestID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(requestIDHeader)); validRequestID(id) {
		return id
	}
	return uuid.NewString()
}

func validRequestID(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	for _, c := range id {
		if c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}
