package bridge_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"assetbridge/internal/api"
	"assetbridge/internal/bridge"
	"assetbridge/internal/clipboard"
	"assetbridge/internal/pathresolve"
	"assetbridge/internal/testsupport"
	"assetbridge/internal/transfer"
)

type testBridge struct {
	url       string
	clipboard clipboard.Writer
	dest      string
}

func newTestBridge(t *testing.T, cb clipboard.Writer, mutate func(*bridge.Options)) testBridge {
	t.Helper()
	if cb == nil {
		cb = clipboard.NewMemory()
	}
	dest := filepath.Join(t.TempDir(), "dest")
	opts := bridge.Options{
		Host:               "127.0.0.1",
		LoopbackOnly:       true,
		CORSOrigin:         "*",
		MaxBodyBytes:       1 << 20,
		MaxPaths:           1000,
		DefaultDestination: dest,
		Version:            "test",
		Resolver:           pathresolve.New(""),
		Executor:           transfer.NewExecutor(transfer.Options{Clipboard: cb}),
	}
	if mutate != nil {
		mutate(&opts)
	}
	srv, err := bridge.New(opts)
	if err != nil {
		t.Fatalf("bridge.New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return testBridge{url: ts.URL, clipboard: cb, dest: dest}
}

func postJSON(t *testing.T, url string, body any) (*http.Response, api.BridgeResponse) {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	resp, err := http.Post(url, "application/json", reader)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	var decoded api.BridgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func TestPing(t *testing.T) {
	tb := newTestBridge(t, nil, nil)
	resp, err := http.Get(tb.url + "/ping")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var ping api.PingResponse
	if err := json.NewDecoder(resp.Body).Decode(&ping); err != nil {
		t.Fatal(err)
	}
	if ping.Status != "ok" || ping.Service != "assetbridge" || ping.Version != "test" {
		t.Fatalf("unexpected ping %+v", ping)
	}
}

func TestCopyToDirectoryEncodedUnicodeName(t *testing.T) {
	tb := newTestBridge(t, nil, nil)
	src := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(src, "耳朵1.png"), 2048)

	raw := filepath.ToSlash(src) + "/%E8%80%B3%E6%9C%B51.png"
	httpResp, resp := postJSON(t, tb.url+"/copy-to-directory", api.TransferRequest{
		Type:      api.TypeCopyFiles,
		FilePaths: []string{raw},
		Timestamp: time.Now().UnixMilli(),
	})
	if httpResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", httpResp.StatusCode)
	}
	if !resp.Success || resp.Report == nil {
		t.Fatalf("expected success, got %+v", resp)
	}
	outcome := resp.Report.Outcomes[0]
	if outcome.Status != "Copied" || outcome.Path != raw {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if filepath.Base(outcome.DestinationPath) != "耳朵1.png" {
		t.Fatalf("destination = %q", outcome.DestinationPath)
	}
	if _, err := os.Stat(filepath.Join(tb.dest, "耳朵1.png")); err != nil {
		t.Fatalf("expected copied file: %v", err)
	}
	if resp.RequestID == "" || httpResp.Header.Get("X-Request-ID") != resp.RequestID {
		t.Fatalf("request id not propagated: body %q header %q", resp.RequestID, httpResp.Header.Get("X-Request-ID"))
	}
}

func TestCopyToDirectoryPartialFailure(t *testing.T) {
	tb := newTestBridge(t, nil, nil)
	src := t.TempDir()
	present := filepath.Join(src, "a.png")
	testsupport.WriteFile(t, present, 512)

	_, resp := postJSON(t, tb.url+"/copy-to-directory", api.TransferRequest{
		Type:      api.TypeCopyFiles,
		FilePaths: []string{present, filepath.Join(src, "missing.png")},
	})
	if !resp.Success {
		t.Fatalf("expected overall success, got %+v", resp)
	}
	if resp.Report.SucceededCount != 1 || resp.Report.FailedCount != 1 {
		t.Fatalf("unexpected counts %+v", resp.Report)
	}
	if resp.Report.Outcomes[1].Reason != pathresolve.ReasonFileMissing {
		t.Fatalf("reason = %q", resp.Report.Outcomes[1].Reason)
	}
	want, _ := os.ReadFile(present)
	got, err := os.ReadFile(resp.Report.Outcomes[0].DestinationPath)
	if err != nil || !bytes.Equal(want, got) {
		t.Fatalf("copied bytes differ (err=%v)", err)
	}
}

func TestCopyToDirectoryExplicitDestination(t *testing.T) {
	tb := newTestBridge(t, nil, nil)
	src := filepath.Join(t.TempDir(), "a.png")
	testsupport.WriteFile(t, src, 16)
	dest := filepath.Join(t.TempDir(), "custom dir")

	_, resp := postJSON(t, tb.url+"/copy-to-directory", map[string]any{
		"type":        "copy_files",
		"filePaths":   []string{src},
		"destination": pathresolve.EncodePath(filepath.ToSlash(dest)),
	})
	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}
	if _, err := os.Stat(filepath.Join(dest, "a.png")); err != nil {
		t.Fatalf("expected file in explicit destination: %v", err)
	}
}

func TestCopyToDirectoryLegacyLayers(t *testing.T) {
	tb := newTestBridge(t, nil, nil)
	exportDir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(exportDir, "背景 1.png"), 64)

	_, resp := postJSON(t, tb.url+"/copy-to-directory", api.TransferRequest{
		Type:       api.TypeCopyFiles,
		ExportPath: exportDir,
		Layers:     []api.LayerFile{{Name: "背景", FileName: pathresolve.EncodePath("背景 1.png")}},
	})
	if !resp.Success || resp.Report.SucceededCount != 1 {
		t.Fatalf("expected legacy request to succeed, got %+v", resp)
	}
}

func TestCopyToClipboard(t *testing.T) {
	mem := clipboard.NewMemory()
	tb := newTestBridge(t, mem, nil)
	src := t.TempDir()
	paths := testsupport.WriteFiles(t, src, 3, 32)

	_, resp := postJSON(t, tb.url+"/copy-to-clipboard", api.TransferRequest{Type: api.TypeCopyFiles, FilePaths: paths})
	if !resp.Success || resp.Report.SucceededCount != 3 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if got := mem.Contents(); len(got) != 3 || got[2] != filepath.ToSlash(paths[2]) {
		t.Fatalf("clipboard contents = %v", got)
	}
}

func TestCopyToClipboardNothingExists(t *testing.T) {
	mem := clipboard.NewMemory()
	tb := newTestBridge(t, mem, nil)
	missing := filepath.Join(t.TempDir(), "gone.png")

	_, resp := postJSON(t, tb.url+"/copy-to-clipboard", api.TransferRequest{Type: api.TypeCopyFiles, FilePaths: []string{missing}})
	if resp.Success {
		t.Fatal("expected failure when no file exists")
	}
	if resp.Report == nil || resp.Report.FailedCount != 1 {
		t.Fatalf("expected report with one failure, got %+v", resp.Report)
	}
	if mem.Writes() != 0 {
		t.Fatal("clipboard must not be written")
	}
}

func TestStructuralErrors(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		body     string
		mutate   func(*bridge.Options)
		want     string
	}{
		{name: "bad json", endpoint: "/copy-to-clipboard", body: `{"type":`, want: "invalid JSON"},
		{name: "wrong field type", endpoint: "/copy-to-clipboard", body: `{"filePaths":"nope"}`, want: "wrong type"},
		{name: "empty body", endpoint: "/copy-to-clipboard", body: ``, want: "empty"},
		{name: "missing type", endpoint: "/copy-to-directory", body: `{"filePaths":["/a"]}`, want: "type is required"},
		{name: "wrong type", endpoint: "/copy-to-directory", body: `{"type":"move_files","filePaths":["/a"]}`, want: "unsupported request type"},
		{name: "no paths", endpoint: "/copy-to-directory", body: `{"type":"copy_files","filePaths":[]}`, want: "at least one path"},
		{
			name:     "too many paths",
			endpoint: "/copy-to-directory",
			body:     `{"type":"copy_files","filePaths":["/a","/b","/c"]}`,
			mutate:   func(o *bridge.Options) { o.MaxPaths = 2 },
			want:     "too many paths",
		},
		{
			name:     "body too large",
			endpoint: "/copy-to-directory",
			body:     `{"type":"copy_files","filePaths":["` + strings.Repeat("x", 200) + `"]}`,
			mutate:   func(o *bridge.Options) { o.MaxBodyBytes = 64 },
			want:     "exceeds 64 bytes",
		},
		{
			name:     "no destination",
			endpoint: "/copy-to-directory",
			body:     `{"type":"copy_files","filePaths":["/a"]}`,
			mutate:   func(o *bridge.Options) { o.DefaultDestination = "" },
			want:     "no destination",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := newTestBridge(t, nil, tt.mutate)
			httpResp, resp := postJSON(t, tb.url+tt.endpoint, tt.body)
			if httpResp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", httpResp.StatusCode)
			}
			if resp.Success || resp.Report != nil {
				t.Fatalf("expected structural failure without report, got %+v", resp)
			}
			if !strings.Contains(resp.Error, tt.want) {
				t.Fatalf("error %q does not mention %q", resp.Error, tt.want)
			}
			if _, err := os.Stat(tb.dest); !os.IsNotExist(err) {
				t.Fatalf("destination should not be created on structural failure (err=%v)", err)
			}
		})
	}
}

func TestTransportErrors(t *testing.T) {
	tb := newTestBridge(t, nil, nil)

	resp, err := http.Get(tb.url + "/copy-to-clipboard")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET copy endpoint status = %d", resp.StatusCode)
	}

	resp, err = http.Get(tb.url + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown route status = %d", resp.StatusCode)
	}
}

func TestRejectsNonLoopbackPeer(t *testing.T) {
	srv, err := bridge.New(bridge.Options{
		LoopbackOnly: true,
		Executor:     transfer.NewExecutor(transfer.Options{}),
	})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "192.0.2.10:4567"
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "[::1]:4567"
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected IPv6 loopback to be accepted, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	tb := newTestBridge(t, nil, func(o *bridge.Options) { o.CORSOrigin = "app://panel" })
	req, _ := http.NewRequest(http.MethodOptions, tb.url+"/copy-to-clipboard", nil)
	req.Header.Set("Origin", "app://panel")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "app://panel" {
		t.Fatalf("allow origin = %q", got)
	}
	if !strings.Contains(resp.Header.Get("Access-Control-Allow-Methods"), "POST") {
		t.Fatalf("allow methods = %q", resp.Header.Get("Access-Control-Allow-Methods"))
	}
}

func postWithHeaders(t *testing.T, url string, body []byte, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestForeignOriginCannotTransfer(t *testing.T) {
	tests := []struct {
		name       string
		corsOrigin string
	}{
		{name: "no origin configured", corsOrigin: ""},
		{name: "panel origin configured", corsOrigin: "app://panel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := newTestBridge(t, nil, func(o *bridge.Options) { o.CORSOrigin = tt.corsOrigin })
			src := filepath.Join(t.TempDir(), "secret.txt")
			testsupport.WriteFile(t, src, 16)
			stolen := filepath.Join(t.TempDir(), "stolen")
			body, _ := json.Marshal(api.TransferRequest{Type: api.TypeCopyFiles, FilePaths: []string{src}, Destination: stolen})

			resp := postWithHeaders(t, tb.url+"/copy-to-directory", body, map[string]string{
				"Content-Type": "application/json",
				"Origin":       "https://evil.example",
			})
			if resp.StatusCode != http.StatusForbidden {
				t.Fatalf("status = %d, want 403", resp.StatusCode)
			}
			if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
				t.Fatalf("foreign origin got allow-origin %q", got)
			}
			if _, err := os.Stat(stolen); !os.IsNotExist(err) {
				t.Fatalf("destination must not be created for a foreign origin (err=%v)", err)
			}
		})
	}
}

func TestAllowedOriginCanTransfer(t *testing.T) {
	tb := newTestBridge(t, nil, func(o *bridge.Options) { o.CORSOrigin = "app://panel" })
	src := filepath.Join(t.TempDir(), "layer.png")
	testsupport.WriteFile(t, src, 16)
	body, _ := json.Marshal(api.TransferRequest{Type: api.TypeCopyFiles, FilePaths: []string{src}})

	resp := postWithHeaders(t, tb.url+"/copy-to-directory", body, map[string]string{
		"Content-Type": "application/json; charset=utf-8",
		"Origin":       "app://panel",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "app://panel" {
		t.Fatalf("allow origin = %q", got)
	}
	var decoded api.BridgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatal(err)
	}
	if !decoded.Success {
		t.Fatalf("expected success, got %+v", decoded)
	}
}

func TestTransferRequiresJSONContentType(t *testing.T) {
	tb := newTestBridge(t, nil, nil)
	src := filepath.Join(t.TempDir(), "secret.txt")
	testsupport.WriteFile(t, src, 16)
	body, _ := json.Marshal(api.TransferRequest{Type: api.TypeCopyFiles, FilePaths: []string{src}})

	for _, contentType := range []string{"text/plain", "application/x-www-form-urlencoded", ""} {
		resp := postWithHeaders(t, tb.url+"/copy-to-directory", body, map[string]string{"Content-Type": contentType})
		if resp.StatusCode != http.StatusUnsupportedMediaType {
			t.Fatalf("Content-Type %q: status = %d, want 415", contentType, resp.StatusCode)
		}
	}
	if _, err := os.Stat(tb.dest); !os.IsNotExist(err) {
		t.Fatalf("destination must not be created for non-JSON bodies (err=%v)", err)
	}
}

func TestPingIgnoresOriginButHidesItFromForeignPages(t *testing.T) {
	tb := newTestBridge(t, nil, func(o *bridge.Options) { o.CORSOrigin = "" })
	req, _ := http.NewRequest(http.MethodGet, tb.url+"/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("allow origin = %q, want none", got)
	}
}

func TestRequestIDHeaderHonoured(t *testing.T) {
	tb := newTestBridge(t, nil, nil)
	src := filepath.Join(t.TempDir(), "a.png")
	testsupport.WriteFile(t, src, 8)

	body, _ := json.Marshal(api.TransferRequest{Type: api.TypeCopyFiles, FilePaths: []string{src}})
	req, _ := http.NewRequest(http.MethodPost, tb.url+"/copy-to-clipboard", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "panel-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var decoded api.BridgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.RequestID != "panel-42" {
		t.Fatalf("request id = %q", decoded.RequestID)
	}
}

// gatedClipboard blocks every write until release is closed.
type gatedClipboard struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedClipboard) Name() string { return "gated" }

func (g *gatedClipboard) WriteFiles(ctx context.Context, paths []string) error {
	g.once.Do(func() { close(g.started) })
	<-g.release
	return nil
}

func TestPingRespondsDuringLargeTransfer(t *testing.T) {
	gate := &gatedClipboard{started: make(chan struct{}), release: make(chan struct{})}
	tb := newTestBridge(t, gate, nil)
	paths := testsupport.WriteFiles(t, t.TempDir(), 500, 16)

	done := make(chan api.BridgeResponse, 1)
	go func() {
		body, _ := json.Marshal(api.TransferRequest{Type: api.TypeCopyFiles, FilePaths: paths})
		resp, err := http.Post(tb.url+"/copy-to-clipboard", "application/json", bytes.NewReader(body))
		if err != nil {
			done <- api.BridgeResponse{Error: err.Error()}
			return
		}
		defer resp.Body.Close()
		var decoded api.BridgeResponse
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
		done <- decoded
	}()

	select {
	case <-gate.started:
	case <-time.After(5 * time.Second):
		t.Fatal("transfer never reached the clipboard")
	}

	client := &http.Client{Timeout: time.Second}
	start := time.Now()
	resp, err := client.Get(tb.url + "/ping")
	if err != nil {
		t.Fatalf("ping during transfer: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ping status = %d", resp.StatusCode)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("ping took %s", elapsed)
	}

	close(gate.release)
	select {
	case result := <-done:
		if !result.Success || result.Report.SucceededCount != 500 {
			t.Fatalf("unexpected transfer result: success=%v error=%q", result.Success, result.Error)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("transfer did not finish")
	}
}

type panickingClipboard struct{}

func (panickingClipboard) Name() string { return "panicking" }

func (panickingClipboard) WriteFiles(context.Context, []string) error {
	panic("pasteboard exploded")
}

func TestPanicBecomesFailedResponse(t *testing.T) {
	tb := newTestBridge(t, panickingClipboard{}, nil)
	src := filepath.Join(t.TempDir(), "a.png")
	testsupport.WriteFile(t, src, 8)

	httpResp, resp := postJSON(t, tb.url+"/copy-to-clipboard", api.TransferRequest{Type: api.TypeCopyFiles, FilePaths: []string{src}})
	if httpResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", httpResp.StatusCode)
	}
	if resp.Success || !strings.HasPrefix(resp.Error, "internal error: ") {
		t.Fatalf("unexpected response %+v", resp)
	}

	// The destination lock must have been released by the panic.
	_, again := postJSON(t, tb.url+"/copy-to-directory", api.TransferRequest{Type: api.TypeCopyFiles, FilePaths: []string{src}})
	if !again.Success {
		t.Fatalf("follow-up request failed: %+v", again)
	}
}

func TestStatusEndpoint(t *testing.T) {
	tb := newTestBridge(t, nil, func(o *bridge.Options) {
		o.Status = func(context.Context) api.StatusResponse {
			return api.StatusResponse{Running: true, PID: 1234, LockPath: "/tmp/assetbridge.lock"}
		}
	})
	resp, err := http.Get(tb.url + "/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var status api.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if !status.Running || status.PID != 1234 || status.ClipboardBackend != "memory" || status.Version != "test" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestStartServesOnEphemeralPort(t *testing.T) {
	srv, err := bridge.New(bridge.Options{
		Host:         "127.0.0.1",
		Port:         0,
		LoopbackOnly: true,
		Executor:     transfer.NewExecutor(transfer.Options{}),
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop()

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", srv.Addr()))
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if err := srv.Start(ctx); err == nil {
		t.Fatal("expected second Start to fail")
	}
}

// slowClipboard takes longer than the server write timeout.
type slowClipboard struct{ delay time.Duration }

func (slowClipboard) Name() string { return "slow" }

func (c slowClipboard) WriteFiles(ctx context.Context, paths []string) error {
	time.Sleep(c.delay)
	return nil
}

func TestSlowTransferOutlivesWriteTimeout(t *testing.T) {
	srv, err := bridge.New(bridge.Options{
		Host:         "127.0.0.1",
		Port:         0,
		LoopbackOnly: true,
		WriteTimeout: 100 * time.Millisecond,
		Executor:     transfer.NewExecutor(transfer.Options{Clipboard: slowClipboard{delay: 400 * time.Millisecond}}),
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop()

	src := filepath.Join(t.TempDir(), "layer.png")
	testsupport.WriteFile(t, src, 16)
	_, resp := postJSON(t, fmt.Sprintf("http://%s/copy-to-clipboard", srv.Addr()), api.TransferRequest{
		Type:      api.TypeCopyFiles,
		FilePaths: []string{src},
	})
	if !resp.Success || resp.Report == nil || resp.Report.SucceededCount != 1 {
		t.Fatalf("expected the slow transfer to be answered, got %+v", resp)
	}
}
