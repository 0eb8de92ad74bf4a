package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"assetbridge/internal/clipboard"
	"assetbridge/internal/config"
	"assetbridge/internal/daemon"
	"assetbridge/internal/logging"
	"assetbridge/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	daemon     *daemon.Daemon
	clipboard  *clipboard.Memory
	configPath string
	baseDir    string
}

// setupCLITestEnv runs an in-process daemon on an ephemeral port and writes
// a config file pointing the CLI at it.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	memory := clipboard.NewMemory()
	d, err := daemon.New(cfg, logging.NewNop(), daemon.Options{Version: "test", Clipboard: memory})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	_, portText, err := net.SplitHostPort(d.Addr())
	if err != nil {
		t.Fatalf("split addr %q: %v", d.Addr(), err)
	}
	port, err := strconv.Atoi(portText)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	cfg.Server.Port = port

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		daemon:     d,
		clipboard:  memory,
		configPath: configPath,
		baseDir:    base,
	}
}

// offlineConfig writes a config whose bridge address has no listener.
func offlineConfig(t *testing.T) string {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Server.Port = 1
	path := filepath.Join(testsupport.BaseDir(cfg), "offline.toml")
	writeTestConfig(t, path, cfg)
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
