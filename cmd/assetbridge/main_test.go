package main

import (
	"os"
	"path/filepath"
	"testing"

	"assetbridge/internal/testsupport"
)

func TestPing(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"ping"}, env.configPath)
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	requireContains(t, out, "assetbridge ok")
	requireContains(t, out, "test")
}

func TestPingUnreachable(t *testing.T) {
	_, _, err := runCLI(t, []string{"ping", "--timeout", "500ms"}, offlineConfig(t))
	if err == nil {
		t.Fatal("expected ping to fail without a daemon")
	}
	requireContains(t, err.Error(), "assetbridge start")
}

func TestAddrFlagOverridesConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"--addr", env.daemon.Addr(), "ping"}, offlineConfig(t))
	if err != nil {
		t.Fatalf("ping with --addr: %v", err)
	}
	requireContains(t, out, env.daemon.Addr())
}

func TestSendToDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	paths := testsupport.WriteFiles(t, env.cfg.Transfer.SourceRoot, 2, 128)
	dest := filepath.Join(env.baseDir, "picked")

	out, _, err := runCLI(t, append([]string{"send", "--to", dest}, paths...), env.configPath)
	if err != nil {
		t.Fatalf("send: %v\n%s", err, out)
	}
	requireContains(t, out, "2 succeeded, 0 failed")
	for _, p := range paths {
		if _, err := os.Stat(filepath.Join(dest, filepath.Base(p))); err != nil {
			t.Fatalf("expected copy of %s: %v", p, err)
		}
	}
}

func TestSendToDefaultDirectoryEncoded(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.cfg.Transfer.SourceRoot, "耳朵 1.png")
	testsupport.WriteFile(t, src, 64)

	out, _, err := runCLI(t, []string{"send", "--default-dir", "--encode", src}, env.configPath)
	if err != nil {
		t.Fatalf("send: %v\n%s", err, out)
	}
	requireContains(t, out, "1 succeeded, 0 failed")
	if _, err := os.Stat(filepath.Join(env.cfg.Transfer.DefaultDestination, "耳朵 1.png")); err != nil {
		t.Fatalf("expected decoded copy: %v", err)
	}
}

func TestSendToClipboard(t *testing.T) {
	env := setupCLITestEnv(t)
	paths := testsupport.WriteFiles(t, env.cfg.Transfer.SourceRoot, 1, 32)

	out, _, err := runCLI(t, []string{"send", paths[0]}, env.configPath)
	if err != nil {
		t.Fatalf("send: %v\n%s", err, out)
	}
	contents := env.clipboard.Contents()
	if len(contents) != 1 || contents[0] != paths[0] {
		t.Fatalf("unexpected clipboard contents %v", contents)
	}
}

func TestSendPartialFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	paths := testsupport.WriteFiles(t, env.cfg.Transfer.SourceRoot, 1, 32)
	missing := filepath.Join(env.cfg.Transfer.SourceRoot, "missing.png")

	out, _, err := runCLI(t, []string{"send", "--default-dir", paths[0], missing}, env.configPath)
	if err != nil {
		t.Fatalf("partial success should not fail the command: %v", err)
	}
	requireContains(t, out, "1 succeeded, 1 failed")
	requireContains(t, out, "source not found")
}

func TestSendNothingExists(t *testing.T) {
	env := setupCLITestEnv(t)
	missing := filepath.Join(env.cfg.Transfer.SourceRoot, "missing.png")

	out, _, err := runCLI(t, []string{"send", "--default-dir", missing}, env.configPath)
	if err == nil {
		t.Fatalf("expected failure when nothing transfers\n%s", out)
	}
	requireContains(t, out, "0 succeeded, 1 failed")
}

func TestSendJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	paths := testsupport.WriteFiles(t, env.cfg.Transfer.SourceRoot, 1, 32)

	out, _, err := runCLI(t, []string{"send", "--json", "--default-dir", paths[0]}, env.configPath)
	if err != nil {
		t.Fatalf("send --json: %v", err)
	}
	requireContains(t, out, `"success": true`)
	requireContains(t, out, `"succeededCount": 1`)
}

func TestStatusRunning(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "System Status")
	requireContains(t, out, "Running on "+env.daemon.Addr())
	requireContains(t, out, "Paths")
	requireContains(t, out, env.daemon.LockPath())
}

func TestStatusOffline(t *testing.T) {
	out, _, err := runCLI(t, []string{"status"}, offlineConfig(t))
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Not running")
}

func TestStopWhenNotRunning(t *testing.T) {
	out, _, err := runCLI(t, []string{"stop"}, offlineConfig(t))
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	requireContains(t, out, "Daemon is not running")
}

func TestStartWhenAlreadyRunning(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"start"}, env.configPath)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	requireContains(t, out, "Daemon already running")
}
