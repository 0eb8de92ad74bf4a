package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"assetbridge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The clipboard uses the in-memory backend and the server binds an
// ephemeral loopback port.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Transfer.DefaultDestination = filepath.Join(base, "destination")
	cfgVal.Transfer.SourceRoot = filepath.Join(base, "sources")
	cfgVal.Clipboard.Backend = "memory"
	cfgVal.Server.Port = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDefaultDestination overrides the default copy destination.
func WithDefaultDestination(dir string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transfer.DefaultDestination = dir
	}
}

// WithClipboardBackend overrides the clipboard backend.
func WithClipboardBackend(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Clipboard.Backend = name
	}
}

// WithVerifiedCopies enables SHA-256 verification of directory copies.
func WithVerifiedCopies() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transfer.VerifyCopies = true
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the Linux clipboard helpers are
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"xclip", "wl-copy"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\ncat >/dev/null\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
