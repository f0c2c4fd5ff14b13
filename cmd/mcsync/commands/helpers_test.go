package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/thoreinstein/mcsync/internal/config"
)

// setFlag sets a package-level flag variable for the duration of a test.
func setFlag[T any](t *testing.T, p *T, v T) {
	t.Helper()
	orig := *p
	*p = v
	t.Cleanup(func() { *p = orig })
}

// writeFile creates path with content, making parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// newWorkspace creates a source tree with every folder and an empty game
// directory, and returns a config pointing at both with locking enabled.
func newWorkspace(t *testing.T) (cfg *config.Config, src, dst string) {
	t.Helper()
	base := t.TempDir()
	src = filepath.Join(base, "src")
	dst = filepath.Join(base, "minecraft")

	writeFile(t, filepath.Join(src, "mods", "sodium.jar"), "sodium")
	writeFile(t, filepath.Join(src, "resourcepacks", "faithful.zip"), "faithful")
	writeFile(t, filepath.Join(src, "shaderpacks", "bsl.zip"), "bsl")
	if err := os.MkdirAll(dst, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg = config.Default()
	cfg.Paths.MinecraftPath = dst
	cfg.Paths.SourceBase = src
	return cfg, src, dst
}
