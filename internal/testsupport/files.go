package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path (and parent directories) with the given contents.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ContentSource lays out a minimal content source directory under root:
// an assets tree and an entities/models.json document. assets maps relative
// asset paths to file contents.
func ContentSource(t testing.TB, root, modelsJSON string, assets map[string]string) {
	t.Helper()

	for rel, contents := range assets {
		WriteFile(t, filepath.Join(root, "assets", filepath.FromSlash(rel)), contents)
	}
	WriteFile(t, filepath.Join(root, "entities", "models.json"), modelsJSON)
}
