package asset_test

import (
	"os"
	"path/filepath"
	"testing"

	"bakeset/internal/asset"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestScanBuildsATPPaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "script.js"))
	writeFile(t, filepath.Join(root, "models", "chair.fbx"))
	writeFile(t, filepath.Join(root, "models", "textures", "wood.png"))

	assets, err := asset.Scan(root)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("expected 3 assets, got %d", len(assets))
	}

	byPath := make(map[string]asset.Asset, len(assets))
	for _, a := range assets {
		byPath[a.ATPPath] = a
	}

	chair, ok := byPath["atp:/models/chair.fbx"]
	if !ok {
		t.Fatalf("missing chair asset, got %v", byPath)
	}
	if chair.RelDir != "models" || chair.Name != "chair.fbx" {
		t.Fatalf("unexpected chair fields: %+v", chair)
	}
	if chair.RelPath() != "models/chair.fbx" {
		t.Fatalf("unexpected rel path: %q", chair.RelPath())
	}

	script, ok := byPath["atp:/script.js"]
	if !ok {
		t.Fatal("missing root-level script asset")
	}
	if script.RelDir != "" {
		t.Fatalf("root-level asset should have empty RelDir, got %q", script.RelDir)
	}

	if _, ok := byPath["atp:/models/textures/wood.png"]; !ok {
		t.Fatal("missing nested texture asset")
	}
}

func TestScanSortsByRelativePath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "z.js"))
	writeFile(t, filepath.Join(root, "a", "b.fbx"))

	assets, err := asset.Scan(root)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if assets[0].RelPath() != "a/b.fbx" || assets[1].RelPath() != "z.js" {
		t.Fatalf("unexpected order: %v", assets)
	}
}

func TestCleanURL(t *testing.T) {
	if got := asset.CleanURL("atp:/models/chair.fbx?v=3"); got != "atp:/models/chair.fbx" {
		t.Fatalf("query not stripped: %q", got)
	}
	if got := asset.CleanURL("atp:/plain.js"); got != "atp:/plain.js" {
		t.Fatalf("plain url changed: %q", got)
	}
}

func TestJoinURLSkipsEmptySegments(t *testing.T) {
	if got := asset.JoinURL("atp:", "", "chair.fbx"); got != "atp:/chair.fbx" {
		t.Fatalf("unexpected join: %q", got)
	}
	if got := asset.JoinURL("file:///~/serverless", "models", "chair.fbx"); got != "file:///~/serverless/models/chair.fbx" {
		t.Fatalf("unexpected join: %q", got)
	}
}

func TestExtAndBasename(t *testing.T) {
	if asset.Ext("Chair.FBX") != "fbx" {
		t.Fatal("extension should lowercase")
	}
	if asset.Ext("README") != "" {
		t.Fatal("missing extension should be empty")
	}
	if asset.Basename("sphere.baked.fbx") != "sphere" {
		t.Fatal("basename should cut at first dot")
	}
}

func TestClassifier(t *testing.T) {
	c := asset.NewClassifier([]string{"fbx"}, []string{"png", "tga"})
	if c.Kind("chair.fbx") != asset.KindModel {
		t.Fatal("fbx should classify as model")
	}
	if c.Kind("wood.PNG") != asset.KindTexture {
		t.Fatal("png should classify as texture")
	}
	if c.Kind("script.js") != asset.KindOther {
		t.Fatal("js should classify as other")
	}
	if !c.Bakeable("skybox.tga") {
		t.Fatal("tga should be bakeable")
	}
}
