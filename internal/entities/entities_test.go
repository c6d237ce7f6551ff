package entities_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bakeset/internal/entities"
)

const sampleDocument = `{
  "DataVersion": 2,
  "Entities": [
    {
      "type": "Model",
      "modelURL": "atp:/models/chair.fbx?v=2",
      "script": "atp:/scripts/sit.js",
      "textures": "{\"wood\":\"atp:/textures/wood.png\"}"
    },
    {
      "type": "Zone",
      "skybox": {"url": "atp:/skybox/day.png"},
      "ambientLight": {"ambientURL": "atp:/skybox/day.png"}
    },
    {
      "type": "Model",
      "modelURL": "atp:/models/avatar.fst",
      "serverScripts": "atp:/scripts/server.js"
    }
  ],
  "Version": 93
}`

func writeDocument(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func TestLoadAndEntities(t *testing.T) {
	doc, err := entities.Load(writeDocument(t, "models.json", sampleDocument))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := len(doc.Entities()); got != 3 {
		t.Fatalf("expected 3 entities, got %d", got)
	}
}

func TestSkyboxAssetPaths(t *testing.T) {
	doc, err := entities.Load(writeDocument(t, "models.json", sampleDocument))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	paths := doc.SkyboxAssetPaths()
	if len(paths) != 1 || paths[0] != "skybox/day.png" {
		t.Fatalf("unexpected skybox paths: %v", paths)
	}
}

func TestRemapSkyboxURLs(t *testing.T) {
	doc, err := entities.Load(writeDocument(t, "models.json", sampleDocument))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	changed := doc.RemapSkyboxURLs(map[string]string{
		"atp:/skybox/day.png": "atp:/skybox/day.ktx",
	})
	if changed != 1 {
		t.Fatalf("expected 1 remapped entity, got %d", changed)
	}
	for _, entity := range doc.Entities() {
		if entity["type"] != "Zone" {
			continue
		}
		skybox := entity["skybox"].(map[string]any)
		if skybox["url"] != "atp:/skybox/day.ktx" {
			t.Fatalf("skybox url not remapped: %v", skybox["url"])
		}
	}
}

func TestRewriteURLs(t *testing.T) {
	doc, err := entities.Load(writeDocument(t, "models.json", sampleDocument))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	mapping := map[string]string{
		"atp:/models/chair.fbx":  "file:///~/serverless/baked/models/chair.fbx/chair.baked.fbx",
		"atp:/scripts/sit.js":    "file:///~/serverless/original/scripts/sit.js",
		"atp:/scripts/server.js": "file:///~/serverless/original/scripts/server.js",
		"atp:/textures/wood.png": "file:///~/serverless/original/textures/wood.png",
		"atp:/skybox/day.png":    "file:///~/serverless/baked/skybox/day.png/day.texmeta.json",
	}
	stats := doc.RewriteURLs(func(url string) (string, bool) {
		// Query suffixes are stripped by the caller in production; emulate it.
		if q := strings.IndexByte(url, '?'); q >= 0 {
			url = url[:q]
		}
		mapped, ok := mapping[url]
		return mapped, ok
	})

	if stats.Entities != 3 {
		t.Fatalf("unexpected entity count: %d", stats.Entities)
	}
	// chair model, sit script, wood texture, skybox url, ambient url, server script.
	if stats.Rewritten != 6 {
		t.Fatalf("expected 6 rewrites, got %d", stats.Rewritten)
	}
	if len(stats.Missing) != 1 || stats.Missing[0] != "atp:/models/avatar.fst" {
		t.Fatalf("unexpected missing urls: %v", stats.Missing)
	}

	ents := doc.Entities()
	if ents[0]["modelURL"] != "file:///~/serverless/baked/models/chair.fbx/chair.baked.fbx" {
		t.Fatalf("modelURL not rewritten: %v", ents[0]["modelURL"])
	}
	if ents[2]["modelURL"] != "atp:/models/avatar.fst" {
		t.Fatalf("unmapped url should stay untouched: %v", ents[2]["modelURL"])
	}

	var textures map[string]string
	if err := json.Unmarshal([]byte(ents[0]["textures"].(string)), &textures); err != nil {
		t.Fatalf("textures should stay an encoded JSON object: %v", err)
	}
	if textures["wood"] != "file:///~/serverless/original/textures/wood.png" {
		t.Fatalf("encoded texture url not rewritten: %v", textures)
	}

	skybox := ents[1]["skybox"].(map[string]any)
	if skybox["url"] != "file:///~/serverless/baked/skybox/day.png/day.texmeta.json" {
		t.Fatalf("skybox url not rewritten: %v", skybox["url"])
	}
}

func TestSaveRoundTrip(t *testing.T) {
	doc, err := entities.Load(writeDocument(t, "models.json", sampleDocument))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	out := filepath.Join(t.TempDir(), "out.json")
	if err := doc.Save(out); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	reloaded, err := entities.Load(out)
	if err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if len(reloaded.Entities()) != 3 {
		t.Fatalf("expected 3 entities after round trip, got %d", len(reloaded.Entities()))
	}
}

func TestSaveGzipRoundTrip(t *testing.T) {
	doc, err := entities.Load(writeDocument(t, "models.json", sampleDocument))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	out := filepath.Join(t.TempDir(), "models.json.gz")
	if err := doc.SaveGzip(out); err != nil {
		t.Fatalf("SaveGzip returned error: %v", err)
	}

	reloaded, err := entities.Load(out)
	if err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if len(reloaded.Entities()) != 3 {
		t.Fatalf("expected 3 entities after gzip round trip, got %d", len(reloaded.Entities()))
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	if _, err := entities.Load(writeDocument(t, "broken.json", "{")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
