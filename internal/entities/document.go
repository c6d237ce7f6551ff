package entities

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Document is a parsed entity-description file. The schema is not validated:
// the document is held as a generic JSON tree and only the known URL-bearing
// fields are touched.
type Document struct {
	root map[string]any
}

// Load reads an entity document from path. Files ending in .gz are
// transparently decompressed.
func Load(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open entities file: %w", err)
	}
	defer file.Close()

	var decoder *json.Decoder
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("read gzip entities file: %w", err)
		}
		defer gz.Close()
		decoder = json.NewDecoder(gz)
	} else {
		decoder = json.NewDecoder(file)
	}

	var root map[string]any
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("parse entities file %s: %w", path, err)
	}
	return &Document{root: root}, nil
}

// Entities returns the entity objects in document order. Entries that are not
// JSON objects are skipped.
func (d *Document) Entities() []map[string]any {
	raw, _ := d.root["Entities"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if entity, ok := item.(map[string]any); ok {
			out = append(out, entity)
		}
	}
	return out
}

// SkyboxAssetPaths returns the asset-server paths (scheme prefix stripped) of
// skybox textures referenced by Zone entities.
func (d *Document) SkyboxAssetPaths() []string {
	var paths []string
	for _, entity := range d.Entities() {
		if entity["type"] != "Zone" {
			continue
		}
		skybox, ok := entity["skybox"].(map[string]any)
		if !ok {
			continue
		}
		url, ok := skybox["url"].(string)
		if !ok {
			continue
		}
		if strings.HasPrefix(url, "atp:/") {
			paths = append(paths, strings.TrimPrefix(url, "atp:/"))
		}
	}
	return paths
}

// RemapSkyboxURLs replaces Zone skybox URLs per remap and returns the number
// of entities changed. Used after baking skybox textures, whose references
// must point at the compressed artifact.
func (d *Document) RemapSkyboxURLs(remap map[string]string) int {
	changed := 0
	for _, entity := range d.Entities() {
		if entity["type"] != "Zone" {
			continue
		}
		skybox, ok := entity["skybox"].(map[string]any)
		if !ok {
			continue
		}
		url, ok := skybox["url"].(string)
		if !ok {
			continue
		}
		if newURL, ok := remap[url]; ok {
			skybox["url"] = newURL
			changed++
		}
	}
	return changed
}

// Save writes the document as indented JSON.
func (d *Document) Save(path string) error {
	data, err := json.MarshalIndent(d.root, "", "    ")
	if err != nil {
		return fmt.Errorf("encode entities: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write entities file: %w", err)
	}
	return nil
}

// SaveGzip writes the document as gzipped indented JSON.
func (d *Document) SaveGzip(path string) error {
	data, err := json.MarshalIndent(d.root, "", "    ")
	if err != nil {
		return fmt.Errorf("encode entities: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create entities file: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	if _, err := gz.Write(data); err != nil {
		return fmt.Errorf("write gzip entities: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finish gzip entities: %w", err)
	}
	return file.Close()
}
