package entities

import "encoding/json"

// Fields whose value is a single asset URL.
var urlFields = []string{"modelURL", "script", "serverScripts", "compoundShapeURL"}

// Fields whose value is an object of asset URLs.
var urlObjectFields = []string{"ambientLight", "skybox"}

// Resolver maps an asset URL to its replacement. The second return reports
// whether a mapping existed; on false the original URL is kept.
type Resolver func(url string) (string, bool)

// RewriteStats summarizes a RewriteURLs pass.
type RewriteStats struct {
	Entities  int
	Rewritten int
	Missing   []string
}

// RewriteURLs applies resolve to every known URL-bearing field of every
// entity. The "textures" field gets special handling: object values are
// rewritten per key, and string values holding an encoded JSON object are
// decoded, rewritten, and re-encoded.
func (d *Document) RewriteURLs(resolve Resolver) RewriteStats {
	stats := RewriteStats{}
	for _, entity := range d.Entities() {
		stats.Entities++
		for _, field := range urlFields {
			if value, ok := entity[field].(string); ok {
				entity[field] = stats.rewrite(value, resolve)
			}
		}
		for _, field := range urlObjectFields {
			if object, ok := entity[field].(map[string]any); ok {
				stats.rewriteObject(object, resolve)
			}
		}
		stats.rewriteTextures(entity, resolve)
	}
	return stats
}

func (s *RewriteStats) rewrite(url string, resolve Resolver) string {
	if url == "" {
		return url
	}
	replacement, ok := resolve(url)
	if !ok {
		s.Missing = append(s.Missing, url)
		return url
	}
	s.Rewritten++
	return replacement
}

func (s *RewriteStats) rewriteObject(object map[string]any, resolve Resolver) {
	for key, value := range object {
		if url, ok := value.(string); ok {
			object[key] = s.rewrite(url, resolve)
		}
	}
}

func (s *RewriteStats) rewriteTextures(entity map[string]any, resolve Resolver) {
	switch textures := entity["textures"].(type) {
	case map[string]any:
		s.rewriteObject(textures, resolve)
	case string:
		if textures == "" {
			return
		}
		var object map[string]any
		if err := json.Unmarshal([]byte(textures), &object); err == nil {
			s.rewriteObject(object, resolve)
			if encoded, err := json.Marshal(object); err == nil {
				entity["textures"] = string(encoded)
			}
			return
		}
		// Not an encoded object, treat as a bare URL.
		entity["textures"] = s.rewrite(textures, resolve)
	}
}
