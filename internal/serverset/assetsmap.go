package serverset

import (
	"sort"
	"strings"
)

// MapEntry pairs an asset-server path with the content hash its file is
// stored under.
type MapEntry struct {
	Path string
	Hash string
}

// AssetsMap is the map.json payload: absolute asset-server path to content
// hash.
type AssetsMap map[string]string

// MapStats reports collisions found while building the map.
type MapStats struct {
	// Duplicates counts paths seen twice with identical content.
	Duplicates int
	// Overwrites counts paths seen twice with different content; the later
	// entry wins.
	Overwrites int
}

// BuildAssetsMap folds entries into an AssetsMap. Paths are normalized to a
// single leading slash. Later entries win on collision.
func BuildAssetsMap(entries []MapEntry) (AssetsMap, MapStats) {
	assetsMap := make(AssetsMap, len(entries))
	stats := MapStats{}
	for _, entry := range entries {
		path := "/" + strings.TrimLeft(entry.Path, "/")
		if existing, ok := assetsMap[path]; ok {
			if existing == entry.Hash {
				stats.Duplicates++
			} else {
				stats.Overwrites++
			}
		}
		assetsMap[path] = entry.Hash
	}
	return assetsMap, stats
}

// Paths returns the mapped asset paths in sorted order.
func (m AssetsMap) Paths() []string {
	paths := make([]string, 0, len(m))
	for path := range m {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
