package asset

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Scheme is the URL scheme assets carry on the networked asset server.
const Scheme = "atp:"

// Asset describes one file found under the content source's assets directory.
type Asset struct {
	// Name is the original filename. Baked assets may produce a different
	// output filename.
	Name string
	// RelDir is the forward-slash directory relative to the assets root,
	// empty for files at the root.
	RelDir string
	// ATPPath is the path the asset would have on the asset server,
	// for example "atp:/models/chair.fbx".
	ATPPath string
	// AbsPath is the absolute path to the input file.
	AbsPath string
}

// RelPath returns the asset's forward-slash path relative to the assets root.
func (a Asset) RelPath() string {
	return JoinURL(a.RelDir, a.Name)
}

// Ext returns the lowercased extension without the leading dot.
func (a Asset) Ext() string {
	return Ext(a.Name)
}

// Scan walks the assets directory and returns one Asset per regular file,
// sorted by relative path. Paths are NFC-normalized so lookups behave the
// same regardless of how the filesystem encodes names.
func Scan(root string) ([]Asset, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve assets directory: %w", err)
	}

	var assets []Asset
	err = filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rel = norm.NFC.String(filepath.ToSlash(rel))
		relDir := ""
		if idx := strings.LastIndex(rel, "/"); idx >= 0 {
			relDir = rel[:idx]
		}
		name := rel[strings.LastIndex(rel, "/")+1:]
		assets = append(assets, Asset{
			Name:    name,
			RelDir:  relDir,
			ATPPath: JoinURL(Scheme, relDir, name),
			AbsPath: path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan assets in %s: %w", absRoot, err)
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i].RelPath() < assets[j].RelPath()
	})
	return assets, nil
}

// CleanURL strips any query suffix so mapping lookups ignore cache-busting
// parameters.
func CleanURL(url string) string {
	if idx := strings.IndexByte(url, '?'); idx >= 0 {
		return url[:idx]
	}
	return url
}

// JoinURL joins path segments with forward slashes, skipping empty segments.
func JoinURL(parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, "/")
}

// Ext returns the lowercased extension of name without the leading dot, or ""
// when there is none.
func Ext(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// Basename returns name up to the first dot, mirroring how baked output
// filenames are derived ("sphere.baked.fbx" -> "sphere").
func Basename(name string) string {
	if idx := strings.IndexByte(name, '.'); idx >= 0 {
		return name[:idx]
	}
	return name
}
