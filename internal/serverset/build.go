package serverset

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bakeset/internal/asset"
	"bakeset/internal/config"
	"bakeset/internal/entities"
	"bakeset/internal/fileutil"
	"bakeset/internal/oven"
)

// TreeBaker bakes an input file and reports every artifact the oven produced
// for it. Satisfied by *oven.Client.
type TreeBaker interface {
	BakeAll(ctx context.Context, inputPath, outputDir string, typ oven.Type) ([]string, error)
}

// Options controls a content-set build.
type Options struct {
	// Bake runs bakeable assets through the oven and maps the baked
	// artifacts instead of the originals.
	Bake bool
	// SkipTextures leaves skybox textures unbaked even when Bake is set.
	SkipTextures bool
	// ContentVersion, when positive, is written to content-version.txt.
	ContentVersion int
}

// Result summarizes a content-set build.
type Result struct {
	OutputDir  string        `json:"output_dir"`
	Assets     int           `json:"assets"`
	Baked      int           `json:"baked"`
	BakeFailed int           `json:"bake_failed"`
	MapEntries int           `json:"map_entries"`
	Duplicates int           `json:"duplicates"`
	Overwrites int           `json:"overwrites"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// Builder assembles a domain-server content set from a content source
// directory.
type Builder struct {
	cfg    *config.Config
	baker  TreeBaker
	logger *slog.Logger
}

// NewBuilder returns a Builder. baker may be nil when baking is not
// requested.
func NewBuilder(cfg *config.Config, baker TreeBaker, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		cfg:    cfg,
		baker:  baker,
		logger: logger.With("component", "serverset"),
	}
}

// Build lays out assignment-client/ and domain-server/ under outputDir from
// the assets and entities in inputDir.
func (b *Builder) Build(ctx context.Context, inputDir, outputDir string, opts Options) (*Result, error) {
	start := time.Now()

	inputDir, err := filepath.Abs(inputDir)
	if err != nil {
		return nil, fmt.Errorf("resolving input dir: %w", err)
	}
	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("resolving output dir: %w", err)
	}
	if opts.Bake && b.baker == nil {
		return nil, fmt.Errorf("baking requested but no oven is configured")
	}

	assetsDir := filepath.Join(inputDir, "assets")
	if info, err := os.Stat(assetsDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("input %s has no assets directory", inputDir)
	}
	entitiesPath := filepath.Join(inputDir, "entities", b.cfg.Bundle.EntitiesFile)
	if _, err := os.Stat(entitiesPath); err != nil {
		return nil, fmt.Errorf("input %s has no entities/%s", inputDir, b.cfg.Bundle.EntitiesFile)
	}

	filesDir := filepath.Join(outputDir, "assignment-client", "assets", "files")
	entitiesOutDir := filepath.Join(outputDir, "assignment-client", "entities")
	domainDir := filepath.Join(outputDir, "domain-server")
	for _, dir := range []string{filesDir, entitiesOutDir, domainDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	if err := b.copyDomainConfig(inputDir, domainDir); err != nil {
		return nil, err
	}

	skyboxTextures, err := b.skyboxTextures(entitiesPath)
	if err != nil {
		return nil, err
	}

	assets, err := asset.Scan(assetsDir)
	if err != nil {
		return nil, fmt.Errorf("scanning assets: %w", err)
	}

	result := &Result{OutputDir: outputDir}
	classifier := asset.NewClassifier(b.cfg.Oven.ModelExtensions, b.cfg.Oven.TextureExtensions)

	var bakeRoot string
	if opts.Bake {
		bakeRoot, err = os.MkdirTemp("", "bakeset-sync-")
		if err != nil {
			return nil, fmt.Errorf("creating bake dir: %w", err)
		}
		defer os.RemoveAll(bakeRoot)
	}

	var entries []MapEntry
	skyboxRemap := make(map[string]string)
	for _, a := range assets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Assets++

		if opts.Bake && b.shouldBake(classifier, a, skyboxTextures, opts.SkipTextures) {
			baked, err := b.bakeAsset(ctx, a, bakeRoot, classifier.Kind(a.Name), filesDir, skyboxRemap)
			if err != nil {
				result.BakeFailed++
				b.logger.Error("bake failed, mapping original", "path", a.RelPath(), "error", err)
			} else {
				result.Baked++
				entries = append(entries, baked...)
				continue
			}
		}

		hash, err := b.storeFile(a.AbsPath, filesDir)
		if err != nil {
			return nil, fmt.Errorf("storing %s: %w", a.RelPath(), err)
		}
		entries = append(entries, MapEntry{Path: a.RelPath(), Hash: hash})
	}

	assetsMap, stats := BuildAssetsMap(entries)
	if stats.Duplicates > 0 {
		b.logger.Warn("duplicate asset paths with identical content", "count", stats.Duplicates)
	}
	if stats.Overwrites > 0 {
		b.logger.Warn("conflicting asset paths, later entries win", "count", stats.Overwrites)
	}
	if err := writeAssetsMap(assetsMap, filepath.Join(outputDir, "assignment-client", "assets", "map.json")); err != nil {
		return nil, err
	}

	entitiesDest := filepath.Join(entitiesOutDir, b.cfg.Bundle.EntitiesFile+".gz")
	if err := b.writeEntities(entitiesPath, entitiesDest, skyboxRemap); err != nil {
		return nil, err
	}

	if opts.ContentVersion > 0 {
		versionPath := filepath.Join(outputDir, "assignment-client", "content-version.txt")
		contents := fmt.Sprintf("%d\n", opts.ContentVersion)
		if err := os.WriteFile(versionPath, []byte(contents), 0o644); err != nil {
			return nil, fmt.Errorf("writing content version: %w", err)
		}
	}

	result.MapEntries = len(assetsMap)
	result.Duplicates = stats.Duplicates
	result.Overwrites = stats.Overwrites
	result.Elapsed = time.Since(start)
	b.logger.Info("content set built",
		"output", outputDir,
		"assets", result.Assets,
		"baked", result.Baked,
		"map_entries", result.MapEntries)
	return result, nil
}

func (b *Builder) shouldBake(classifier asset.Classifier, a asset.Asset, skyboxTextures map[string]bool, skipTextures bool) bool {
	switch classifier.Kind(a.Name) {
	case asset.KindModel:
		return true
	case asset.KindTexture:
		return !skipTextures && skyboxTextures[a.RelPath()]
	default:
		return false
	}
}

// bakeAsset runs one asset through the oven and stores every artifact under
// filesDir, returning map entries rooted at the asset's directory. The
// ".baked" marker is stripped from artifact names so entity URLs keep
// resolving. A ktx artifact from a texture bake records a skybox URL remap.
func (b *Builder) bakeAsset(ctx context.Context, a asset.Asset, bakeRoot string, kind asset.Kind, filesDir string, skyboxRemap map[string]string) ([]MapEntry, error) {
	typ := oven.TypeFBX
	if kind == asset.KindTexture {
		typ = oven.TypeTexture
	}
	outDir := filepath.Join(bakeRoot, a.RelDir, a.Name)
	artifacts, err := b.baker.BakeAll(ctx, a.AbsPath, outDir, typ)
	if err != nil {
		return nil, err
	}
	var entries []MapEntry
	for _, artifact := range artifacts {
		rel, err := filepath.Rel(outDir, artifact)
		if err != nil {
			return nil, fmt.Errorf("relativizing %s: %w", artifact, err)
		}
		hash, err := b.storeFile(artifact, filesDir)
		if err != nil {
			return nil, fmt.Errorf("storing %s: %w", rel, err)
		}
		mapped := stripBakedMarker(filepath.ToSlash(rel))
		mappedPath := asset.JoinURL(a.RelDir, mapped)
		entries = append(entries, MapEntry{Path: mappedPath, Hash: hash})
		if kind == asset.KindTexture && strings.HasSuffix(mapped, ".ktx") {
			skyboxRemap[asset.Scheme+"/"+a.RelPath()] = asset.Scheme + "/" + mappedPath
		}
	}
	return entries, nil
}

// storeFile copies src into filesDir under its content hash and returns the
// hash. Existing files are assumed identical and left alone.
func (b *Builder) storeFile(src, filesDir string) (string, error) {
	hash, err := fileutil.HashFile(src)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(filesDir, hash)
	if _, err := os.Stat(dest); err == nil {
		return hash, nil
	}
	if err := fileutil.CopyFile(src, dest); err != nil {
		return "", err
	}
	return hash, nil
}

// writeEntities gzips the entity document into the output tree, applying any
// skybox URL remap from texture baking. An existing file is left untouched so
// repeated syncs do not clobber server-side edits.
func (b *Builder) writeEntities(src, dest string, skyboxRemap map[string]string) error {
	if _, err := os.Stat(dest); err == nil {
		b.logger.Info("entity document already present, not overwriting", "path", dest)
		return nil
	}
	if len(skyboxRemap) > 0 {
		doc, err := entities.Load(src)
		if err != nil {
			return fmt.Errorf("loading entity document: %w", err)
		}
		changed := doc.RemapSkyboxURLs(skyboxRemap)
		b.logger.Info("remapped skybox textures", "entities", changed)
		return doc.SaveGzip(dest)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening entity document: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		return fmt.Errorf("compressing entity document: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("compressing entity document: %w", err)
	}
	return out.Close()
}

func (b *Builder) copyDomainConfig(inputDir, domainDir string) error {
	src := filepath.Join(inputDir, "domain-server", "config.json")
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("input has no domain-server/config.json: %w", err)
	}
	if err := fileutil.CopyFile(src, filepath.Join(domainDir, "config.json")); err != nil {
		return fmt.Errorf("copying domain-server config: %w", err)
	}
	return nil
}

func (b *Builder) skyboxTextures(entitiesPath string) (map[string]bool, error) {
	doc, err := entities.Load(entitiesPath)
	if err != nil {
		return nil, fmt.Errorf("loading entity document: %w", err)
	}
	textures := make(map[string]bool)
	for _, path := range doc.SkyboxAssetPaths() {
		textures[path] = true
	}
	return textures, nil
}

func writeAssetsMap(assetsMap AssetsMap, path string) error {
	data, err := json.MarshalIndent(assetsMap, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding assets map: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing assets map: %w", err)
	}
	return nil
}

// stripBakedMarker removes the ".baked" infix the oven inserts into artifact
// names, e.g. chair.baked.fbx becomes chair.fbx.
func stripBakedMarker(name string) string {
	if idx := strings.LastIndex(name, ".baked."); idx >= 0 {
		return name[:idx] + name[idx+len(".baked"):]
	}
	return name
}
