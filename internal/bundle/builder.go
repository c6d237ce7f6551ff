package bundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"bakeset/internal/asset"
	"bakeset/internal/bakecache"
	"bakeset/internal/config"
	"bakeset/internal/entities"
	"bakeset/internal/fileutil"
	"bakeset/internal/oven"
)

// lockFileName guards an output directory against concurrent builds.
const lockFileName = ".bakeset.lock"

// Builder runs the serverless bundle pipeline: bake or copy every asset,
// then rewrite the entity document's references to the new local locations.
type Builder struct {
	cfg    *config.Config
	baker  oven.Baker
	cache  *bakecache.Store
	logger *slog.Logger
}

// NewBuilder constructs a Builder. cache may be nil to disable bake caching.
func NewBuilder(cfg *config.Config, baker oven.Baker, cache *bakecache.Store, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		cfg:    cfg,
		baker:  baker,
		cache:  cache,
		logger: logger.With("component", "bundle"),
	}
}

// Build converts the content source at inputDir into a serverless bundle at
// outputDir. Individual bake failures and unmapped references are logged and
// counted in the report; only structural problems (missing inputs, lock
// contention, unreadable entity document) fail the build.
func (b *Builder) Build(ctx context.Context, inputDir, outputDir string) (*Report, error) {
	start := time.Now()

	inputDir, err := filepath.Abs(inputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve input directory: %w", err)
	}
	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output directory: %w", err)
	}

	assetsDir := filepath.Join(inputDir, "assets")
	if info, err := os.Stat(assetsDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("input has no assets directory at %s", assetsDir)
	}
	entitiesPath, err := b.findEntitiesFile(inputDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(outputDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another build is already writing to %s", outputDir)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	report := &Report{
		BuildID:   uuid.NewString(),
		InputDir:  inputDir,
		OutputDir: outputDir,
	}
	b.logger.Info("building serverless bundle",
		"build_id", report.BuildID,
		"input", inputDir,
		"output", outputDir)

	assets, err := asset.Scan(assetsDir)
	if err != nil {
		return nil, err
	}

	classifier := asset.NewClassifier(b.cfg.Oven.ModelExtensions, b.cfg.Oven.TextureExtensions)
	mapping := NewMapping()

	for _, item := range assets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		kind := classifier.Kind(item.Name)
		if kind == asset.KindOther || b.baker == nil {
			report.add(b.copyAsset(item, outputDir, mapping))
			continue
		}
		report.add(b.bakeAsset(ctx, item, kind, outputDir, mapping))
	}
	b.logger.Info("processed assets",
		"total", len(assets),
		"baked", report.Baked,
		"cached", report.Cached,
		"copied", report.Copied,
		"failed", report.Failed)

	doc, err := entities.Load(entitiesPath)
	if err != nil {
		return nil, err
	}
	stats := doc.RewriteURLs(func(url string) (string, bool) {
		mapped, ok := mapping.Resolve(url)
		if !ok {
			if strings.HasSuffix(asset.CleanURL(url), ".fst") {
				b.logger.Info("reference not in local asset set, probably hosted remotely", "url", url)
			} else {
				b.logger.Error("reference not found in local asset set", "url", url)
			}
		}
		return mapped, ok
	})
	report.Entities = stats.Entities
	report.Rewritten = stats.Rewritten
	report.Missing = stats.Missing

	outName := strings.TrimSuffix(b.cfg.Bundle.EntitiesFile, ".gz")
	outPath := filepath.Join(outputDir, outName)
	if err := doc.Save(outPath); err != nil {
		return nil, err
	}
	b.logger.Info("wrote entity document",
		"path", outPath,
		"entities", stats.Entities,
		"rewritten", stats.Rewritten,
		"missing", len(stats.Missing))

	report.Elapsed = time.Since(start)
	return report, nil
}

func (b *Builder) findEntitiesFile(inputDir string) (string, error) {
	base := filepath.Join(inputDir, "entities", b.cfg.Bundle.EntitiesFile)
	for _, candidate := range []string{base, base + ".gz"} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat entities file: %w", err)
		}
	}
	return "", fmt.Errorf("input has no entity document at %s", base)
}

func (b *Builder) copyAsset(item asset.Asset, outputDir string, mapping *Mapping) AssetResult {
	destDir := filepath.Join(outputDir, b.cfg.Bundle.OriginalDir, filepath.FromSlash(item.RelDir))
	b.logger.Info("copying", "path", item.RelPath())
	if _, err := fileutil.CopyFileTo(item.AbsPath, destDir); err != nil {
		b.logger.Error("copy failed", "path", item.RelPath(), "error", err)
		return AssetResult{Path: item.RelPath(), Outcome: OutcomeFailed, Error: err.Error()}
	}
	localURL := asset.JoinURL(b.cfg.Bundle.URLPrefix, b.cfg.Bundle.OriginalDir, item.RelDir, item.Name)
	mapping.Add(item.ATPPath, localURL)
	return AssetResult{Path: item.RelPath(), Outcome: OutcomeCopied, LocalURL: localURL}
}

func (b *Builder) bakeAsset(ctx context.Context, item asset.Asset, kind asset.Kind, outputDir string, mapping *Mapping) AssetResult {
	bakeDir := filepath.Join(outputDir, b.cfg.Bundle.BakedDir, filepath.FromSlash(item.RelDir), item.Name)

	var inputHash string
	if b.cache != nil {
		sum, err := fileutil.HashFile(item.AbsPath)
		if err != nil {
			b.logger.Warn("hash input for cache", "path", item.RelPath(), "error", err)
		} else {
			inputHash = sum
			if result, ok := b.cachedResult(ctx, item, inputHash, outputDir, mapping); ok {
				return result
			}
		}
	}

	typ := oven.TypeFBX
	if kind == asset.KindTexture {
		typ = oven.TypeTexture
	}
	b.logger.Info("baking", "path", item.RelPath(), "type", typ)

	bakedPath, err := b.baker.Bake(ctx, item.AbsPath, bakeDir, typ)
	if err != nil {
		b.logger.Error("bake failed", "path", item.RelPath(), "error", err)
		return AssetResult{Path: item.RelPath(), Outcome: OutcomeFailed, Error: err.Error()}
	}

	relOut, err := filepath.Rel(outputDir, bakedPath)
	if err != nil {
		return AssetResult{Path: item.RelPath(), Outcome: OutcomeFailed, Error: err.Error()}
	}
	relOut = filepath.ToSlash(relOut)
	localURL := asset.JoinURL(b.cfg.Bundle.URLPrefix, relOut)
	mapping.Add(item.ATPPath, localURL)
	b.logger.Debug("baked", "from", item.ATPPath, "to", localURL)

	if b.cache != nil && inputHash != "" {
		if err := b.cache.Record(ctx, item.ATPPath, inputHash, relOut); err != nil {
			b.logger.Warn("record bake in cache", "path", item.RelPath(), "error", err)
		}
	}
	return AssetResult{Path: item.RelPath(), Outcome: OutcomeBaked, LocalURL: localURL}
}

// cachedResult reuses a prior bake when the cache entry matches and the
// artifact is still present in this output directory.
func (b *Builder) cachedResult(ctx context.Context, item asset.Asset, inputHash, outputDir string, mapping *Mapping) (AssetResult, bool) {
	entry, err := b.cache.Lookup(ctx, item.ATPPath, inputHash)
	if err != nil {
		b.logger.Warn("cache lookup", "path", item.RelPath(), "error", err)
		return AssetResult{}, false
	}
	if entry == nil {
		return AssetResult{}, false
	}
	artifact := filepath.Join(outputDir, filepath.FromSlash(entry.OutputRelPath))
	if _, err := os.Stat(artifact); err != nil {
		return AssetResult{}, false
	}
	localURL := asset.JoinURL(b.cfg.Bundle.URLPrefix, entry.OutputRelPath)
	mapping.Add(item.ATPPath, localURL)
	b.logger.Info("bake unchanged, reusing cached result", "path", item.RelPath())
	return AssetResult{Path: item.RelPath(), Outcome: OutcomeCached, LocalURL: localURL}, true
}
