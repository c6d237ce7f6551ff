package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bakeset/internal/bakecache"
	"bakeset/internal/bundle"
	"bakeset/internal/oven"
)

func newServerlessCommand(ctx *commandContext) *cobra.Command {
	var noCache bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "serverless <input-dir> <output-dir>",
		Short: "Build a self-contained serverless bundle from a content package",
		Long: `Bake or copy every asset in <input-dir>/assets into <output-dir> and
rewrite the entity document's atp:/ references to local file URLs.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			binary, err := cfg.OvenBinary()
			if err != nil {
				return err
			}
			baker, err := oven.New(binary, cfg.Oven.BakeTimeout,
				oven.WithOutputSink(func(line string) {
					logger.Debug("oven", "line", line)
				}))
			if err != nil {
				return fmt.Errorf("configure oven: %w", err)
			}

			var cache *bakecache.Store
			if cfg.BakeCache.Enabled && !noCache {
				cache, err = bakecache.Open(cfg.BakeCache.Path)
				if err != nil {
					logger.Warn("bake cache unavailable, continuing without it", "error", err)
				} else {
					defer cache.Close()
				}
			}

			builder := bundle.NewBuilder(cfg, baker, cache, logger)
			report, err := builder.Build(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, report)
			}
			printBundleReport(cmd.OutOrStdout(), report)
			if report.Failed > 0 {
				return fmt.Errorf("%d asset(s) failed to bake", report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the bake result cache")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the build report as JSON")
	return cmd
}
