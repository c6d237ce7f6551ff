package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"bakeset/internal/bakecache"
	"bakeset/internal/config"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Bake cache maintenance",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func openCache(cfg *config.Config) (*bakecache.Store, error) {
	if !cfg.BakeCache.Enabled {
		return nil, fmt.Errorf("bake cache is disabled in the configuration")
	}
	store, err := bakecache.Open(cfg.BakeCache.Path)
	if err != nil {
		return nil, fmt.Errorf("open bake cache: %w", err)
	}
	return store, nil
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show bake cache contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, map[string]any{
					"db_path": stats.DBPath,
					"entries": stats.Entries,
					"oldest":  stats.Oldest,
					"newest":  stats.Newest,
				})
			}

			rows := [][]string{
				{"Database", stats.DBPath},
				{"Entries", strconv.Itoa(stats.Entries)},
				{"Oldest", formatCacheTime(stats.Oldest)},
				{"Newest", formatCacheTime(stats.Newest)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit cache stats as JSON")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached bake result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached bake result(s)\n", removed)
			return nil
		},
	}
}

func formatCacheTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
