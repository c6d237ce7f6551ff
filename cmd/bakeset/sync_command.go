package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bakeset/internal/oven"
	"bakeset/internal/serverset"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var inputDir string
	var outputDir string
	var bake bool
	var skipTextures bool
	var contentVersion int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Build a domain-server content set from a content package",
		Long: `Store every asset under its content hash with a map.json index, gzip the
entity document, and copy the domain-server configuration into a deployable
content-set tree.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputDir == "" || outputDir == "" {
				return errors.New("both --input and --output are required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var baker serverset.TreeBaker
			if bake {
				binary, err := cfg.OvenBinary()
				if err != nil {
					return err
				}
				client, err := oven.New(binary, cfg.Oven.BakeTimeout,
					oven.WithOutputSink(func(line string) {
						logger.Debug("oven", "line", line)
					}))
				if err != nil {
					return fmt.Errorf("configure oven: %w", err)
				}
				baker = client
			}

			builder := serverset.NewBuilder(cfg, baker, logger)
			result, err := builder.Build(cmd.Context(), inputDir, outputDir, serverset.Options{
				Bake:           bake,
				SkipTextures:   skipTextures,
				ContentVersion: contentVersion,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			printSyncResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Content source directory")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Content set output directory")
	cmd.Flags().BoolVar(&bake, "bake", false, "Bake meshes and skybox textures before mapping")
	cmd.Flags().BoolVar(&skipTextures, "skip-textures", false, "Leave skybox textures unbaked")
	cmd.Flags().IntVar(&contentVersion, "content-version", 0, "Write this content version into the set")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the build result as JSON")
	return cmd
}
