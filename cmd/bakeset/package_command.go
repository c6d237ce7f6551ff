package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bakeset/internal/serverset"
)

func newPackageCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "package <build-dir> <output.tar.gz>",
		Short: "Archive a built content set into a release tarball",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if err := serverset.Package(args[0], args[1]); err != nil {
				return err
			}
			logger.Info("release archive written", "path", args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[1])
			return nil
		},
	}
}
