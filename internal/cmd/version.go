package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/update"
)

// version is set at build time via ldflags
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			result := update.CheckForUpdate(cmd.Context(), version)

			if isJSON(cmd) {
				payload := map[string]any{"version": version}
				if result != nil {
					payload["update"] = result
				}
				return printJSON(cmd, payload)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "store version %s\n", version)
			if notice := result.Notice(); notice != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "\n%s\n", notice)
			}
			return nil
		}),
	}
}
