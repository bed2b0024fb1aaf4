package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nvmkit/nvmlayout"
	"github.com/nvmkit/nvmlayout/internal/layout"
)

// RootCmd creates and returns the root command for the nvmlayout CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "nvmlayout <layout-file>",
		Short: "Validate NVM layout description files",
		Long: `nvmlayout parses an NVM layout description (.toml, .yaml, .yml, or .json),
validates its structure, and prints the canonical serialization of the
validated configuration. It exits non-zero when the file fails validation.`,
		Version:      nvmlayout.Version,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose || LoadToolConfig().Verbose {
				enableVerboseLogging()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			toolCfg := LoadToolConfig()

			cfg, err := layout.Load(args[0])
			if err != nil {
				return err
			}

			Logger().Debug("layout validated",
				zap.String("file", args[0]),
				zap.Int("blocks", len(cfg.Blocks)),
				zap.Strings("block_names", cfg.BlockNames()))

			return cfg.WriteYAML(cmd.OutOrStdout(), toolCfg.Indent)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	return cmd
}
