package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DervexDev/wally-package-types/internal/domain"
	m "github.com/DervexDev/wally-package-types/internal/model"
)

// fixCmd represents the fix command.
var fixCmd = newFixCmd()

func newFixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fix <packages-folder>",
		Short: "Rewrite drifted package thunks in place",
		Long: `Resolve every thunk's require chain against the sourcemap and rewrite
thunks whose link region differs from the canonical form. Thunks that
already carry the canonical link are left byte-for-byte untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Fix(context.Background(), domain.FixArgs{
				Sourcemap: m.Path(viper.GetString(sourcemapFlagName)),
				Packages:  m.Path(args[0]),
				Workers:   viper.GetInt(parallelConfigKey),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(fixCmd)
}
