package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DervexDev/wally-package-types/internal/domain"
	m "github.com/DervexDev/wally-package-types/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <packages-folder>",
		Short: "List discovered thunks and their resolved targets",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.List(context.Background(), domain.ListArgs{
				Sourcemap: m.Path(viper.GetString(sourcemapFlagName)),
				Packages:  m.Path(args[0]),
				Workers:   viper.GetInt(parallelConfigKey),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
