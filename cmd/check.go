package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DervexDev/wally-package-types/internal/domain"
	m "github.com/DervexDev/wally-package-types/internal/model"
)

var checkReportFlag string

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <packages-folder>",
		Short: "Report drifted package thunks without writing",
		Long: `Run the same resolution as "fix" but never write. The command exits
non-zero when any thunk would be rewritten, which makes it suitable as a
CI gate. With --report the drift summary is written as YAML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Check(context.Background(), domain.CheckArgs{
				Sourcemap: m.Path(viper.GetString(sourcemapFlagName)),
				Packages:  m.Path(args[0]),
				Workers:   viper.GetInt(parallelConfigKey),
				Report:    m.Path(viper.GetString(reportConfigKey)),
			})
		},
	}

	cmd.Flags().StringVarP(&checkReportFlag, reportFlagName, "r", viper.GetString(reportConfigKey), "write a YAML drift report to this path")
	bindFlagToConfig(cmd.Flags().Lookup(reportFlagName), reportConfigKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
