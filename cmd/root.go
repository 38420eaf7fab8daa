// Package cmd provides the root command and CLI setup for
// wally-package-types.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/DervexDev/wally-package-types/internal/adapter"
	"github.com/DervexDev/wally-package-types/internal/controller"
	"github.com/DervexDev/wally-package-types/internal/domain"
)

var fsAdapter adapter.SourceFSAdapter
var sourcemapAdapter adapter.SourcemapAdapter
var luauAdapter adapter.LuauFileAdapter
var workflow domain.Workflow
var ui controller.UI

// sourcemapFlag is a root-level flag shared by all resolving commands.
var sourcemapFlag string

// parallelFlag sets the number of per-thunk workers.
var parallelFlag int

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	sourcemapAdapter = adapter.NewLocalSourcemapAdapter(fsAdapter)
	luauAdapter = adapter.NewTreeSitterLuauAdapter()
	workflow = domain.NewWorkflow(fsAdapter, sourcemapAdapter, luauAdapter, ui)
}

const rootLongDescription = `wally-package-types re-resolves the require links inside generated Wally
package thunks against a Rojo sourcemap and rewrites each thunk so it
re-exports the target module's Luau types.

Run it after "wally install" and "rojo sourcemap" so the Packages folder,
the sourcemap, and the source tree are mutually consistent.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wally-package-types",
		Short: "Fix Wally package links and re-export their types",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&sourcemapFlag, sourcemapFlagName, "s",
			viper.GetString(sourcemapFlagName),
			"path to the project sourcemap",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(sourcemapFlagName), sourcemapFlagName)

	cmd.PersistentFlags().
		IntVarP(
			&parallelFlag, parallelFlagName, "p",
			viper.GetInt(parallelConfigKey),
			"number of parallel workers for thunk processing",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.PersistentFlags().BoolVar(&verboseFlag, verboseFlagName, viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values
// feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
