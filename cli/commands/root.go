package commands

import (
	"github.com/spf13/cobra"

	"github.com/datavirke/odata-go-generator/internal/debug"
)

var rootCmd = &cobra.Command{
	Use:   "odata-gen",
	Short: "Generate Go types from OData metadata documents",
	Long: `odata-gen turns an OData metadata.xml (CSDL) document into a single
Go source file: structs for entity and complex types, named constants
for enumerations, json tags and optional runtime metadata.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.Init(debugEnabled)
	},
}

var debugEnabled bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugEnabled, "debug", false, "Enable debug logging")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
