package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datavirke/odata-go-generator/cli/internal/ui"
	"github.com/datavirke/odata-go-generator/cli/internal/update"
	"github.com/datavirke/odata-go-generator/cli/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

var versionCheckUpdate bool

func init() {
	versionCmd.Flags().BoolVar(&versionCheckUpdate, "check-update", false, "Check for a newer release")

	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()
	printers := ui.GetColorPrinters()
	printers["primary"].Println(info.FullString())

	if versionCheckUpdate {
		fmt.Println()
		if err := update.CheckForUpdates(info.Version); err != nil {
			ui.PrintWarning("Update check failed: %v", err)
		}
	}
	return nil
}
