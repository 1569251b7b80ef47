package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/datavirke/odata-go-generator/cli/internal/config"
	"github.com/datavirke/odata-go-generator/cli/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Configure generator defaults interactively",
	Long: `Set up the generator defaults for this machine.

Prompts for the metadata document location, the output file and the
package name, then saves them so generate and validate can run without
flags.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

const quickstart = `# odata-gen quickstart

1. Download your service metadata:

` + "```" + `sh
curl https://services.example.com/odata/$metadata > metadata.xml
` + "```" + `

2. Generate Go types:

` + "```" + `sh
odata-gen generate
` + "```" + `

3. Use the generated structs with any JSON-speaking OData client. Nullable
   properties are pointers; navigation fields are nil until you $expand them.
`

func runInit(cmd *cobra.Command, args []string) error {
	ui.PrintHeader("odata-gen", "Project Setup")

	cfg := &config.Config{
		MetadataPath: "metadata.xml",
		OutputPath:   "odata/types.go",
		Package:      "odata",
	}

	questions := []*survey.Question{
		{
			Name: "metadataPath",
			Prompt: &survey.Input{
				Message: "Where is your metadata document?",
				Default: cfg.MetadataPath,
			},
			Validate: survey.Required,
		},
		{
			Name: "outputPath",
			Prompt: &survey.Input{
				Message: "Where should generated code go?",
				Default: cfg.OutputPath,
			},
			Validate: survey.Required,
		},
		{
			Name: "package",
			Prompt: &survey.Input{
				Message: "Package name for the generated file?",
				Default: cfg.Package,
			},
			Validate: survey.Required,
		},
	}

	answers := struct {
		MetadataPath string
		OutputPath   string
		Package      string
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	cfg.MetadataPath = answers.MetadataPath
	cfg.OutputPath = answers.OutputPath
	cfg.Package = answers.Package

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	ui.PrintSuccess("Configuration saved")
	fmt.Println()
	return ui.PrintMarkdown(quickstart)
}
