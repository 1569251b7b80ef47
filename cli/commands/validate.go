package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/datavirke/odata-go-generator/cli/internal/config"
	"github.com/datavirke/odata-go-generator/cli/internal/ui"
	"github.com/datavirke/odata-go-generator/csdl"
	"github.com/datavirke/odata-go-generator/generator/codegen"
)

var validateCmd = &cobra.Command{
	Use:   "validate [metadata-path]",
	Short: "Validate a metadata document",
	Long: `Validate an OData metadata.xml document without generating code.

This command will:
- Parse the CSDL document
- Resolve inheritance chains, keys and relationships
- Display a summary of the schema`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var validateMetadataPath string

func init() {
	validateCmd.Flags().StringVarP(&validateMetadataPath, "metadata", "m", "", "Path to the metadata document")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	metadataPath := getMetadataPath(validateMetadataPath, args, cfg)

	ui.PrintHeader("odata-gen", "Validate Metadata")

	if _, err := config.AppFs.Stat(metadataPath); os.IsNotExist(err) {
		return fmt.Errorf("metadata document not found: %s", metadataPath)
	}

	document, err := afero.ReadFile(config.AppFs, metadataPath)
	if err != nil {
		return fmt.Errorf("failed to read metadata document: %w", err)
	}

	schema, err := csdl.ParseSchema(string(document))
	if err != nil {
		ui.PrintError("Metadata parsing failed:")
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		return fmt.Errorf("metadata document is invalid")
	}

	model, err := codegen.Resolve(schema)
	if err != nil {
		ui.PrintError("Metadata validation failed:")
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		return fmt.Errorf("metadata document is invalid")
	}

	absPath, _ := filepath.Abs(metadataPath)
	ui.PrintSuccess("Metadata is valid: %s", absPath)

	fmt.Println()
	ui.PrintSection("Schema Summary")
	ui.PrintList([]string{
		fmt.Sprintf("namespaces: %s", strings.Join(schema.Namespaces(), ", ")),
		fmt.Sprintf("%d entity type(s)", len(model.Entities)),
		fmt.Sprintf("%d complex type(s)", len(model.Complexes)),
		fmt.Sprintf("%d enumeration(s)", len(model.Enums)),
		fmt.Sprintf("%d association(s)", len(schema.Associations)),
	})

	if len(model.Entities) > 0 {
		fmt.Println()
		ui.PrintSection("Entity Types")
		rows := make([][]string, 0, len(model.Entities))
		for _, entity := range model.Entities {
			rows = append(rows, []string{
				entity.Name,
				fmt.Sprintf("%d", len(entity.Properties)),
				fmt.Sprintf("%d", len(entity.Navigations)),
			})
		}
		ui.PrintTable([]string{"Type", "Properties", "Navigations"}, rows)
	}

	if len(model.Complexes) > 0 {
		fmt.Println()
		ui.PrintSection("Complex Types")
		for _, complex := range model.Complexes {
			ui.PrintInfo("%s (%d properties)", complex.Name, len(complex.Properties))
		}
	}

	return nil
}
