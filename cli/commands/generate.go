package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/datavirke/odata-go-generator/cli/internal/config"
	"github.com/datavirke/odata-go-generator/cli/internal/ui"
	"github.com/datavirke/odata-go-generator/cli/internal/watch"
	"github.com/datavirke/odata-go-generator/generator"
)

var generateCmd = &cobra.Command{
	Use:   "generate [metadata-path]",
	Short: "Generate Go types from a metadata document",
	Long: `Generate Go source code from an OData metadata.xml document.

This command will:
- Parse the CSDL metadata document
- Resolve inheritance chains and relationships
- Emit a single Go file with structs, enums and metadata methods`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

var (
	generateMetadataPath string
	generateOutput       string
	generatePackage      string
	generateNoSerde      bool
	generateNoCoerce     bool
	generateNoReflection bool
	generateNoExpand     bool
	generateWatch        bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateMetadataPath, "metadata", "m", "", "Path to the metadata document")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file (default stdout)")
	generateCmd.Flags().StringVarP(&generatePackage, "package", "p", "", "Package name for the generated file")
	generateCmd.Flags().BoolVar(&generateNoSerde, "no-serde", false, "Omit json tags and enum codec methods")
	generateCmd.Flags().BoolVar(&generateNoCoerce, "no-empty-string-is-null", false, "Keep empty strings instead of coercing them to nil")
	generateCmd.Flags().BoolVar(&generateNoReflection, "no-reflection", false, "Omit the Model interface and metadata methods")
	generateCmd.Flags().BoolVar(&generateNoExpand, "no-expand", false, "Omit navigation property fields")
	generateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Watch the metadata document and regenerate on change")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	metadataPath := getMetadataPath(generateMetadataPath, args, cfg)
	output := generateOutput
	if output == "" {
		output = cfg.OutputPath
	}

	opts := generator.DefaultOptions()
	opts.Serialization = !generateNoSerde
	opts.EmptyStringAsNull = !generateNoCoerce
	opts.Reflection = !generateNoReflection
	opts.IncludeNavigations = !generateNoExpand
	switch {
	case generatePackage != "":
		opts.Package = generatePackage
	case cfg.Package != "":
		opts.Package = cfg.Package
	}

	if generateWatch {
		return runGenerateWatch(metadataPath, output, opts)
	}
	return generateOnce(metadataPath, output, opts, true)
}

func generateOnce(metadataPath, output string, opts generator.Options, verbose bool) error {
	// Stay quiet on stdout when the generated code goes there.
	verbose = verbose && output != ""
	if verbose {
		ui.PrintHeader("odata-gen", "Generate Go Types")
	}

	if _, err := config.AppFs.Stat(metadataPath); os.IsNotExist(err) {
		return fmt.Errorf("metadata document not found: %s", metadataPath)
	}

	document, err := afero.ReadFile(config.AppFs, metadataPath)
	if err != nil {
		return fmt.Errorf("failed to read metadata document: %w", err)
	}

	var spinner *pterm.SpinnerPrinter
	if verbose {
		spinner, _ = ui.PrintSpinner("Generating Go types...")
	}
	source, err := generator.Generate(string(document), opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if output == "" {
		fmt.Print(source)
		return nil
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := config.AppFs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := afero.WriteFile(config.AppFs, output, []byte(source), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	absPath, _ := filepath.Abs(output)
	ui.PrintSuccess("Generated %s", absPath)

	if verbose {
		info := pterm.Info.WithPrefix(pterm.Prefix{
			Text:  "INFO",
			Style: pterm.NewStyle(pterm.FgBlue),
		})
		info.Println(fmt.Sprintf("Metadata: %s", metadataPath))
		info.Println(fmt.Sprintf("Package: %s", opts.Package))
	}
	return nil
}

func runGenerateWatch(metadataPath, output string, opts generator.Options) error {
	ui.PrintHeader("odata-gen", "Watch Mode")

	if output == "" {
		return fmt.Errorf("watch mode requires --output")
	}

	regenerate := func() error {
		ui.PrintInfo("Metadata changed, regenerating...")
		return generateOnce(metadataPath, output, opts, false)
	}

	if err := generateOnce(metadataPath, output, opts, false); err != nil {
		return err
	}

	watcher, err := watch.NewWatcher(metadataPath, regenerate)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()
	watcher.Start()

	ui.PrintSuccess("Watching %s for changes... (Press Ctrl+C to stop)", metadataPath)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	ui.PrintInfo("\nStopping watch mode...")
	return nil
}
