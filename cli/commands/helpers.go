package commands

import (
	"github.com/datavirke/odata-go-generator/cli/internal/config"
)

// getMetadataPath picks the metadata document path: explicit flag first,
// then positional argument, then the configured default.
func getMetadataPath(flagValue string, args []string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if len(args) > 0 {
		return args[0]
	}
	if cfg != nil && cfg.MetadataPath != "" {
		if _, err := config.AppFs.Stat(cfg.MetadataPath); err == nil {
			return cfg.MetadataPath
		}
		if found := findMetadataFile(); found != "" {
			return found
		}
		return cfg.MetadataPath
	}
	return "metadata.xml"
}

// findMetadataFile looks for a metadata document in common locations.
func findMetadataFile() string {
	commonPaths := []string{
		"metadata.xml",
		"odata/metadata.xml",
		"$metadata.xml",
	}
	for _, path := range commonPaths {
		if _, err := config.AppFs.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
