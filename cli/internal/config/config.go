// Package config resolves CLI defaults from config files, environment
// variables and .env files, in that order of increasing priority.
package config

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem used for all CLI file IO. Tests swap it for an
// in-memory one.
var AppFs = afero.NewOsFs()

// Config holds the persisted generator defaults. Command-line flags
// override all of these.
type Config struct {
	MetadataPath string
	OutputPath   string
	Package      string
}

// LoadConfig reads .odata-gen.yaml from the working directory, the home
// directory or ~/.config/odata-gen, then applies ODATA_GEN_* environment
// variables on top.
func LoadConfig() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".odata-gen")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "odata-gen"))

	viper.SetEnvPrefix("ODATA_GEN")
	viper.AutomaticEnv()

	viper.SetDefault("metadata_path", "metadata.xml")
	viper.SetDefault("output_path", "")
	viper.SetDefault("package", "odata")

	// Missing config file is fine; defaults apply.
	_ = viper.ReadInConfig()

	// .env and .env.local may carry ODATA_GEN_* overrides.
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	return &Config{
		MetadataPath: viper.GetString("metadata_path"),
		OutputPath:   viper.GetString("output_path"),
		Package:      viper.GetString("package"),
	}, nil
}

// SaveConfig writes the defaults to ~/.config/odata-gen/.odata-gen.yaml.
func SaveConfig(cfg *Config) error {
	viper.Set("metadata_path", cfg.MetadataPath)
	viper.Set("output_path", cfg.OutputPath)
	viper.Set("package", cfg.Package)

	home, err := homedir.Dir()
	if err != nil {
		return err
	}

	configDir := filepath.Join(home, ".config", "odata-gen")
	if err := AppFs.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	return viper.WriteConfigAs(filepath.Join(configDir, ".odata-gen.yaml"))
}
