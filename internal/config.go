package nuthcl

import (
	"fmt"

	"github.com/networkupstools/nut-hcl/internal/util"
	"github.com/spf13/viper"
)

// LoadConfig() will load a YAML config file at the specified path. There are some general
// considerations about how this is done with spf13/viper:
//
// 1. There are intentionally no search paths set, so config path has to be set explicitly
// 2. No data will be written to the config file from the tool
// 3. Parameters passed as CLI flags and environment variables should always have
// precedence over values set in the config.
func LoadConfig(path string) error {
	dir, filename, ext := util.SplitPathForViper(path)
	viper.AddConfigPath(dir)
	viper.SetConfigName(filename)
	viper.SetConfigType(ext)
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return fmt.Errorf("config file not found: %w", err)
		} else {
			return fmt.Errorf("failed to load config file: %w", err)
		}
	}

	return nil
}

// SetDefaults() resets all of the viper properties back to their
// default values.
func SetDefaults() {
	viper.SetDefault("config", "")
	viper.SetDefault("log-level", "info")
	viper.SetDefault("log-file", "")
	viper.SetDefault("log-pretty", true)
	viper.SetDefault("list.format", "list")
	viper.SetDefault("list.sort", "")
	viper.SetDefault("list.limit", 0)
	viper.SetDefault("export.format", "js")
	viper.SetDefault("export.output", "docs/website/scripts/ups_data.js")
	viper.SetDefault("export.overwrite", false)
	viper.SetDefault("serve.endpoint", "localhost:8080")
	viper.SetDefault("serve.open", false)
	viper.SetDefault("serve.timeout", 60)
	viper.SetDefault("diff.timeout", 30)
}
