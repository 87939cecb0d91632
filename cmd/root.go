// The cmd package implements the interface for the nut-hcl CLI. The files
// contained in this package only handle CLI arguments and pass them to the
// packages that do the work.
//
// For example:
//
//	cmd/list.go    --> internal/query ( query.Apply() )
//	cmd/lint.go    --> internal/lint ( lint.CheckRaw() )
//	cmd/export.go  --> internal/format, internal/db/sqlite
//	cmd/serve.go   --> pkg/daemon ( daemon.Run() )
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	nuthcl "github.com/networkupstools/nut-hcl/internal"
	logger "github.com/networkupstools/nut-hcl/internal/log"
	"github.com/networkupstools/nut-hcl/pkg/hcl"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// The `root` command doesn't do anything on it's own except display
// a help message and then exits.
var rootCmd = &cobra.Command{
	Use:   "nut-hcl",
	Short: "Network UPS Tools hardware compatibility list",
	Long: "Query, lint and export the list of UPS and PDU models supported by\n" +
		"Network UPS Tools drivers, and serve it to the website.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var level logger.LogLevel
		if err := level.Set(viper.GetString("log-level")); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		return logger.InitWithLogLevel(level, viper.GetString("log-file"), viper.GetBool("log-pretty"))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := logger.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close log file")
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			err := cmd.Help()
			if err != nil {
				log.Error().Err(err).Msg("failed to print help")
			}
			os.Exit(0)
		}
	},
}

// This Execute() function is called from main to run the CLI.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	nuthcl.SetDefaults()
	cobra.OnInitialize(InitializeConfig)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Set the config file path")
	rootCmd.PersistentFlags().String("log-level", "info", "Set the log level (trace, debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().String("log-file", "", "Append log messages to this file as well")
	rootCmd.PersistentFlags().Bool("log-pretty", true, "Write human readable log messages to stderr")
	rootCmd.PersistentFlags().String("data", "", "Use the table from this file (.js, .json, .yaml or .db) instead of the built-in one")

	// bind viper config flags with cobra
	for _, name := range []string{"config", "log-level", "log-file", "log-pretty", "data"} {
		checkBindFlagError(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}
}

func checkBindFlagError(err error) {
	if err != nil {
		log.Error().Err(err).Msg("failed to bind cobra/viper flag")
	}
}

// addFlag registers a flag on cmd and binds it to the viper key.
func addFlag(key string, cmd *cobra.Command, name string, short string, value any, usage string) {
	flags := cmd.Flags()
	switch v := value.(type) {
	case string:
		flags.StringP(name, short, v, usage)
	case bool:
		flags.BoolP(name, short, v, usage)
	case int:
		flags.IntP(name, short, v, usage)
	case []string:
		flags.StringSliceP(name, short, v, usage)
	case pflag.Value:
		flags.VarP(v, name, short, usage)
	default:
		panic(fmt.Sprintf("unsupported flag type %T for %s", value, name))
	}
	checkBindFlagError(viper.BindPFlag(key, flags.Lookup(name)))
}

// InitializeConfig() initializes a new config object by loading it
// from a file given a non-empty string.
func InitializeConfig() {
	viper.SetEnvPrefix("NUT_HCL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if path := viper.GetString("config"); path != "" {
		if err := nuthcl.LoadConfig(path); err != nil {
			log.Error().Err(err).Msg("failed to load config")
		}
		return
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		configDir = "$HOME/.config"
	}
	viper.AddConfigPath(configDir + "/nut-hcl")
	viper.SetConfigName("config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Error().Err(err).Msg("failed to load config")
		}
	}
}

// loadRecords returns the table the command should operate on: the file or
// URL named by --data, or the built-in table.
func loadRecords() ([]hcl.Record, error) {
	source := viper.GetString("data")
	if source == "" {
		return hcl.Records(), nil
	}
	log.Debug().Str("source", source).Msg("loading table")
	return readSource(context.Background(), source)
}
