package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zx06/keytar/internal/config"
	"github.com/zx06/keytar/internal/errors"
	"github.com/zx06/keytar/internal/log"
)

// Build-time variables (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logOutput is where diagnostic logs go; stdout is reserved for the envelope.
var logOutput io.Writer = os.Stderr

// Config holds the resolved configuration
type Config struct {
	FormatStr   string
	ConfigStr   string
	LogLevelStr string
	Resolved    config.Resolved
	Logger      *slog.Logger
}

// GlobalConfig holds the global configuration state
var GlobalConfig = &Config{}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "keytar",
		Short:         "Get, set, delete and find secrets in the OS credential store",
		Version:       version + " (" + commit + ", " + date + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// CLI > ENV > Config
			formatSet := cmd.Flags().Changed("format")
			logLevelSet := cmd.Flags().Changed("log-level")
			configSet := cmd.Flags().Changed("config")
			if configSet && GlobalConfig.ConfigStr == "" {
				return errors.New(errors.CodeCfgInvalid, "config path is empty", nil)
			}

			r, xe := config.Resolve(config.Options{
				ConfigPath:     GlobalConfig.ConfigStr,
				CLIFormat:      GlobalConfig.FormatStr,
				CLIFormatSet:   formatSet,
				CLILogLevel:    GlobalConfig.LogLevelStr,
				CLILogLevelSet: logLevelSet,
				EnvFormat:      os.Getenv("KEYTAR_FORMAT"),
				EnvLogLevel:    os.Getenv("KEYTAR_LOG_LEVEL"),
				WorkDir:        "",
				HomeDir:        "",
			})
			if xe != nil {
				return xe
			}

			level, xe := log.ParseLevel(r.LogLevel)
			if xe != nil {
				return xe
			}
			GlobalConfig.Resolved = r
			GlobalConfig.FormatStr = r.Format
			GlobalConfig.LogLevelStr = r.LogLevel
			GlobalConfig.Logger = log.NewWithLevel(logOutput, level)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&GlobalConfig.ConfigStr, "config", "", "Config file path (YAML); default: ./keytar.yaml or $HOME/.config/keytar/keytar.yaml")
	root.PersistentFlags().StringVarP(&GlobalConfig.FormatStr, "format", "f", "auto", "Output format: json|yaml|table|csv|auto")
	root.PersistentFlags().StringVar(&GlobalConfig.LogLevelStr, "log-level", "warn", "Log level: debug|info|warn|error (logs go to stderr)")

	return root
}
