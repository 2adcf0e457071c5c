package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zx06/xsecret/internal/config"
	"github.com/zx06/xsecret/internal/errors"
	"github.com/zx06/xsecret/internal/log"
)

// Build-time variables (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Config holds the resolved configuration
type Config struct {
	FormatStr   string
	ConfigStr   string
	ProfileStr  string
	BackendStr  string
	LogLevelStr string
	Resolved    config.Resolved
	Logger      *slog.Logger
}

// GlobalConfig holds the global configuration state
var GlobalConfig = &Config{}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "xsecret",
		Short:         "Store and retrieve secrets in the platform's native secret store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// CLI > ENV > Config
			configSet := cmd.Flags().Changed("config")
			if configSet && GlobalConfig.ConfigStr == "" {
				return errors.New(errors.CodeCfgInvalid, "config path is empty", nil)
			}

			r, xe := config.Resolve(config.Options{
				ConfigPath:     GlobalConfig.ConfigStr,
				CLIProfile:     GlobalConfig.ProfileStr,
				CLIProfileSet:  cmd.Flags().Changed("profile"),
				CLIFormat:      GlobalConfig.FormatStr,
				CLIFormatSet:   cmd.Flags().Changed("format"),
				CLIBackend:     GlobalConfig.BackendStr,
				CLIBackendSet:  cmd.Flags().Changed("backend"),
				CLILogLevel:    GlobalConfig.LogLevelStr,
				CLILogLevelSet: cmd.Flags().Changed("log-level"),
				EnvProfile:     os.Getenv("XSECRET_PROFILE"),
				EnvFormat:      os.Getenv("XSECRET_FORMAT"),
				EnvBackend:     os.Getenv("XSECRET_BACKEND"),
				EnvLogLevel:    os.Getenv("XSECRET_LOG_LEVEL"),
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
			GlobalConfig.ProfileStr = r.ProfileName
			GlobalConfig.BackendStr = r.Backend
			GlobalConfig.LogLevelStr = r.LogLevel
			GlobalConfig.Logger = log.NewWithLevel(cmd.ErrOrStderr(), level)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&GlobalConfig.ConfigStr, "config", "", "Config file path (YAML); default: ./xsecret.yaml or $HOME/.config/xsecret/xsecret.yaml")
	root.PersistentFlags().StringVarP(&GlobalConfig.ProfileStr, "profile", "p", "", "Profile name (config: profiles.<name>)")
	root.PersistentFlags().StringVarP(&GlobalConfig.FormatStr, "format", "f", "auto", "Output format: json|yaml|table|csv|auto")
	root.PersistentFlags().StringVarP(&GlobalConfig.BackendStr, "backend", "b", "auto", "Secret backend: auto|keyring|secret-service|wincred|ring|memory")
	root.PersistentFlags().StringVar(&GlobalConfig.LogLevelStr, "log-level", "info", "Log level on stderr: debug|info|warn|error")

	return root
}
