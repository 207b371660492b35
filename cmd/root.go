// Package cmd provides the entrypoint for the gh-issue-bridge cli.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/isometry/gh-issue-bridge/internal/config"
	"github.com/isometry/gh-issue-bridge/internal/handler"
	"github.com/isometry/gh-issue-bridge/internal/runtime"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFilePath string
	logger         *slog.Logger
)

type boundEnvVar[T argType] struct {
	Name, Description string
	Env, Short        *string
	Hidden            bool
	// Count binds an int as a repeatable counter flag (-vvv).
	Count bool
}

// New returns the root command for the gh-issue-bridge.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gh-issue-bridge",
		Short:         "Synchronise GitHub repository issues and pull requests from webhook deliveries",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			config.Global.Mode = strings.TrimSpace(config.Global.Mode)
			logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				AddSource: config.Global.Logging.CallerTrace,
				Level:     slog.LevelWarn - slog.Level(config.Global.Logging.Verbosity*4),
			})).With("mode", config.Global.Mode)
			if err := config.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch config.Global.Mode {
			case config.ModeService:
				return cmdService().RunE(cmd, args)
			case config.ModeLambda:
				return cmdLambda().RunE(cmd, args)
			default:
				return fmt.Errorf("invalid mode: %s", config.Global.Mode)
			}
		},
	}

	// Root command flags
	configFilePath = "config.yaml"
	if path, found := os.LookupEnv("CONFIG_FILE"); found {
		configFilePath = path
	}
	cmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", configFilePath, "[CONFIG_FILE] path to the configuration file")

	// Configuration loading & defaults
	if err := errors.Join(
		config.LoadFromFile(configFilePath),
		config.SetDefaults(),
	); err != nil {
		panic(err)
	}

	// Dynamic flags
	setupDynamicFlags(cmd)

	// Subcommands
	cmd.AddCommand(
		cmdLambda(),
		cmdService(),
	)

	return cmd
}

func setupDynamicFlags(cmd *cobra.Command) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(replacer)

	bindEnvMap(cmd, envMapString)
	bindEnvMap(cmd, envMapBool)
	bindEnvMap(cmd, envMapInt)
	bindEnvMap(cmd, envMapDuration)
	bindEnvMap(cmd, envMapStringSlice)
}

func setupRuntime(cmd *cobra.Command) (*runtime.Runtime, error) {
	logger.Debug("creating webhook handler...")
	hdl, err := handler.NewHandler(
		handler.WithContext(cmd.Context()),
		handler.WithLogger(logger.With("component", "handler")))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook handler: %w", err)
	}
	logger.Debug("creating runtime...")
	return runtime.NewRuntime(hdl,
		runtime.WithPayloadType(config.Lambda.PayloadType),
		runtime.WithLogger(logger.With("component", "runtime"))), nil
}
