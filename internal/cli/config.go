package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpreview/internal/configloader"
	"github.com/yaklabco/mdpreview/internal/logging"
	"github.com/yaklabco/mdpreview/pkg/config"
)

// ErrConfig wraps configuration load failures.
var ErrConfig = errors.New("failed to load configuration")

// commandContext returns the command context, or a background context when
// the command runs without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig layers the configuration files, the environment and the CLI
// values in cliCfg. Only values the user set on the command line belong in
// cliCfg.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	logger := logging.Default()

	if cmd.Flags().Changed("color") {
		raw, err := cmd.Flags().GetString("color")
		if err != nil {
			return nil, "", fmt.Errorf("get color flag: %w", err)
		}
		mode, err := config.ParseColorMode(raw)
		if err != nil {
			return nil, "", err
		}
		cliCfg.Output.Color = mode
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", errors.Join(ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldOpenMode, cfg.OpenMode,
		logging.FieldFormat, cfg.Output.Format,
		logging.FieldDebounce, cfg.Watch.Debounce,
		logging.FieldJobs, cfg.Jobs,
	)

	return cfg, workDir, nil
}
